package model

import "testing"

func TestNewPageInfoBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		limit    int
		total    int
		wantNext bool
		wantPrev bool
	}{
		{"last partial page", 40, 20, 50, false, true},
		{"first page", 0, 20, 50, true, false},
		{"window ends exactly at total", 30, 20, 50, false, true},
		{"middle page", 20, 20, 100, true, true},
		{"empty result set", 0, 20, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(PageRequest{Offset: tt.offset, Limit: tt.limit}, tt.total)

			if info.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", info.HasNextPage, tt.wantNext)
			}
			if info.HasPreviousPage != tt.wantPrev {
				t.Errorf("HasPreviousPage = %v, want %v", info.HasPreviousPage, tt.wantPrev)
			}
		})
	}
}

func TestPageInfoCursors(t *testing.T) {
	info := NewPageInfo(PageRequest{Offset: 20, Limit: 20}, 100)

	if info.NextCursor != "offset=40" {
		t.Errorf("NextCursor = %q, want offset=40", info.NextCursor)
	}
	if info.PrevCursor != "offset=0" {
		t.Errorf("PrevCursor = %q, want offset=0", info.PrevCursor)
	}

	// Previous cursor never goes negative on a misaligned window.
	info = NewPageInfo(PageRequest{Offset: 10, Limit: 20}, 100)
	if info.PrevCursor != "offset=0" {
		t.Errorf("PrevCursor = %q, want offset=0", info.PrevCursor)
	}
}

func TestParseSortKey(t *testing.T) {
	if got := ParseSortKey("price-desc"); got != SortPriceDesc {
		t.Errorf("ParseSortKey(price-desc) = %q", got)
	}
	if got := ParseSortKey("not-a-sort"); got != SortPriceAsc {
		t.Errorf("ParseSortKey fallback = %q, want %q", got, SortPriceAsc)
	}
}
