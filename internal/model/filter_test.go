package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterStateRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state func() *FilterState
	}{
		{
			name:  "empty state",
			state: NewFilterState,
		},
		{
			name: "sets only",
			state: func() *FilterState {
				s := NewFilterState()
				s.Shapes = []string{"ROUND", "OVAL"}
				s.Colors = []string{"D", "E", "F"}
				s.Clarities = []string{"VS1"}
				s.Labs = []string{"GIA", "IGI"}
				return s
			},
		},
		{
			name: "ranges off default",
			state: func() *FilterState {
				s := NewFilterState()
				s.Carat = Range{Min: 1, Max: 2.5}
				s.Table = Range{Min: 52, Max: 62}
				s.CrownAngle = Range{Min: 30, Max: 36}
				return s
			},
		},
		{
			name: "mixed with certificate number",
			state: func() *FilterState {
				s := NewFilterState()
				s.Shapes = []string{"CUSHION MODIFIED"}
				s.Cuts = []string{"EX", "VG"}
				s.LabGrownTypes = []string{"CVD"}
				s.GirdleThickness = []string{"Medium"}
				s.PriceRanges = []string{"1000-2500", "2500-5000"}
				s.CertificateNumber = "2141438171"
				s.Carat = Range{Min: 0.5, Max: 10}
				s.Ratio = Range{Min: 1, Max: 1.05}
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.state()
			got := DecodeFilterState(ParamsToValues(want.Encode()))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("decode(encode(s)) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeKeyOrderMatchesContract(t *testing.T) {
	s := NewFilterState()
	s.Shapes = []string{"ROUND", "OVAL"}
	s.Labs = []string{"GIA"}
	s.LabGrownTypes = []string{"CVD"}
	s.CertificateNumber = "2141438171"
	s.Colors = []string{"D"}
	s.Clarities = []string{"IF"}
	s.Cuts = []string{"EX"}
	s.PriceRanges = []string{"1000-2500"}
	s.Fluorescence = []string{"None"}
	s.Polish = []string{"EX"}
	s.Symmetry = []string{"VG"}
	s.GirdleThickness = []string{"Medium"}
	s.Carat = Range{Min: 1, Max: 2}
	s.Table = Range{Min: 52, Max: 62}
	s.Depth = Range{Min: 58, Max: 64}
	s.Ratio = Range{Min: 1, Max: 1.05}
	s.Length = Range{Min: 5, Max: 9}
	s.Width = Range{Min: 5, Max: 9}
	s.Height = Range{Min: 3, Max: 6}
	s.CrownAngle = Range{Min: 30, Max: 36}
	s.PavilionAngle = Range{Min: 40, Max: 42}

	var keys []string
	for _, p := range s.Encode() {
		keys = append(keys, p.Key)
	}

	want := []string{
		"shape", "shape", "certification", "labGrownType", "certificateNumber",
		"color", "clarity", "cut", "priceRange",
		"minCarat", "maxCarat", "fluorescence",
		"minTable", "maxTable", "minDepth", "maxDepth",
		"polish", "symmetry",
		"minRatio", "maxRatio", "minLength", "maxLength",
		"minWidth", "maxWidth", "minHeight", "maxHeight",
		"minCrownAngle", "maxCrownAngle", "minPavilionAngle", "maxPavilionAngle",
		"girdleThickness",
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("encoded key order mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeSuppressesDefaults(t *testing.T) {
	s := NewFilterState()
	s.Carat = DefaultCarat // explicitly the default [0,10]

	for _, p := range s.Encode() {
		if p.Key == "minCarat" || p.Key == "maxCarat" {
			t.Errorf("default carat range emitted %s=%s", p.Key, p.Value)
		}
	}

	if params := NewFilterState().Encode(); len(params) != 0 {
		t.Errorf("empty state encoded to %v, want no params", params)
	}
}

func TestEncodeEmitsOnlyChangedBound(t *testing.T) {
	s := NewFilterState()
	s.Carat = Range{Min: 1.5, Max: DefaultCarat.Max}

	params := s.Encode()
	if len(params) != 1 {
		t.Fatalf("got %d params, want 1: %v", len(params), params)
	}
	if params[0].Key != "minCarat" || params[0].Value != "1.5" {
		t.Errorf("got %s=%s, want minCarat=1.5", params[0].Key, params[0].Value)
	}
}

func TestDecodeClampsAndDedupes(t *testing.T) {
	values := ParamsToValues([]Param{
		{"minCarat", "-5"},
		{"maxCarat", "50"},
		{"shape", "ROUND"},
		{"shape", "ROUND"},
		{"shape", "PEAR"},
		{"someFutureKey", "x"},
	})

	s := DecodeFilterState(values)

	if s.Carat != DefaultCarat {
		t.Errorf("carat = %+v, want clamped to %+v", s.Carat, DefaultCarat)
	}
	if diff := cmp.Diff([]string{"ROUND", "PEAR"}, s.Shapes); diff != "" {
		t.Errorf("shapes mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMissingBoundTakesDefault(t *testing.T) {
	s := DecodeFilterState(ParamsToValues([]Param{{"minCarat", "1.2"}}))

	if s.Carat.Min != 1.2 {
		t.Errorf("carat min = %v, want 1.2", s.Carat.Min)
	}
	if s.Carat.Max != DefaultCarat.Max {
		t.Errorf("carat max = %v, want default %v", s.Carat.Max, DefaultCarat.Max)
	}
}

func TestDecodeInvertedBounds(t *testing.T) {
	s := DecodeFilterState(ParamsToValues([]Param{
		{"minCarat", "3"},
		{"maxCarat", "2"},
	}))

	if s.Carat.Min > s.Carat.Max {
		t.Errorf("invariant violated: min %v > max %v", s.Carat.Min, s.Carat.Max)
	}
}
