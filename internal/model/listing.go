package model

import (
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
)

// Diamond type values used in GradingAttributes.DiamondType.
const (
	DiamondTypeNatural  = "Natural"
	DiamondTypeLabGrown = "Lab-Grown"
)

// Listing provenance values.
const (
	SourceProvider = "provider"
	SourceCatalog  = "catalog"
)

// GradingAttributes holds the standard gemological descriptors of a stone.
// Every field is optional; a populated field always belongs to its controlled
// vocabulary. Extraction yields nil for anything it cannot match.
type GradingAttributes struct {
	DiamondType  *string `json:"diamond_type,omitempty" db:"diamond_type"`
	Color        *string `json:"color,omitempty" db:"color"`
	Clarity      *string `json:"clarity,omitempty" db:"clarity"`
	Cut          *string `json:"cut,omitempty" db:"cut"`
	Carat        *string `json:"carat,omitempty" db:"carat"`
	Shape        *string `json:"shape,omitempty" db:"shape"`
	Lab          *string `json:"lab,omitempty" db:"lab"`
	LabGrownType *string `json:"lab_grown_type,omitempty" db:"lab_grown_type"`

	// Passthrough fields, populated only when sourced structurally.
	Polish       *string  `json:"polish,omitempty" db:"polish"`
	Symmetry     *string  `json:"symmetry,omitempty" db:"symmetry"`
	Fluorescence *string  `json:"fluorescence,omitempty" db:"fluorescence"`
	Girdle       *string  `json:"girdle,omitempty" db:"girdle"`
	Measurements *string  `json:"measurements,omitempty" db:"measurements"`
	TablePct     *float64 `json:"table_pct,omitempty" db:"table_pct"`
	DepthPct     *float64 `json:"depth_pct,omitempty" db:"depth_pct"`
}

// Listing is the canonical, presentation-agnostic record produced from a raw
// provider item or a catalog row. Never mutated after creation.
type Listing struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Price     *float64          `json:"price,omitempty"`
	Currency  string            `json:"currency,omitempty"`
	Grading   GradingAttributes `json:"grading"`
	ImageURL  *string           `json:"image_url,omitempty"`
	VideoURL  *string           `json:"video_url,omitempty"`
	Available bool              `json:"available"`
	Source    string            `json:"source"`
}

// CatalogListing is a catalog-side row holding an externally-sourced record,
// enriched in place by the extraction flow.
type CatalogListing struct {
	ID          string   `json:"id" db:"id"`
	Title       *string  `json:"title,omitempty" db:"title"`
	Description *string  `json:"description,omitempty" db:"description"`
	Price       *float64 `json:"price,omitempty" db:"price"`
	Currency    *string  `json:"currency,omitempty" db:"currency"`
	ImageURL    *string  `json:"image_url,omitempty" db:"image_url"`
	Available   bool     `json:"available" db:"available"`
	Enriched    bool     `json:"enriched" db:"enriched"`

	GradingAttributes

	Embedding pgvector.Vector `json:"-" db:"embedding"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Canonical converts a catalog row to its canonical listing shape.
func (c *CatalogListing) Canonical() Listing {
	l := Listing{
		ID:        c.ID,
		Price:     c.Price,
		Grading:   c.GradingAttributes,
		ImageURL:  c.ImageURL,
		Available: c.Available,
		Source:    SourceCatalog,
	}
	if c.Currency != nil {
		l.Currency = *c.Currency
	}
	if c.Title != nil {
		l.Title = *c.Title
	}
	return l
}

// PageRequest is the caller-supplied pagination window.
type PageRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PageInfo is the pagination metadata computed per response. Cursor tokens
// are opaque offset-encoded strings; they are not stable across filter
// changes.
type PageInfo struct {
	Offset          int    `json:"offset"`
	Limit           int    `json:"limit"`
	Total           int    `json:"total"`
	HasNextPage     bool   `json:"has_next_page"`
	HasPreviousPage bool   `json:"has_previous_page"`
	NextCursor      string `json:"next_cursor,omitempty"`
	PrevCursor      string `json:"prev_cursor,omitempty"`
}

// NewPageInfo derives the pagination flags and cursors from a request window
// and the provider-reported total.
func NewPageInfo(req PageRequest, total int) PageInfo {
	info := PageInfo{
		Offset:          req.Offset,
		Limit:           req.Limit,
		Total:           total,
		HasNextPage:     req.Offset+req.Limit < total,
		HasPreviousPage: req.Offset > 0,
	}
	if info.HasNextPage {
		info.NextCursor = fmt.Sprintf("offset=%d", req.Offset+req.Limit)
	}
	if info.HasPreviousPage {
		prev := req.Offset - req.Limit
		if prev < 0 {
			prev = 0
		}
		info.PrevCursor = fmt.Sprintf("offset=%d", prev)
	}
	return info
}

// Sort keys accepted by the search API. The set is closed; anything else
// falls back to SortPriceAsc.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// ParseSortKey validates a raw sort parameter.
func ParseSortKey(raw string) string {
	if raw == SortPriceDesc {
		return SortPriceDesc
	}
	return SortPriceAsc
}

// SearchResponse is the payload returned to the presentation layer.
type SearchResponse struct {
	Results []Listing `json:"results"`
	Page    PageInfo  `json:"page"`
	Cached  bool      `json:"cached"`
	Took    int64     `json:"took_ms"`
}

// EmbeddingBatchRequest represents a batch embedding update request.
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding with listing info.
type EmbeddingItem struct {
	ListingID string    `json:"listing_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingBatchResponse represents the response for batch embedding update.
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
