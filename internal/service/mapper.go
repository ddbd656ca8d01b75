package service

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"gemstore/internal/model"
)

// ResultMapper turns raw provider items into canonical listings and computes
// pagination metadata. Per-item anomalies are absorbed here: a missing
// grading sub-object maps to nils, only a missing id drops the item.
type ResultMapper struct {
	origin string
}

// NewResultMapper creates a mapper resolving relative media paths against
// the given provider origin.
func NewResultMapper(origin string) *ResultMapper {
	return &ResultMapper{origin: strings.TrimRight(origin, "/")}
}

// Map converts one provider page into canonical listings plus the derived
// pagination window.
func (m *ResultMapper) Map(page *SearchPage, req model.PageRequest) ([]model.Listing, model.PageInfo) {
	listings := make([]model.Listing, 0, len(page.Items))
	for _, item := range page.Items {
		if item.ID == "" {
			log.Printf("dropping provider item without id")
			continue
		}
		listings = append(listings, m.mapItem(item))
	}
	return listings, model.NewPageInfo(req, page.TotalCount)
}

func (m *ResultMapper) mapItem(item RawItem) model.Listing {
	grading := gradingFromCertificate(item.Certificate)
	return model.Listing{
		ID:        item.ID,
		Title:     deriveTitle(item.ID, grading),
		Price:     item.Price,
		Currency:  item.Currency,
		Grading:   grading,
		ImageURL:  m.resolveMedia(item.ImagePath),
		VideoURL:  m.resolveMedia(item.VideoPath),
		Available: strings.EqualFold(item.Availability, "AVAILABLE"),
		Source:    model.SourceProvider,
	}
}

// gradingFromCertificate copies the structured grading sub-object field for
// field. A nil certificate yields an all-nil result; the listing still ships.
func gradingFromCertificate(cert *RawCertificate) model.GradingAttributes {
	if cert == nil {
		return model.GradingAttributes{}
	}
	g := model.GradingAttributes{
		Color:        cert.Color,
		Clarity:      cert.Clarity,
		Cut:          cert.Cut,
		Shape:        cert.Shape,
		Lab:          cert.Lab,
		LabGrownType: cert.LabGrownType,
		Polish:       cert.Polish,
		Symmetry:     cert.Symmetry,
		Fluorescence: cert.Fluorescence,
		Girdle:       cert.Girdle,
		Measurements: cert.Measurements,
		TablePct:     cert.TablePct,
		DepthPct:     cert.DepthPct,
	}
	if cert.Carats != nil {
		carat := strconv.FormatFloat(*cert.Carats, 'f', 2, 64)
		g.Carat = &carat
	}
	if cert.LabGrownType != nil {
		labGrown := model.DiamondTypeLabGrown
		g.DiamondType = &labGrown
	}
	return g
}

// deriveTitle builds a display title from whatever grading fields are
// present, falling back to the item id.
func deriveTitle(id string, g model.GradingAttributes) string {
	switch {
	case g.Carat != nil && g.Shape != nil:
		return fmt.Sprintf("%sct %s Diamond", *g.Carat, *g.Shape)
	case g.Shape != nil:
		return fmt.Sprintf("%s Diamond", *g.Shape)
	case g.Carat != nil:
		return fmt.Sprintf("%sct Diamond", *g.Carat)
	default:
		return fmt.Sprintf("Diamond %s", id)
	}
}

// resolveMedia prefixes the provider origin onto relative media paths.
// Absolute URLs pass through untouched.
func (m *ResultMapper) resolveMedia(path string) *string {
	if path == "" {
		return nil
	}
	if strings.Contains(path, "://") {
		return &path
	}
	resolved := m.origin + "/" + strings.TrimLeft(path, "/")
	return &resolved
}
