package service

import (
	"context"
	"log"

	"gemstore/internal/model"
	"gemstore/internal/repository"
	"gemstore/internal/vocab"
)

// EnrichmentService runs the extractors over catalog rows whose grading
// attributes were never populated. It operates on externally-sourced
// records; provider-sourced listings arrive already structured and never
// pass through here.
type EnrichmentService struct {
	repo      *repository.CatalogRepository
	extractor *TextExtractor
}

// NewEnrichmentService creates a new enrichment service
func NewEnrichmentService(repo *repository.CatalogRepository, extractor *TextExtractor) *EnrichmentService {
	return &EnrichmentService{
		repo:      repo,
		extractor: extractor,
	}
}

// EnrichPending extracts grading attributes for up to batchSize unenriched
// catalog rows and persists the results. Rows whose text yields nothing are
// still marked enriched so they are not rescanned forever. Returns the
// number of rows processed.
func (s *EnrichmentService) EnrichPending(ctx context.Context, batchSize int) (int, error) {
	rows, err := s.repo.ListUnenriched(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, row := range rows {
		title, description := "", ""
		if row.Title != nil {
			title = *row.Title
		}
		if row.Description != nil {
			description = *row.Description
		}

		attrs := s.extractGrading(title, description)
		if err := s.repo.UpdateGrading(ctx, row.ID, attrs); err != nil {
			log.Printf("enrichment failed for %s: %v", row.ID, err)
			continue
		}
		processed++
	}

	return processed, nil
}

// extractGrading runs the heuristic extractor over a row's text, then, when
// the description carries label-delimited descriptor segments, overlays the
// structured parse on top: a descriptor value wins over a heuristic match
// for the same field, a missing one leaves the heuristic result alone.
func (s *EnrichmentService) extractGrading(title, description string) model.GradingAttributes {
	attrs := s.extractor.Extract(title, description)

	text := cleanMarkup(description)
	if !descriptorLabelRe.MatchString(text) {
		return attrs
	}

	d := ParseDescriptor(text)
	if d.Color != nil {
		attrs.Color = d.Color
	}
	if d.Clarity != nil {
		attrs.Clarity = d.Clarity
	}
	if d.Cut != nil {
		attrs.Cut = d.Cut
		if cut := vocab.NormalizeCut(*d.Cut); cut != "" {
			attrs.Cut = &cut
		}
	}
	return attrs
}
