package service

import (
	"context"
	"log"
	"time"

	"gemstore/internal/cache"
	"gemstore/internal/model"
	"gemstore/internal/repository"
)

// SearchService ties the compiler, mapper, result cache and catalog together
// behind the API boundary. One request is one synchronous compile/execute
// cycle; nothing here is shared mutable state between requests.
type SearchService struct {
	compiler *QueryCompiler
	mapper   *ResultMapper
	results  *cache.ResultCache
	repo     *repository.CatalogRepository
}

// NewSearchService creates a new search service
func NewSearchService(
	compiler *QueryCompiler,
	mapper *ResultMapper,
	results *cache.ResultCache,
	repo *repository.CatalogRepository,
) *SearchService {
	return &SearchService{
		compiler: compiler,
		mapper:   mapper,
		results:  results,
		repo:     repo,
	}
}

// Search executes one filtered inventory search. On a fatal provider failure
// the last cached listing set for this filter state is served instead, with
// the Cached flag raised; the error surfaces only when there is nothing to
// fall back to.
func (s *SearchService) Search(ctx context.Context, state *model.FilterState, sort string, page model.PageRequest) (*model.SearchResponse, error) {
	startTime := time.Now()
	key := s.results.Key(state, sort, page)

	result, err := s.compiler.Execute(ctx, state, sort, page)
	if err != nil {
		if cached, ok := s.results.Get(ctx, key); ok {
			log.Printf("provider failure, serving cached listings: %v", err)
			cached.Cached = true
			return cached, nil
		}
		return nil, err
	}

	listings, pageInfo := s.mapper.Map(result, page)

	resp := &model.SearchResponse{
		Results: listings,
		Page:    pageInfo,
		Took:    time.Since(startTime).Milliseconds(),
	}
	s.results.Set(ctx, key, resp)
	return resp, nil
}

// GetListing retrieves a single catalog listing in canonical shape.
func (s *SearchService) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	row, err := s.repo.GetListingByID(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	listing := row.Canonical()
	return &listing, nil
}

// SimilarListings returns catalog listings nearest to the given one by
// description embedding.
func (s *SearchService) SimilarListings(ctx context.Context, id string, limit int) ([]model.Listing, error) {
	rows, err := s.repo.SimilarListings(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	listings := make([]model.Listing, len(rows))
	for i := range rows {
		listings[i] = rows[i].Canonical()
	}
	return listings, nil
}

// UpdateEmbeddings updates description embeddings for multiple catalog
// listings.
func (s *SearchService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	return s.repo.BatchUpdateEmbeddings(ctx, items)
}
