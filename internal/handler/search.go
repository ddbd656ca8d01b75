package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gemstore/internal/model"
	"gemstore/internal/service"
)

// SearchHandler handles inventory search HTTP requests. It is the stable
// boundary with the presentation layer: flat query parameters in, canonical
// listings plus pagination metadata out. It never builds provider queries
// itself.
type SearchHandler struct {
	searchService *service.SearchService
	defaultLimit  int
	maxLimit      int
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService, defaultLimit, maxLimit int) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		defaultLimit:  defaultLimit,
		maxLimit:      maxLimit,
	}
}

// Search handles GET /api/v1/diamonds
func (h *SearchHandler) Search(c *gin.Context) {
	values := c.Request.URL.Query()
	state := model.DecodeFilterState(values)
	sort := model.ParseSortKey(values.Get("sort"))
	page := h.pageRequest(values.Get("offset"), values.Get("limit"))

	response, err := h.searchService.Search(c.Request.Context(), state, sort, page)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetListing handles GET /api/v1/catalog/:id
func (h *SearchHandler) GetListing(c *gin.Context) {
	listing, err := h.searchService.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing: " + err.Error()})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Similar handles GET /api/v1/catalog/:id/similar
func (h *SearchHandler) Similar(c *gin.Context) {
	limit := h.defaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	listings, err := h.searchService.SimilarListings(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find similar listings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": listings})
}

// pageRequest parses and caps the pagination window.
func (h *SearchHandler) pageRequest(offsetStr, limitStr string) model.PageRequest {
	offset := 0
	if v, err := strconv.Atoi(offsetStr); err == nil && v > 0 {
		offset = v
	}
	limit := h.defaultLimit
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
		limit = v
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	return model.PageRequest{Offset: offset, Limit: limit}
}
