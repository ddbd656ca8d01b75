package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gemstore/internal/model"
	"gemstore/internal/service"
)

// CatalogHandler handles catalog maintenance requests: embedding updates
// pushed by an external pipeline, and on-demand enrichment batches.
type CatalogHandler struct {
	searchService *service.SearchService
	enrichService *service.EnrichmentService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(searchService *service.SearchService, enrichService *service.EnrichmentService) *CatalogHandler {
	return &CatalogHandler{
		searchService: searchService,
		enrichService: enrichService,
	}
}

// BatchUpdateEmbeddings handles POST /api/v1/catalog/embeddings/batch
func (h *CatalogHandler) BatchUpdateEmbeddings(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	success, errors := h.searchService.UpdateEmbeddings(c.Request.Context(), req.Embeddings)

	c.JSON(http.StatusOK, model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(req.Embeddings) - success,
		Errors:  errors,
	})
}

// Enrich handles POST /api/v1/catalog/enrich
func (h *CatalogHandler) Enrich(c *gin.Context) {
	batchSize := 100
	if v, err := strconv.Atoi(c.Query("batch")); err == nil && v > 0 {
		batchSize = v
	}

	processed, err := h.enrichService.EnrichPending(c.Request.Context(), batchSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Enrichment failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"processed": processed})
}
