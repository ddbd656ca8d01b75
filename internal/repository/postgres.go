package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"gemstore/internal/model"
)

// CatalogRepository handles database operations for the catalog-side
// listings (externally-sourced records enriched by the extraction flow).
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new PostgreSQL catalog repository
func NewCatalogRepository(dsn string, maxConn, maxIdleConn int) (*CatalogRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &CatalogRepository{db: db}, nil
}

// Close closes the database connection
func (r *CatalogRepository) Close() error {
	return r.db.Close()
}

// GetListingByID retrieves a single catalog listing
func (r *CatalogRepository) GetListingByID(ctx context.Context, id string) (*model.CatalogListing, error) {
	var listing model.CatalogListing
	err := r.db.GetContext(ctx, &listing, `
		SELECT id, title, description, price, currency, image_url, available, enriched,
		       diamond_type, color, clarity, cut, carat, shape, lab, lab_grown_type,
		       polish, symmetry, fluorescence, girdle, measurements, table_pct, depth_pct,
		       created_at, updated_at
		FROM catalog_listings
		WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing %s: %w", id, err)
	}
	return &listing, nil
}

// ListUnenriched returns catalog rows that still lack extracted grading
// attributes, oldest first.
func (r *CatalogRepository) ListUnenriched(ctx context.Context, limit int) ([]model.CatalogListing, error) {
	var listings []model.CatalogListing
	err := r.db.SelectContext(ctx, &listings, `
		SELECT id, title, description, price, currency, image_url, available, enriched,
		       diamond_type, color, clarity, cut, carat, shape, lab, lab_grown_type,
		       polish, symmetry, fluorescence, girdle, measurements, table_pct, depth_pct,
		       created_at, updated_at
		FROM catalog_listings
		WHERE enriched = false
		ORDER BY created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unenriched rows: %w", err)
	}
	return listings, nil
}

// UpdateGrading persists extracted grading attributes on a catalog row and
// marks it enriched.
func (r *CatalogRepository) UpdateGrading(ctx context.Context, id string, g model.GradingAttributes) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE catalog_listings
		SET diamond_type = $2, color = $3, clarity = $4, cut = $5, carat = $6,
		    shape = $7, lab = $8, lab_grown_type = $9,
		    enriched = true, updated_at = NOW()
		WHERE id = $1`,
		id, g.DiamondType, g.Color, g.Clarity, g.Cut, g.Carat, g.Shape, g.Lab, g.LabGrownType)
	if err != nil {
		return fmt.Errorf("failed to update grading for %s: %w", id, err)
	}
	return nil
}

// BatchUpdateEmbeddings updates description embeddings for multiple catalog
// listings. Returns the success count and per-row errors.
func (r *CatalogRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errors []string

	for _, item := range items {
		result, err := r.db.ExecContext(ctx, `
			UPDATE catalog_listings
			SET embedding = $2, updated_at = NOW()
			WHERE id = $1`,
			item.ListingID, pgvector.NewVector(item.Embedding))
		if err != nil {
			errors = append(errors, fmt.Sprintf("listing %s: %v", item.ListingID, err))
			continue
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			errors = append(errors, fmt.Sprintf("listing %s: not found", item.ListingID))
			continue
		}
		success++
	}

	return success, errors
}

// SimilarListings returns the catalog rows nearest to a listing's
// description embedding, excluding the listing itself.
func (r *CatalogRepository) SimilarListings(ctx context.Context, id string, limit int) ([]model.CatalogListing, error) {
	var listings []model.CatalogListing
	err := r.db.SelectContext(ctx, &listings, `
		SELECT id, title, description, price, currency, image_url, available, enriched,
		       diamond_type, color, clarity, cut, carat, shape, lab, lab_grown_type,
		       polish, symmetry, fluorescence, girdle, measurements, table_pct, depth_pct,
		       created_at, updated_at
		FROM catalog_listings
		WHERE id <> $1
		  AND embedding IS NOT NULL
		ORDER BY embedding <=> (SELECT embedding FROM catalog_listings WHERE id = $1)
		LIMIT $2`, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar listings for %s: %w", id, err)
	}
	return listings, nil
}
