package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gemstore/internal/cache"
	"gemstore/internal/config"
	"gemstore/internal/handler"
	"gemstore/internal/repository"
	"gemstore/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Gemstore Inventory Search")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize catalog database connection
	repo, err := repository.NewCatalogRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("Connected to PostgreSQL catalog")

	// Initialize result cache
	results := cache.NewResultCache(&cfg.Redis)
	defer results.Close()
	if cfg.Redis.Enabled {
		log.Printf("Result cache enabled (%s, ttl %ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	} else {
		log.Println("Result cache disabled - provider failures will not fall back to stale listings")
	}

	// Initialize provider client
	providerClient := service.NewProviderClient(&cfg.Provider)
	if cfg.Provider.Enabled {
		log.Printf("Inventory provider configured: %s", cfg.Provider.BaseURL)
	} else {
		log.Println("Provider credentials missing - inventory searches will fail over to cache")
	}

	// Initialize services
	compiler := service.NewQueryCompiler(providerClient)
	mapper := service.NewResultMapper(providerClient.Origin())
	extractor := service.NewTextExtractor("")
	searchService := service.NewSearchService(compiler, mapper, results, repo)
	enrichService := service.NewEnrichmentService(repo, extractor)

	log.Println("Services initialized")

	// Initialize handlers
	searchHandler := handler.NewSearchHandler(searchService, cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	catalogHandler := handler.NewCatalogHandler(searchService, enrichService)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "gemstore-inventory-search",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/diamonds", searchHandler.Search)
		apiV1.GET("/catalog/:id", searchHandler.GetListing)
		apiV1.GET("/catalog/:id/similar", searchHandler.Similar)

		apiV1.POST("/catalog/embeddings/batch", catalogHandler.BatchUpdateEmbeddings)
		apiV1.POST("/catalog/enrich", catalogHandler.Enrich)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server stopped")
}
