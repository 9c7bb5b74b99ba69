package main

import (
	"log"
	"os"

	"github.com/binaryshield/godeye-console/internal/api/handlers"
	"github.com/binaryshield/godeye-console/internal/config"
	"github.com/binaryshield/godeye-console/internal/database"
	"github.com/binaryshield/godeye-console/internal/godeye"
	"github.com/binaryshield/godeye-console/internal/health"
	"github.com/binaryshield/godeye-console/internal/middleware"
	"github.com/binaryshield/godeye-console/internal/repository"
	"github.com/binaryshield/godeye-console/internal/results"
	"github.com/binaryshield/godeye-console/internal/search"
	"github.com/binaryshield/godeye-console/internal/store"
	"github.com/binaryshield/godeye-console/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	logger.Info("Starting GodEye console...")

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.ValidateGodEye(); err != nil {
		logger.WithError(err).Fatal("GodEye configuration validation failed")
	}

	dbConfig := &database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	dbManager, err := database.NewManager(dbConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Database migration failed")
	}

	repoManager := repository.NewRepositoryManager(dbManager.DB)
	resultStore := store.NewRedisStore(dbManager.Redis, logger)

	client := godeye.NewClient(cfg.GodEye.BaseURL, cfg.GodEye.APIKey, logger).
		WithTimeout(cfg.GodEye.RequestTimeout).
		WithRetry(godeye.RetryConfig{
			MaxRetries: cfg.GodEye.RetryAttempts,
			BaseDelay:  cfg.GodEye.RetryDelay,
			MaxDelay:   15 * cfg.GodEye.RetryDelay,
		})

	searchController := search.NewController(client, resultStore, repoManager.SearchRecord, search.Options{
		MinLoading:    cfg.Search.MinLoading,
		RedirectDelay: cfg.Search.RedirectDelay,
	}, logger)
	resultsController := results.NewController(resultStore, results.TypeDistribution{}, logger)
	checker := health.NewHealthChecker(dbManager, client, repoManager.SystemHealth, logger)

	searchHandler := handlers.NewSearchHandler(searchController, logger)
	resultsHandler := handlers.NewResultsHandler(resultsController, resultStore, repoManager.SearchRecord, logger)
	uploadHandler := handlers.NewUploadHandler(logger)
	healthHandler := handlers.NewHealthHandler(checker, logger)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger(logger))

	limiter := middleware.NewRateLimiter(60)

	router.GET("/health", healthHandler.HandleHealth)

	api := router.Group("/api")
	api.Use(limiter.RateLimit())
	{
		api.POST("/search", searchHandler.HandleSearch)
		api.GET("/detect", searchHandler.HandleDetectType)
		api.GET("/results", resultsHandler.HandleResults)
		api.GET("/results/chart", resultsHandler.HandleChart)
		api.GET("/export/json", resultsHandler.HandleExportJSON)
		api.GET("/export/csv", resultsHandler.HandleExportCSV)
		api.GET("/history", resultsHandler.HandleHistory)
		api.DELETE("/results", resultsHandler.HandleClear)
		api.POST("/upload", uploadHandler.HandleUpload)
		api.GET("/status", healthHandler.HandleStatus)
	}

	logger.WithField("port", cfg.Server.Port).Info("GodEye console listening")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server exited")
	}
}
