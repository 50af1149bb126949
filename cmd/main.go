package main

import (
	"fmt"
	"os"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/clients/redis"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/db"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/handlers"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/logger"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/repos"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/server"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/services"
	"github.com/Samhita-P/KSITNEXUS-sub001/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	scoringConfigPath := utils.GetEnv("SCORING_CONFIG_PATH", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	interactionRepo := repos.NewInteractionRepo(thePG, log)
	preferenceRepo := repos.NewUserPreferenceRepo(thePG, log)
	recommendationRepo := repos.NewRecommendationRepo(thePG, log)
	similarityRepo := repos.NewSimilarityRepo(thePG, log)
	contentItemRepo := repos.NewContentItemRepo(thePG, log)

	// Redis cache (optional: recommendations fall through to Postgres without it)
	recCache, err := redis.NewRecommendationCache(log)
	if err != nil {
		log.Warn("Redis cache unavailable, serving uncached", "error", err)
		recCache = nil
	}

	// Scoring config
	scoringCfg := services.LoadScoringConfig(scoringConfigPath, log)

	// Services
	log.Info("Setting up Services from main...")
	recommendationService := services.NewRecommendationService(
		thePG,
		log,
		scoringCfg,
		recommendationRepo,
		interactionRepo,
		preferenceRepo,
		contentItemRepo,
		similarityRepo,
		recCache,
	)
	interactionService := services.NewInteractionService(thePG, log, interactionRepo, recommendationRepo, recCache)
	preferenceService := services.NewPreferenceService(thePG, log, preferenceRepo, recCache)
	similarityService := services.NewSimilarityService(thePG, log, interactionRepo, similarityRepo)
	contentService := services.NewContentService(thePG, log, contentItemRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	recommendationHandler := handlers.NewRecommendationHandler(log, recommendationService)
	interactionHandler := handlers.NewInteractionHandler(log, interactionService)
	preferenceHandler := handlers.NewPreferenceHandler(log, preferenceService)
	contentHandler := handlers.NewContentHandler(log, contentService)
	similarityHandler := handlers.NewSimilarityHandler(log, similarityService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		RecommendationHandler: recommendationHandler,
		InteractionHandler:    interactionHandler,
		PreferenceHandler:     preferenceHandler,
		ContentHandler:        contentHandler,
		SimilarityHandler:     similarityHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
