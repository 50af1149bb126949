package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Samhita-P/KSITNEXUS-sub001/internal/handlers"
)

type RouterConfig struct {
	RecommendationHandler *handlers.RecommendationHandler
	InteractionHandler    *handlers.InteractionHandler
	PreferenceHandler     *handlers.PreferenceHandler
	ContentHandler        *handlers.ContentHandler
	SimilarityHandler     *handlers.SimilarityHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Recommendations
		api.GET("/recommendations", cfg.RecommendationHandler.GetRecommendations)
		api.POST("/recommendations/dismiss", cfg.RecommendationHandler.Dismiss)
		api.POST("/recommendations/feedback", cfg.RecommendationHandler.SubmitFeedback)
		api.POST("/recommendations/purge", cfg.RecommendationHandler.Purge)
		// Interactions
		api.POST("/interactions", cfg.InteractionHandler.Record)
		// Preferences
		api.GET("/preferences", cfg.PreferenceHandler.Get)
		api.PUT("/preferences", cfg.PreferenceHandler.Update)
		// Content projection
		api.POST("/content/sync", cfg.ContentHandler.Sync)
		// Similarity recompute
		api.POST("/similarity/compute", cfg.SimilarityHandler.Compute)
	}

	return router
}
