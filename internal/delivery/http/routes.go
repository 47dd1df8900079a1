package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gramkart/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	api := router.Group("/api")
	{
		api.GET("/health", handler.HealthCheck)
		api.POST("/process-voice", handler.ProcessVoice)
		api.POST("/add-product", handler.AddProduct)
		api.POST("/get-price-suggestion", handler.GetPriceSuggestion)
		api.POST("/categorize-product", handler.CategorizeProduct)
		api.POST("/generate-description", handler.GenerateDescription)
		api.GET("/get-categories", handler.GetCategories)
		api.GET("/get-products/:user_id", handler.GetUserProducts)
	}

	return router
}
