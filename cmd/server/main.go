package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gramkart/backend/config"
	httpDelivery "github.com/gramkart/backend/internal/delivery/http"
	"github.com/gramkart/backend/internal/domain"
	"github.com/gramkart/backend/internal/infrastructure/cache"
	"github.com/gramkart/backend/internal/infrastructure/gemini"
	"github.com/gramkart/backend/internal/infrastructure/postgres"
	"github.com/gramkart/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Msg("starting gramkart backend")

	ctx := context.Background()

	// Database
	pool, err := postgres.NewPool(ctx, cfg.Database.ConnectionString(), &postgres.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure database schema")
	}

	productRepo := postgres.NewProductRepository(pool, logger)
	categoryRepo := postgres.NewCategoryRepository(pool, logger)
	historyRepo := postgres.NewPriceHistoryRepository(pool, logger)

	if err := categoryRepo.Seed(ctx, postgres.DefaultCategories()); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed categories")
	}

	// Cache
	var suggestionCache domain.CacheRepository
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		suggestionCache = redisCache
	default:
		memoryCache := cache.NewMemoryCache(0)
		defer memoryCache.Close()
		suggestionCache = memoryCache
	}

	// Text completion capability; probed once, absence degrades to fallbacks.
	completer := gemini.NewClient(gemini.Config{
		APIKey:         cfg.Gemini.APIKey,
		BaseURL:        cfg.Gemini.BaseURL,
		Model:          cfg.Gemini.Model,
		RequestTimeout: cfg.Gemini.RequestTimeout,
		VerifyTimeout:  cfg.Gemini.VerifyTimeout,
	}, logger)
	completer.Verify(ctx)
	logger.Info().Bool("ai_available", completer.Available()).Msg("text completion capability probed")

	// Pipeline stages
	categorizer, err := usecase.NewCategorizer(ctx, categoryRepo, completer, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load categorizer")
	}

	catalogService := usecase.NewCatalogService(
		usecase.NewTextNormalizer(),
		usecase.NewIntentClassifier(),
		usecase.NewEntityExtractor(completer, logger),
		categorizer,
		usecase.NewPriceEngine(historyRepo, suggestionCache, cfg.Cache.TTL, logger),
		usecase.NewDescriptionGenerator(completer, logger),
		productRepo,
		categoryRepo,
		logger,
	)

	handler := httpDelivery.NewHandler(catalogService, completer, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
