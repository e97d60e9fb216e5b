package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/ondieki1237/kenicweb-sub000/config"
	"github.com/ondieki1237/kenicweb-sub000/database"
	"github.com/ondieki1237/kenicweb-sub000/handlers"
	"github.com/ondieki1237/kenicweb-sub000/jobs"
	"github.com/ondieki1237/kenicweb-sub000/services"
	"github.com/ondieki1237/kenicweb-sub000/shared"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", cfg.LogLevel)
	}

	// Connect to database when configured. The API works without one; the
	// lookup history and registrar persistence just stay off.
	if cfg.DatabaseURL != "" {
		if err := database.Connect(cfg.DatabaseURL); err != nil {
			logrus.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.Migrate("database/schema.sql"); err != nil {
			logrus.Warnf("Migration warning: %v", err)
		}
	} else {
		logrus.Info("DATABASE_URL not set, running without persistence")
	}

	suffixes := config.AllowedSuffixes()

	// Core services
	cacheService := services.NewCacheService(cfg.GetWhoisCacheTTL(), 1000)
	whoisClient := services.NewWhoisClient(
		cfg.WhoisAddr(),
		cfg.GetWhoisTimeout(),
		cfg.WhoisRetryCount,
		cfg.GetWhoisRetryBackoff(),
		cacheService,
		cfg.GetWhoisCacheTTL(),
	)
	availabilityService := services.NewAvailabilityService(whoisClient, suffixes, config.DefaultSuffix)

	registrarService := services.NewRegistrarService(suffixes)
	if database.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		persisted, err := database.LoadRegistrars(ctx)
		cancel()
		if err != nil {
			logrus.Warnf("Failed to load persisted registrars, using seed table: %v", err)
		} else if len(persisted) > 0 {
			if err := registrarService.ReplaceAll(persisted); err != nil {
				logrus.Warnf("Persisted registrar table rejected, using seed table: %v", err)
			}
		}
	}

	// AI providers, in fallback order. Providers without an API key are left
	// out of the chain entirely.
	httpFactory := shared.NewHTTPClientFactory(30 * time.Second)
	var providers []services.IdeaProvider
	if cfg.GeminiAPIKey != "" {
		providers = append(providers, services.NewGeminiProvider(cfg.GeminiAPIKey, httpFactory))
	}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, services.NewOpenAIProvider(cfg.OpenAIAPIKey, httpFactory))
	}
	if cfg.AnthropicAPIKey != "" {
		providers = append(providers, services.NewAnthropicProvider(cfg.AnthropicAPIKey, httpFactory))
	}
	if cfg.CohereAPIKey != "" {
		providers = append(providers, services.NewCohereProvider(cfg.CohereAPIKey, httpFactory))
	}
	logrus.Infof("Configured %d AI suggestion providers", len(providers))

	suggestionService := services.NewSuggestionService(
		providers,
		availabilityService,
		registrarService,
		suffixes,
		cfg.SuggestionConcurrency,
		cfg.SuggestionMax,
	)

	// Jobs
	pricingScraper := services.NewPricingScraper()
	pricingSyncJob := jobs.NewPricingSyncJob(registrarService, pricingScraper, suffixes)
	cleanupJob := jobs.NewCacheCleanupJob(cacheService)

	// Handlers
	domainHandler := handlers.NewDomainHandler(availabilityService, registrarService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	registrarHandler := handlers.NewRegistrarHandler(registrarService)
	adminHandler := handlers.NewAdminHandler(registrarService, pricingSyncJob)
	cacheHandler := handlers.NewCacheHandler(cacheService)

	// Start background jobs
	go func() {
		pricingTicker := time.NewTicker(cfg.GetPricingSyncInterval())
		cleanupTicker := time.NewTicker(1 * time.Hour)

		for {
			select {
			case <-pricingTicker.C:
				pricingSyncJob.Run()
			case <-cleanupTicker.C:
				cleanupJob.Run()
			}
		}
	}()

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Routes
	api := app.Group("/api/v1")

	// Domain Routes
	api.Get("/domains/check", domainHandler.CheckDomain)
	api.Post("/domains/bulk-check", domainHandler.BulkCheck)
	api.Get("/domains/suggestions", suggestionHandler.KeywordSuggest)

	// Suggestion Routes
	api.Post("/suggestions/ai", suggestionHandler.AISuggest)

	// Registrar Routes
	api.Get("/registrars", registrarHandler.List)
	api.Get("/registrars/pricing", registrarHandler.Pricing)

	// Admin Routes
	admin := api.Group("/admin")
	admin.Use(handlers.AdminAuthMiddleware(cfg.AdminToken))
	admin.Put("/registrars", adminHandler.ReplaceRegistrars)
	admin.Post("/pricing/sync", adminHandler.TriggerPricingSync)
	admin.Get("/cache/stats", cacheHandler.Stats)
	admin.Delete("/cache", cacheHandler.Clear)

	// Start server
	logrus.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}
