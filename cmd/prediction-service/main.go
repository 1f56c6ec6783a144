package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/agroclima/prediction-service/internal/analysis"
	httpapi "github.com/agroclima/prediction-service/internal/api/http"
	"github.com/agroclima/prediction-service/internal/config"
	"github.com/agroclima/prediction-service/internal/forecast"
	"github.com/agroclima/prediction-service/internal/history"
	"github.com/agroclima/prediction-service/internal/pipeline"
	"github.com/agroclima/prediction-service/internal/scheduler"
	"github.com/agroclima/prediction-service/internal/station"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Historical data: archive client behind a TTL cache.
	histClient := history.NewClient(httpClient, cfg.WindowDays)
	fetcher := history.NewFetcher(histClient, history.NewCache(cfg.HistoryCacheTTL))

	// Load one predictor per station; disabled models leave the station
	// registered but unavailable.
	predictors := make(map[string]forecast.Predictor)
	stations := make([]station.Station, 0, len(cfg.Stations))
	for _, st := range cfg.Stations {
		if cfg.DisabledModels[st.ID] {
			log.Printf("INFO: model for station %s disabled by configuration", st.ID)
			stations = append(stations, st)
			continue
		}
		predictors[st.ID] = forecast.NewHarmonicPredictor(st.ID, cfg.HorizonHours)
		st.ModelAvailable = true
		stations = append(stations, st)
	}
	registry := station.NewRegistry(stations)
	log.Printf("INFO: %d of %d station models loaded", len(predictors), len(stations))

	dispatcher, err := forecast.NewDispatcher(cfg.HorizonHours, predictors)
	if err != nil {
		log.Fatalf("failed to build forecast dispatcher: %v", err)
	}

	// Reasoning service: absent credential means degraded mode, not a crash.
	var generator analysis.Generator
	if cfg.GeminiConfigured() {
		gemini, err := analysis.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("failed to init gemini client: %v", err)
		}
		defer gemini.Close()
		generator = gemini
		log.Println("INFO: GEMINI_API_KEY configured; agricultural analysis enabled")
	} else {
		log.Println("WARN: GEMINI_API_KEY not configured; agricultural analysis disabled")
	}
	orchestrator := analysis.NewOrchestrator(generator, cfg.AnalysisMaxConcurrent, cfg.AnalysisTimeout)

	service := pipeline.NewService(registry, fetcher, dispatcher, orchestrator)

	// Optional cache warmer for station coordinates.
	warmer := scheduler.New(registry, fetcher, cfg.WarmInterval)
	if err := warmer.Start(); err != nil {
		log.Fatalf("failed to start history warmer: %v", err)
	}
	defer warmer.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "prediction-service",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "prediction-service",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
