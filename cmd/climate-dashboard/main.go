package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpapi "github.com/i474232898/climate-dashboard/internal/api/http"
	"github.com/i474232898/climate-dashboard/internal/config"
	"github.com/i474232898/climate-dashboard/internal/scheduler"
	"github.com/i474232898/climate-dashboard/internal/store"
	"github.com/i474232898/climate-dashboard/internal/weather"
	"github.com/i474232898/climate-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx := context.Background()

	// Key-value store for settings and snapshot history.
	kv, err := store.Open(ctx, store.Options{
		Backend:    cfg.StoreBackend,
		SQLitePath: cfg.SQLitePath,
		Redis: store.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}
	defer kv.Close()
	log.Info().Str("backend", cfg.StoreBackend).Msg("initialized store")

	repo := store.NewRepository(kv, cfg.DefaultLocation)
	if err := seedAPIKey(ctx, repo, cfg.OpenWeatherAPIKey); err != nil {
		kv.Close()
		log.Fatal().Err(err).Msg("failed to seed api key")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	client := providers.NewOpenWeatherProvider(httpClient, providers.OpenWeatherConfig{
		BaseURL:  cfg.OpenWeatherBaseURL,
		TimeZone: cfg.DisplayTimeZone,
	})

	recorder := weather.NewRecorder(repo, cfg.HistoryMaxDays, cfg.DisplayTimeZone)
	service := weather.NewService(client, repo, repo, recorder, weather.Options{
		CurrentStaleAfter:  cfg.CurrentStaleAfter,
		ForecastStaleAfter: cfg.ForecastStaleAfter,
		DefaultLocation:    cfg.DefaultLocation,
		Logger:             log.With().Str("component", "weather").Logger(),
	})

	// Periodic current-weather refresh.
	sched := scheduler.New(cfg.CurrentRefreshInterval, cfg.HTTPTimeout, service,
		log.With().Str("component", "scheduler").Logger())
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "climate-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          cfg.HTTPTimeout * 3,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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
			"service": "climate-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}

func setupLogger(cfg *config.AppConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// seedAPIKey stores the key from the environment unless the user already
// saved one through the settings endpoint.
func seedAPIKey(ctx context.Context, repo *store.Repository, key string) error {
	if key == "" {
		return nil
	}
	current, err := repo.APIKey(ctx)
	if err != nil {
		return fmt.Errorf("read api key: %w", err)
	}
	if current != "" {
		return nil
	}
	if err := repo.SetAPIKey(ctx, key); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}
	log.Info().Msg("seeded API key from OPENWEATHER_API_KEY")
	return nil
}
