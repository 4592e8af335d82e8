package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tonetrace-api/internal/config"
	"github.com/noah-isme/tonetrace-api/internal/database"
	"github.com/noah-isme/tonetrace-api/internal/handler"
	"github.com/noah-isme/tonetrace-api/internal/middleware"
	"github.com/noah-isme/tonetrace-api/internal/mockdata"
	"github.com/noah-isme/tonetrace-api/internal/observability"
	"github.com/noah-isme/tonetrace-api/internal/repository"
	"github.com/noah-isme/tonetrace-api/internal/router"
	"github.com/noah-isme/tonetrace-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.AppName, cfg.AppEnv)
	probes := map[string]handler.Probe{}

	var datasetRepo repository.DatasetRepository
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		if cfg.AutoMigrateDatabase {
			if err := database.Migrate(db); err != nil {
				logger.Fatal().Err(err).Msg("failed to migrate database")
			}
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to access database pool")
		}
		defer sqlDB.Close()

		probes["postgres"] = sqlDB.PingContext
		datasetRepo = repository.NewDatasetRepository(db)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
			client := redisClient
			probes["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}

	var publisher service.EventPublisher
	if cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, dataset events disabled")
		} else {
			defer conn.Drain()
			publisher = conn
			probes["nats"] = func(context.Context) error {
				if conn.Status() != nats.CONNECTED {
					return nats.ErrConnectionClosed
				}
				return nil
			}
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	datasetService := service.NewDatasetService(mockdata.NewBuilder(), datasetRepo, redisClient, publisher, validate, service.DatasetOptions{
		UseMocks:           cfg.UseMocks,
		DefaultSeed:        cfg.DefaultSeed,
		DefaultStudents:    cfg.DefaultStudents,
		DefaultAssignments: cfg.DefaultAssignments,
		DefaultSnapshot:    cfg.DefaultSnapshot,
		MockLatency:        cfg.MockLatency,
		CacheTTL:           cfg.CacheTTL,
		EventsSubject:      cfg.EventsSubject,
	}, logger)
	if datasetRepo != nil && cfg.SeedOnStart {
		seeder := service.NewSeedService(datasetService, datasetRepo, true, logger)
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := seeder.EnsureSnapshot(seedCtx, cfg.DefaultSnapshot); err != nil {
			logger.Error().Err(err).Str("snapshot", cfg.DefaultSnapshot).Msg("failed to seed default snapshot")
		}
		cancel()
	}

	analyticsService := service.NewClassAnalyticsService(datasetService, redisClient, cfg.CacheTTL, logger)
	rosterService := service.NewRosterService(datasetService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:        &logger,
		AccessLogging: cfg.AppEnv == "development",
	})
	router.Register(app, cfg, router.Dependencies{
		DatasetHandler:   handler.NewDatasetHandler(datasetService, logger),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsService, logger),
		RosterHandler:    handler.NewRosterHandler(rosterService, logger),
		HealthProbes:     probes,
	})

	logger.Info().
		Str("addr", cfg.HTTPAddress()).
		Bool("use_mocks", cfg.UseMocks).
		Bool("auth", cfg.AuthEnabled()).
		Bool("snapshots", datasetRepo != nil).
		Bool("cache", redisClient != nil).
		Bool("events", publisher != nil).
		Msg("starting server")

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
