package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/alligatorO15/finboard/internal/api"
	"github.com/alligatorO15/finboard/internal/api/middleware"
	"github.com/alligatorO15/finboard/internal/auth"
	"github.com/alligatorO15/finboard/internal/backend"
	"github.com/alligatorO15/finboard/internal/config"
	"github.com/alligatorO15/finboard/internal/dashboard"
	"github.com/alligatorO15/finboard/internal/database"
	"github.com/alligatorO15/finboard/internal/daterange"
	"github.com/alligatorO15/finboard/internal/logging"
	"github.com/alligatorO15/finboard/internal/repository"
	"github.com/alligatorO15/finboard/internal/stats"
)

func main() {
	// загрузка .env файла
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Env, cfg.LogLevel, os.Stdout)
	if envErr != nil {
		logger.Debug().Msg(".env file not found, using process environment")
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	descriptors, err := stats.LoadDescriptors(cfg.StatsConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load stat descriptors")
	}

	preset, _ := daterange.ParsePreset(cfg.DefaultRange)
	opts := []dashboard.Option{
		dashboard.WithSelector(daterange.NewSelector(daterange.WithPreset(preset))),
		dashboard.WithDescriptors(descriptors),
		dashboard.WithCurrency(cfg.DefaultCurrency),
	}

	// история снапшотов включается только при заданном DATABASE_URL
	if cfg.SnapshotsEnabled() {
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		// запуск миграций
		if err := database.RunMigrations(ctx, db); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}

		repos := repository.NewRepositories(db, cfg.SnapshotRetention)
		opts = append(opts, dashboard.WithSnapshots(repos.Snapshot, repos.Snapshot))
		logger.Info().Int("retention", cfg.SnapshotRetention).Msg("snapshot history enabled")
	}

	client := backend.NewClient(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithToken(cfg.BackendToken),
	)
	d := dashboard.New(client, opts...)

	var tokens middleware.TokenValidator
	if cfg.JWTSecret != "" {
		tokens = auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpiration)
	} else {
		logger.Warn().Msg("JWT_SECRET not set, API is unauthenticated")
	}

	// инициализация и запуск API сервера
	server := api.NewServer(cfg, d, tokens, logger)

	logger.Info().
		Str("port", cfg.Port).
		Str("backend", client.BaseURL()).
		Msg("starting finboard server")
	if err := server.Run(ctx, ":"+cfg.Port); err != nil {
		logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("server stopped")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
