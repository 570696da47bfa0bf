package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gatherly/gatherly/internal/auth"
	"github.com/gatherly/gatherly/internal/cache"
	"github.com/gatherly/gatherly/internal/config"
	"github.com/gatherly/gatherly/internal/handler"
	"github.com/gatherly/gatherly/internal/metrics"
	"github.com/gatherly/gatherly/internal/repository"
	"github.com/gatherly/gatherly/internal/server"
	"github.com/gatherly/gatherly/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. Pending migrations are applied first when
MIGRATIONS_AUTO is true. The server drains in-flight requests on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := initLogger(cfg.LogLevel, cfg.LogFormat)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if cfg.MigrationsAuto {
		if err := repository.MigrateUp(cfg.DatabaseURL); err != nil {
			logger.Error("failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			return errors.New("migrations failed")
		}
		logger.Info("migrations applied")
	}

	retry := retryPolicy{attempts: cfg.ConnectRetries, backoff: cfg.ConnectBackoff}

	repo, err := connectWithRetry(ctx, logger, "postgres", retry, func(ctx context.Context) (*repository.Repository, error) {
		return repository.New(ctx, cfg.DatabaseURL)
	})
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return errors.New("database unavailable")
	}
	logger.Info("connected to database")

	cacheClient, err := connectWithRetry(ctx, logger, "redis", retry, func(ctx context.Context) (*cache.Cache, error) {
		return cache.New(ctx, cfg.RedisURL, cache.DefaultOptions())
	})
	if err != nil {
		repo.Close()
		logger.Error("failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return errors.New("redis unavailable")
	}
	logger.Info("connected to Redis")

	var recorder metrics.Recorder = metrics.NewNoop()
	var prom *metrics.PrometheusRecorder
	if cfg.MetricsEnabled {
		prom = metrics.NewPrometheus()
		recorder = prom
	}

	sessions := auth.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	authService := service.NewAuthService(repo, hasher, sessions, recorder)
	eventService := service.NewEventService(repo, recorder, service.WithLocation(loc))

	router := newRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		info:     handler.New(),
		health:   handler.NewHealthHandler(repo, cacheClient),
		auth:     handler.NewAuthHandler(authService, logger, cfg.CookieSecure),
		events:   handler.NewEventHandler(eventService, logger, loc),
		sessions: sessions,
		limiter:  cacheClient,
		metrics:  recorder,
		prom:     prom,
	})

	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"timezone", loc.String(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}
