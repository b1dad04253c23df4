package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/asinwatch/asinwatch-backend/api/routes"
	"github.com/asinwatch/asinwatch-backend/internal/catalog"
	"github.com/asinwatch/asinwatch-backend/internal/history"
	"github.com/asinwatch/asinwatch-backend/internal/prefs"
	"github.com/asinwatch/asinwatch-backend/internal/profiles"
	"github.com/asinwatch/asinwatch-backend/internal/reference"
	"github.com/asinwatch/asinwatch-backend/internal/rollup"
	"github.com/asinwatch/asinwatch-backend/pkg/config"
	"github.com/asinwatch/asinwatch-backend/pkg/db"
	"github.com/asinwatch/asinwatch-backend/pkg/logger"
	"github.com/asinwatch/asinwatch-backend/pkg/metrics"
	"github.com/asinwatch/asinwatch-backend/pkg/migrate"
	"github.com/asinwatch/asinwatch-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	// Redis is optional: without it the reference cache degrades to plain
	// DB reads.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	gormDB := dbClient.DB()

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	historyService, err := history.NewService(history.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create history service", err)
		os.Exit(1)
	}

	rollupService, err := rollup.NewService(rollup.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create rollup service", err)
		os.Exit(1)
	}

	prefsService, err := prefs.NewService(prefs.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create preferences service", err)
		os.Exit(1)
	}

	var referenceCache reference.Cache
	if redisClient != nil {
		referenceCache = redisClient
	}
	referenceService, err := reference.NewService(reference.NewRepository(gormDB), referenceCache, logg, cfg.Catalog.ReferenceCacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create reference service", err)
		os.Exit(1)
	}

	profilesService, err := profiles.NewService(profiles.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Metrics:   httpMetrics,
			Catalog:   catalogService,
			History:   historyService,
			Rollup:    rollupService,
			Prefs:     prefsService,
			Reference: referenceService,
			Profiles:  profilesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
