package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tagdeck/backend/api/routes"
	"github.com/tagdeck/backend/internal/ingest"
	"github.com/tagdeck/backend/internal/orders"
	"github.com/tagdeck/backend/internal/tags"
	"github.com/tagdeck/backend/pkg/config"
	"github.com/tagdeck/backend/pkg/db"
	"github.com/tagdeck/backend/pkg/logger"
	"github.com/tagdeck/backend/pkg/migrate"
	"github.com/tagdeck/backend/pkg/redis"
	"github.com/tagdeck/backend/pkg/shopify"
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
	})

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	platformClient, err := shopify.NewClient(context.Background(), cfg.Shopify, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create platform client", err)
		os.Exit(1)
	}

	webhookGuard, err := ingest.NewIdempotencyGuard(redisClient, cfg.Webhook.IdempotencyTTL, "order-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	sessions := tags.NewRegistry()
	ordersService := orders.NewService(ordersRepo, platformClient, sessions, logg)
	ingestService := ingest.NewService(dbClient, ordersRepo, logg)

	router := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		ordersService,
		ingestService,
		platformClient,
		webhookGuard,
	)

	addr := ":" + cfg.App.Port
	ctx := logg.WithField(context.Background(), "addr", addr)
	logg.Info(ctx, "api listening")

	if err := http.ListenAndServe(addr, router); err != nil {
		logg.Error(ctx, "server stopped", err)
		os.Exit(1)
	}
}
