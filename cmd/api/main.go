package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/printcrm/api/routes"
	"github.com/angelmondragon/printcrm/internal/catalog"
	"github.com/angelmondragon/printcrm/internal/orders"
	"github.com/angelmondragon/printcrm/internal/pricing"
	"github.com/angelmondragon/printcrm/internal/session"
	"github.com/angelmondragon/printcrm/internal/users"
	"github.com/angelmondragon/printcrm/pkg/config"
	"github.com/angelmondragon/printcrm/pkg/db"
	"github.com/angelmondragon/printcrm/pkg/logger"
	"github.com/angelmondragon/printcrm/pkg/metrics"
	"github.com/angelmondragon/printcrm/pkg/migrate"
	pkgredis "github.com/angelmondragon/printcrm/pkg/redis"
	"github.com/angelmondragon/printcrm/pkg/security"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 15 * time.Second
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("dev migrations: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	defaults := pricing.SizeLimits{
		MaxSide:     cfg.Pricing.MaxSide(),
		ExtraSupply: cfg.Pricing.ExtraSupply(),
	}
	catalogSvc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), defaults)
	if err != nil {
		return fmt.Errorf("catalog service: %w", err)
	}

	deps := routes.Dependencies{
		DB:       dbClient,
		Metrics:  m,
		Gatherer: registry,
	}

	if cfg.Redis.Enabled() {
		var redisClient *pkgredis.Client
		redisClient, err = pkgredis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		catalogSvc = catalog.NewCachedService(catalogSvc, redisClient, cfg.Lookup.CacheTTL, logg)
		deps.Redis = redisClient
		deps.Idempotency = redisClient
	} else {
		logg.Warn(ctx, "redis not configured; lookup cache and idempotency disabled")
	}

	ordersSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return fmt.Errorf("orders service: %w", err)
	}

	resolver := session.NewResolver(catalogSvc, logg, m, defaults, cfg.Lookup.Timeout)
	sessions, err := session.NewRegistry(resolver, ordersSvc, cfg.Session, logg, m)
	if err != nil {
		return fmt.Errorf("session registry: %w", err)
	}
	go sessions.RunSweeper(ctx, sweepInterval)

	usersSvc, err := users.NewService(users.NewRepository(dbClient.DB()), security.NewHasher(cfg.Password))
	if err != nil {
		return fmt.Errorf("users service: %w", err)
	}

	deps.Catalog = catalogSvc
	deps.Sessions = sessions
	deps.Orders = ordersSvc
	deps.Signup = usersSvc

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
