// Package main is the entry point for the fulfilment API server.
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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"fulfilment/internal/config"
	"fulfilment/internal/domain/catalogs/location"
	"fulfilment/internal/domain/catalogs/warehouse"
	"fulfilment/internal/infrastructure/cache"
	v1 "fulfilment/internal/infrastructure/http/v1"
	"fulfilment/internal/infrastructure/http/v1/handlers"
	"fulfilment/internal/infrastructure/metrics"
	"fulfilment/internal/infrastructure/storage/memory"
	"fulfilment/internal/infrastructure/storage/postgres"
	"fulfilment/internal/infrastructure/storage/postgres/catalog_repo"
	"fulfilment/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting fulfilment server", "storage", cfg.App.StorageDriver)

	m := metrics.New()
	checks := map[string]handlers.Check{}

	// --- Storage ---
	var (
		useCases  warehouse.UseCaseConfig
		locations location.Resolver
	)
	switch cfg.App.StorageDriver {
	case config.DriverMemory:
		db := memory.NewDB()
		store := memory.NewWarehouseStore(db)
		if err := store.Seed(ctx, time.Now().UTC(), memory.DefaultWarehouses()...); err != nil {
			log.Fatalw("failed to seed in-memory store", "error", err)
		}
		locations = location.DefaultCatalog()
		useCases = warehouse.UseCaseConfig{
			Store:     store,
			TxManager: memory.NewTxManager(db),
			Events:    memory.NewEventLog(db),
		}
		log.Warn("using in-memory storage; data is lost on restart")

	default:
		poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
		poolCfg.MaxConns = cfg.Database.MaxConns
		poolCfg.MinConns = cfg.Database.MinConns
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		txm := postgres.NewTxManager(pool)
		locations = catalog_repo.NewLocationRepo(txm)
		useCases = warehouse.UseCaseConfig{
			Store:     catalog_repo.NewWarehouseRepo(txm),
			TxManager: txm,
			Events:    postgres.NewWarehouseEventPublisher(postgres.NewOutboxPublisher(txm)),
		}
		checks["postgres"] = txm.Ping
	}

	// --- Location cache ---
	if cfg.Redis.Enabled() {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalw("invalid REDIS_URL", "error", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		locations = cache.NewLocationCache(rdb, locations, cfg.Redis.LocationCacheTTL, cache.WithObserver(m))
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Infow("location cache enabled", "ttl", cfg.Redis.LocationCacheTTL)
	}
	useCases.Locations = locations

	service := warehouse.NewService(useCases, m)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:     log,
		Warehouses: service,
		Health: handlers.NewHealthHandler(gin.H{
			"app":     "fulfilment",
			"env":     cfg.App.Env,
			"storage": cfg.App.StorageDriver,
		}, checks),
		Metrics:            m.Handler(),
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		Development:        cfg.App.Development(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
