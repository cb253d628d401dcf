// Package main is the entry point for the outbox relay worker.
// It publishes committed warehouse events to Kafka.
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

	"golang.org/x/sync/errgroup"

	"fulfilment/internal/config"
	"fulfilment/internal/infrastructure/messaging/kafka"
	"fulfilment/internal/infrastructure/metrics"
	"fulfilment/internal/infrastructure/storage/postgres"
	"fulfilment/pkg/logger"
)

const (
	dlqInterval   = time.Minute
	statsInterval = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateWorker(); err != nil {
		fmt.Printf("invalid worker configuration: %v\n", err)
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
	log = log.WithComponent("outbox-worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting outbox worker",
		"brokers", cfg.Kafka.Brokers,
		"topic", cfg.Kafka.Topic,
		"poll_interval", cfg.Worker.PollInterval,
	)

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = 4
	poolCfg.MinConns = 1
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	client, err := kafka.NewClient(kafka.Config{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		ClientID:     "fulfilment-outbox",
		ProduceLimit: 10 * time.Second,
	})
	if err != nil {
		log.Fatalw("failed to create kafka client", "error", err)
	}
	publisher := kafka.NewPublisher(client, cfg.Kafka.Topic)
	defer publisher.Close()

	m := metrics.New()

	relayCfg := postgres.DefaultRelayConfig()
	relayCfg.BatchSize = cfg.Worker.BatchSize
	relayCfg.MaxRetries = cfg.Worker.MaxRetries
	relay := postgres.NewOutboxRelay(postgres.NewTxManager(pool), relayCfg, publisher, m)

	metricsServer := &http.Server{
		Addr:              cfg.Worker.MetricsAddr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return relay.Run(gctx, cfg.Worker.PollInterval)
	})

	g.Go(func() error {
		ticker := time.NewTicker(dlqInterval)
		defer ticker.Stop()
		stats := time.NewTicker(statsInterval)
		defer stats.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				moved, err := relay.MoveToDLQ(gctx)
				if err != nil {
					log.Errorw("failed to move messages to DLQ", "error", err)
					continue
				}
				if moved > 0 {
					log.Warnw("moved failed outbox messages to DLQ", "count", moved)
				}
			case <-stats.C:
				pool.LogStats(gctx)
			}
		}
	})

	g.Go(func() error {
		log.Infow("metrics server starting", "addr", cfg.Worker.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("worker stopped with error", "error", err)
		return
	}
	log.Info("worker stopped")
}
