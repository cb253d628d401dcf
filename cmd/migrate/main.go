// Package main applies the embedded database migrations.
//
// Usage:
//
//	migrate [up|down|status|version|reset|up-to VERSION]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fulfilment/internal/config"
	"fulfilment/internal/infrastructure/storage/postgres"
	"fulfilment/pkg/logger"
)

func main() {
	flag.Parse()

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

	if cfg.App.StorageDriver != config.DriverPostgres {
		log.Fatalw("migrations require postgres storage", "storage", cfg.App.StorageDriver)
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	ctx := logger.WithLogger(context.Background(), log)

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = 2
	poolCfg.MinConns = 0
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, command, args...); err != nil {
		log.Fatalw("migration failed", "command", command, "error", err)
	}

	log.Infow("migration finished", "command", command)
}
