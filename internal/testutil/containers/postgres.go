//go:build integration

// Package containers starts throwaway dependencies for integration tests.
package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"fulfilment/internal/infrastructure/storage/postgres"
)

// PostgresContainer wraps a migrated testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	Pool      *postgres.Pool
}

// NewPostgresContainer starts Postgres and applies every migration.
// The container is terminated when the test ends.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fulfilment"),
		tcpostgres.WithUsername("fulfilment"),
		tcpostgres.WithPassword("fulfilment"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	cfg := postgres.DefaultPoolConfig(dsn)
	cfg.MinConns = 1
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.Migrate(ctx, pool, "up"); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, Pool: pool}
}

// Truncate empties the warehouse and outbox tables, keeping the location catalog.
func (p *PostgresContainer) Truncate(t *testing.T) {
	t.Helper()
	if _, err := p.Pool.Exec(context.Background(), "TRUNCATE warehouses, sys_outbox, sys_outbox_dlq"); err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}
}
