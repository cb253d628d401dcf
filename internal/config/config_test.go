package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"DATABASE_URL": "postgres://localhost/fulfilment"}))

	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.App.StorageDriver)
	assert.True(t, cfg.App.Development())
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowedOrigins)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, int32(5), cfg.Database.MinConns)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.Redis.LocationCacheTTL)
	assert.Equal(t, "warehouse.lifecycle", cfg.Kafka.Topic)
	assert.Equal(t, 500*time.Millisecond, cfg.Worker.PollInterval)
	assert.Equal(t, 100, cfg.Worker.BatchSize)
	assert.Equal(t, ":9090", cfg.Worker.MetricsAddr)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"APP_ENV":              "production",
		"STORAGE_DRIVER":       "MEMORY",
		"APP_PORT":             "9000",
		"REDIS_URL":            "redis://localhost:6379/0",
		"LOCATION_CACHE_TTL":   "30s",
		"KAFKA_BROKERS":        "k1:9092, k2:9092",
		"OUTBOX_BATCH_SIZE":    "10",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
	}))

	require.NoError(t, err)
	assert.False(t, cfg.App.Development())
	assert.Equal(t, DriverMemory, cfg.App.StorageDriver)
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.LocationCacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Worker.BatchSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowedOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{
			name: "postgres without url",
			vars: map[string]string{},
			want: "DATABASE_URL",
		},
		{
			name: "unknown driver",
			vars: map[string]string{"STORAGE_DRIVER": "sqlite"},
			want: "STORAGE_DRIVER",
		},
		{
			name: "bad duration",
			vars: map[string]string{"STORAGE_DRIVER": "memory", "LOCATION_CACHE_TTL": "soon"},
			want: "LOCATION_CACHE_TTL",
		},
		{
			name: "bad integer",
			vars: map[string]string{"STORAGE_DRIVER": "memory", "OUTBOX_BATCH_SIZE": "many"},
			want: "OUTBOX_BATCH_SIZE",
		},
		{
			name: "zero batch size",
			vars: map[string]string{"STORAGE_DRIVER": "memory", "OUTBOX_BATCH_SIZE": "0"},
			want: "OUTBOX_BATCH_SIZE",
		},
		{
			name: "pool min above max",
			vars: map[string]string{"STORAGE_DRIVER": "memory", "DB_MAX_CONNS": "2", "DB_MIN_CONNS": "4"},
			want: "DB_MAX_CONNS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateWorker(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"STORAGE_DRIVER": "memory"}))
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateWorker())

	cfg, err = FromEnv(env(map[string]string{
		"DATABASE_URL":  "postgres://localhost/fulfilment",
		"KAFKA_BROKERS": "k1:9092",
	}))
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateWorker())

	cfg.Kafka.Brokers = nil
	assert.Error(t, cfg.ValidateWorker())
}
