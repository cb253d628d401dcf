// Package config loads process configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full process configuration.
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Env           string
	StorageDriver string
}

// Development reports whether the process runs in development mode.
func (a AppConfig) Development() bool {
	return a.Env == "development"
}

type LogConfig struct {
	Level string
}

type HTTPConfig struct {
	Port               string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
}

type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	URL              string
	LocationCacheTTL time.Duration
}

// Enabled reports whether a Redis URL is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxRetries   int
	MetricsAddr  string
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, applying defaults, and validates it.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		App: AppConfig{
			Env:           r.str("APP_ENV", "development"),
			StorageDriver: strings.ToLower(r.str("STORAGE_DRIVER", DriverPostgres)),
		},
		Log: LogConfig{
			Level: r.str("LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Port:               r.str("APP_PORT", "8080"),
			CORSAllowedOrigins: r.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ReadTimeout:        r.duration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       r.duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout:    r.duration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:      r.str("DATABASE_URL", ""),
			MaxConns: int32(r.integer("DB_MAX_CONNS", 25)),
			MinConns: int32(r.integer("DB_MIN_CONNS", 5)),
		},
		Redis: RedisConfig{
			URL:              r.str("REDIS_URL", ""),
			LocationCacheTTL: r.duration("LOCATION_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: r.list("KAFKA_BROKERS", nil),
			Topic:   r.str("KAFKA_TOPIC", "warehouse.lifecycle"),
		},
		Worker: WorkerConfig{
			PollInterval: r.duration("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
			BatchSize:    r.integer("OUTBOX_BATCH_SIZE", 100),
			MaxRetries:   r.integer("OUTBOX_MAX_RETRIES", 5),
			MetricsAddr:  r.str("METRICS_ADDR", ":9090"),
		},
	}

	if len(r.errs) > 0 {
		return nil, errors.Join(r.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	return validation.Errors{
		"STORAGE_DRIVER": validation.Validate(c.App.StorageDriver,
			validation.Required, validation.In(DriverPostgres, DriverMemory)),
		"DATABASE_URL": validation.Validate(c.Database.URL,
			validation.When(c.App.StorageDriver == DriverPostgres, validation.Required)),
		"APP_PORT": validation.Validate(c.HTTP.Port, validation.Required),
		"DB_MAX_CONNS": validation.Validate(int(c.Database.MaxConns),
			validation.Min(int(c.Database.MinConns))),
		"OUTBOX_BATCH_SIZE": validation.Validate(c.Worker.BatchSize,
			validation.Required, validation.Min(1)),
		"OUTBOX_POLL_INTERVAL": validation.Validate(c.Worker.PollInterval,
			validation.Required),
	}.Filter()
}

// ValidateWorker checks what the outbox worker needs beyond Validate.
func (c *Config) ValidateWorker() error {
	if c.App.StorageDriver != DriverPostgres {
		return fmt.Errorf("worker requires STORAGE_DRIVER=%s", DriverPostgres)
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("worker requires KAFKA_BROKERS")
	}
	return nil
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) integer(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}

func (r *reader) list(key string, def []string) []string {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
