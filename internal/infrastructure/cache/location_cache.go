// Package cache provides a Redis read-through cache for the location catalog.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"fulfilment/internal/domain/catalogs/location"
	"fulfilment/pkg/logger"
)

const locationKeyPrefix = "fulfilment:location:"

// Cache lookup results reported to Observer.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Client is the subset of *redis.Client used by LocationCache.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Observer is told the result of every cache lookup.
type Observer interface {
	ObserveCache(result string)
}

// LocationCache wraps a location.Resolver with a Redis read-through cache.
// Unknown identifiers are never cached. Redis failures degrade to the
// wrapped resolver.
type LocationCache struct {
	client   Client
	next     location.Resolver
	ttl      time.Duration
	observer Observer
}

var _ location.Resolver = (*LocationCache)(nil)

// Option configures a LocationCache.
type Option func(*LocationCache)

// WithObserver reports lookup results to o.
func WithObserver(o Observer) Option {
	return func(c *LocationCache) { c.observer = o }
}

// NewLocationCache creates a cache in front of next.
func NewLocationCache(client Client, next location.Resolver, ttl time.Duration, opts ...Option) *LocationCache {
	c := &LocationCache{client: client, next: next, ttl: ttl}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// ResolveByIdentifier implements location.Resolver.
func (c *LocationCache) ResolveByIdentifier(ctx context.Context, identifier string) (*location.Location, error) {
	key := locationKeyPrefix + identifier

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var loc location.Location
		if jsonErr := json.Unmarshal(raw, &loc); jsonErr == nil {
			c.observe(ResultHit)
			return &loc, nil
		}
		logger.Warn(ctx, "discarding malformed cached location", "key", key)
		c.observe(ResultError)
	case errors.Is(err, redis.Nil):
		c.observe(ResultMiss)
	default:
		logger.Warn(ctx, "location cache unavailable", "key", key, "error", err)
		c.observe(ResultError)
	}

	loc, err := c.next.ResolveByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(loc); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			logger.Warn(ctx, "failed to cache location", "key", key, "error", err)
		}
	}
	return loc, nil
}

// Invalidate drops the cached entry for identifier.
func (c *LocationCache) Invalidate(ctx context.Context, identifier string) error {
	return c.client.Del(ctx, locationKeyPrefix+identifier).Err()
}

func (c *LocationCache) observe(result string) {
	if c.observer != nil {
		c.observer.ObserveCache(result)
	}
}
