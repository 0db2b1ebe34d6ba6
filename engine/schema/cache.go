package schema

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/josephhbu/ChatDB/engine/models"
)

// DefaultCacheTTL bounds how stale a cached snapshot may be.
const DefaultCacheTTL = 30 * time.Second

// CachedCatalog keeps short-lived snapshots of another catalog in Redis.
// Redis failures fall through to the wrapped catalog.
type CachedCatalog struct {
	inner  Catalog
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

// CacheOption configures a CachedCatalog.
type CacheOption func(*CachedCatalog)

// WithTTL sets the snapshot lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedCatalog) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithPrefix namespaces the cache keys, e.g. per database.
func WithPrefix(prefix string) CacheOption {
	return func(c *CachedCatalog) { c.prefix = prefix }
}

// WithCacheLogger sets the logger for cache faults.
func WithCacheLogger(l *zap.Logger) CacheOption {
	return func(c *CachedCatalog) { c.logger = l }
}

// NewCachedCatalog wraps inner with a Redis snapshot cache.
func NewCachedCatalog(inner Catalog, rdb *redis.Client, opts ...CacheOption) *CachedCatalog {
	c := &CachedCatalog{
		inner:  inner,
		rdb:    rdb,
		ttl:    DefaultCacheTTL,
		prefix: "chatdb:schema",
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedCatalog) containersKey() string { return c.prefix + ":containers" }

func (c *CachedCatalog) fieldsKey(container string) string { return c.prefix + ":fields:" + container }

// ListContainers serves the cached list or refreshes it.
func (c *CachedCatalog) ListContainers(ctx context.Context) ([]string, error) {
	var names []string
	if c.load(ctx, c.containersKey(), &names) {
		return names, nil
	}
	names, err := c.inner.ListContainers(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, c.containersKey(), names)
	return names, nil
}

// Describe serves the cached field list or refreshes it.
func (c *CachedCatalog) Describe(ctx context.Context, container string) ([]models.Field, error) {
	var fields []models.Field
	if c.load(ctx, c.fieldsKey(container), &fields) {
		return fields, nil
	}
	fields, err := c.inner.Describe(ctx, container)
	if err != nil {
		return nil, err
	}
	c.store(ctx, c.fieldsKey(container), fields)
	return fields, nil
}

// DistinctValues is never cached; it delegates when the wrapped catalog can probe.
func (c *CachedCatalog) DistinctValues(ctx context.Context, container, field string, limit int) ([]string, error) {
	probe, ok := c.inner.(ValueProbe)
	if !ok {
		return nil, nil
	}
	return probe.DistinctValues(ctx, container, field, limit)
}

// Invalidate drops the cached list and the field lists of the named containers.
func (c *CachedCatalog) Invalidate(ctx context.Context, containers ...string) error {
	keys := []string{c.containersKey()}
	for _, name := range containers {
		keys = append(keys, c.fieldsKey(name))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *CachedCatalog) load(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("schema cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("schema cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedCatalog) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("schema cache write failed", zap.String("key", key), zap.Error(err))
	}
}
