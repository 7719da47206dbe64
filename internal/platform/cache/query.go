package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTTL         = 30 * time.Second
	defaultMaxEntries  = 256
	defaultLoadTimeout = 30 * time.Second
	versionKeySuffix   = "version"
)

// QueryCache stores decoded query results keyed by their query parameters.
// Each distinct key is an independent slot with its own TTL. Slots are
// namespaced by a version that Bump increments, which invalidates every slot
// at once. Redis is used when a client is supplied; otherwise results live in
// process memory. Concurrent loads of the same key are collapsed.
type QueryCache struct {
	prefix  string
	ttl     time.Duration
	client  *redis.Client
	memory  *memoryStore
	group   singleflight.Group
	metrics *Metrics

	loadTimeout time.Duration
}

// QueryCacheOption customises a QueryCache.
type QueryCacheOption func(*QueryCache)

// WithMetrics records hits and misses on m.
func WithMetrics(m *Metrics) QueryCacheOption {
	return func(c *QueryCache) { c.metrics = m }
}

// WithLoadTimeout bounds a shared load, which outlives the callers waiting on
// it.
func WithLoadTimeout(d time.Duration) QueryCacheOption {
	return func(c *QueryCache) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// WithMaxEntries bounds the in-memory store.
func WithMaxEntries(n int) QueryCacheOption {
	return func(c *QueryCache) {
		if n > 0 {
			c.memory = newMemoryStore(n)
		}
	}
}

// NewQueryCache builds a cache. client may be nil.
func NewQueryCache(prefix string, client *redis.Client, ttl time.Duration, opts ...QueryCacheOption) *QueryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if prefix == "" {
		prefix = "bataudit"
	}
	c := &QueryCache{
		prefix:      prefix,
		ttl:         ttl,
		client:      client,
		memory:      newMemoryStore(defaultMaxEntries),
		loadTimeout: defaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key joins parts into a cache key, e.g. Key("audit", "list", "page=2").
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Backend reports where slots are stored.
func (c *QueryCache) Backend() string {
	if c != nil && c.client != nil {
		return "redis"
	}
	return "memory"
}

// Ping checks the backing store.
func (c *QueryCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("platform/cache: ping: %w", err)
	}
	return nil
}

// FetchJSON fills dest from the slot for key, calling loader on a miss and
// storing its result. Loader errors are returned untouched and never cached.
func (c *QueryCache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("platform/cache: loader required")
	}
	if c == nil {
		return load(ctx, dest, loader)
	}
	slot, err := c.slotKey(ctx, key)
	if err != nil {
		return err
	}
	namespace := namespaceOf(key)

	if raw, ok, err := c.get(ctx, slot); err != nil {
		return err
	} else if ok {
		c.metrics.hit(namespace)
		return json.Unmarshal(raw, dest)
	}
	c.metrics.miss(namespace)

	// The shared load ignores caller cancellation; each caller waits on its own ctx.
	resultCh := c.group.DoChan(slot, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		value, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.set(loadCtx, slot, raw); err != nil {
			return nil, err
		}
		return raw, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-resultCh:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dest)
	}
}

// Version returns the current slot version, initialising it when missing.
func (c *QueryCache) Version(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	if c.client == nil {
		return c.memory.version(), nil
	}
	versionKey := Key(c.prefix, versionKeySuffix)
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err == redis.Nil {
		return c.initVersion(ctx, versionKey)
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// initVersion sets the version to 1 only when no Bump created it in the
// meantime, then reads back whichever value won.
func (c *QueryCache) initVersion(ctx context.Context, versionKey string) (int64, error) {
	if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	return c.client.Get(ctx, versionKey).Int64()
}

// Bump invalidates every slot by advancing the version.
func (c *QueryCache) Bump(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.client == nil {
		c.memory.bump()
		return nil
	}
	return c.client.Incr(ctx, Key(c.prefix, versionKeySuffix)).Err()
}

func (c *QueryCache) slotKey(ctx context.Context, key string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", fmt.Errorf("platform/cache: version: %w", err)
	}
	return Key(c.prefix, key, "v"+strconv.FormatInt(ver, 10)), nil
}

func (c *QueryCache) get(ctx context.Context, slot string) ([]byte, bool, error) {
	if c.client == nil {
		raw, ok := c.memory.get(slot)
		return raw, ok, nil
	}
	raw, err := c.client.Get(ctx, slot).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("platform/cache: get: %w", err)
	}
	return raw, true, nil
}

func (c *QueryCache) set(ctx context.Context, slot string, raw []byte) error {
	if c.client == nil {
		c.memory.set(slot, raw, c.ttl)
		return nil
	}
	if err := c.client.Set(ctx, slot, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("platform/cache: set: %w", err)
	}
	return nil
}

func load(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func namespaceOf(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
