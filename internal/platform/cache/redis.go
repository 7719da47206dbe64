package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// New creates a Redis client for addr and verifies it answers a ping. addr is
// either host:port or a redis:// URL carrying credentials and a database. An
// empty addr returns a nil client, which selects the in-memory backends.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	opts, err := Options(addr)
	if err != nil || opts == nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

// Options parses addr into client options. It returns nil for an empty addr.
func Options(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	switch {
	case addr == "":
		return nil, nil
	case strings.HasPrefix(addr, "redis://"), strings.HasPrefix(addr, "rediss://"):
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("platform/cache: parse %q: %w", addr, err)
		}
		return opts, nil
	default:
		return &redis.Options{Addr: addr}, nil
	}
}
