package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend  string `toml:"backend" yaml:"backend" json:"backend"`
	Dir      string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	RedisURL string `toml:"redis_url" yaml:"redis_url" json:"redis_url,omitempty"`
	Prefix   string `toml:"prefix" yaml:"prefix" json:"prefix,omitempty"`
}

// Open creates the cache described by opts. An empty backend disables caching.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: dir is required")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis cache: redis_url is required")
		}
		c, err := NewRedisCache(ctx, opts.RedisURL, opts.Prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
