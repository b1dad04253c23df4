package redis

import (
	"testing"
	"time"

	"github.com/asinwatch/asinwatch-backend/pkg/config"
)

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	if err == nil {
		t.Fatal("expected error when neither url nor address configured")
	}
}

func TestOptionsFromConfigAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:     "localhost:6379",
		Password:    "pw",
		DB:          3,
		PoolSize:    5,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.Password != "pw" || opts.DB != 3 {
		t.Fatalf("options not applied: %+v", opts)
	}
	if opts.PoolSize != 5 || opts.DialTimeout != 2*time.Second {
		t.Fatalf("timeouts not applied: %+v", opts)
	}
}

func TestOptionsFromConfigURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@cache.internal:6380/2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache.internal:6380" || opts.DB != 2 {
		t.Fatalf("url not parsed: %+v", opts)
	}
}

func TestCacheKeyNamespacing(t *testing.T) {
	c := &Client{}
	if got := c.CacheKey("brands", "all"); got != "aw:cache:brands:all" {
		t.Fatalf("unexpected cache key %q", got)
	}
}
