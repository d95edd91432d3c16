// Package testutil provides testing utilities and helpers for the alert dispatch pipeline.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetTestRedisAddr returns the Redis address used for tests.
// TEST_REDIS_ADDR overrides the default local instance.
func GetTestRedisAddr() string {
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// SetupTestRedis creates a Redis client for testing.
// Tests are skipped if Redis is not available.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := GetTestRedisAddr()
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   15, // keep test keys away from any local working data
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	})

	return client
}
