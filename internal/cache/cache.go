package cache

import (
	"context"
	"log"
	"time"
)

// Cache stores opaque values by key with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// New returns a redis-backed cache when addr is set and reachable, else Local.
func New(ctx context.Context, addr, password string) Cache {
	if addr == "" {
		return NewLocal()
	}
	r, err := NewRedis(ctx, addr, password)
	if err != nil {
		log.Printf("[CACHE] redis %s tidak tersedia, pakai cache lokal: %v", addr, err)
		return NewLocal()
	}
	log.Printf("[CACHE] redis %s terhubung", addr)
	return r
}
