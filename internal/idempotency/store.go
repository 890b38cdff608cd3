// Package idempotency remembers webhook deliveries that were already
// processed so an identical redelivery can be acknowledged without work.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "webhook:delivery:"

// DeliveryKey identifies a delivery by webhook kind and raw body.
func DeliveryKey(kind string, body []byte) string {
	sum := sha256.Sum256(body)
	return kind + ":" + hex.EncodeToString(sum[:])
}

type redisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisStore struct {
	client redisClient
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Connect opens a client and checks it answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("check delivery: %w", err)
	}
	return n > 0, nil
}

// Mark records the delivery. It reports false when another worker marked
// it first.
func (s *RedisStore) Mark(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+key, "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark delivery: %w", err)
	}
	return ok, nil
}

const minSweepSize = 1024

// MemoryStore is the single-instance variant used when Redis is not
// configured. Expired entries are swept from Mark once per TTL or when the
// map doubles in size.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]time.Time
	ttl       time.Duration
	timeNow   func() time.Time
	lastSweep time.Time
	sweepSize int
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries:   make(map[string]time.Time),
		ttl:       ttl,
		timeNow:   time.Now,
		sweepSize: minSweepSize,
	}
}

func (s *MemoryStore) Seen(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if s.timeNow().After(expiresAt) {
		delete(s.entries, key)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Mark(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.timeNow()
	if expiresAt, ok := s.entries[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.entries[key] = now.Add(s.ttl)
	if len(s.entries) >= s.sweepSize || now.Sub(s.lastSweep) >= s.ttl {
		s.sweep(now)
	}
	return true, nil
}

func (s *MemoryStore) sweep(now time.Time) {
	for k, expiresAt := range s.entries {
		if now.After(expiresAt) {
			delete(s.entries, k)
		}
	}
	s.lastSweep = now
	s.sweepSize = 2 * len(s.entries)
	if s.sweepSize < minSweepSize {
		s.sweepSize = minSweepSize
	}
}
