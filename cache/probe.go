// Package cache memoizes media probe results so repeated validation of
// an unchanged resource is answered without spawning another ffprobe.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"slidecast/config"
	"slidecast/timeline"
)

const redisKeyPrefix = "slidecast:probe:"

// ProbeCache decorates a timeline.Prober with a memo of prior results,
// keyed by resource path. A changed path re-probes; entries expire so a
// replaced file at the same path is eventually re-probed too.
type ProbeCache struct {
	inner timeline.Prober
	store probeStore
}

type probeStore interface {
	get(path string) (timeline.ProbeInfo, bool)
	set(path string, info timeline.ProbeInfo)
}

// NewProbeCache wraps the prober with an in-memory memo.
func NewProbeCache(inner timeline.Prober) *ProbeCache {
	return &ProbeCache{inner: inner, store: newMemoryStore()}
}

// NewProbeCacheFromEnv wraps the prober with a Redis-backed memo when
// REDIS_ADDR is set, falling back to the in-memory memo otherwise (or
// when Redis is unreachable).
func NewProbeCacheFromEnv(inner timeline.Prober) *ProbeCache {
	addr := config.GetEnv("REDIS_ADDR", "")
	if addr == "" {
		return NewProbeCache(inner)
	}

	store, err := newRedisStore(redisConfig{
		Addr:     addr,
		Password: config.GetEnv("REDIS_PASS", ""),
		DB:       config.GetEnvInt("REDIS_DB", 0),
		TTL:      time.Duration(config.GetEnvInt("PROBE_CACHE_TTL_SECONDS", 3600)) * time.Second,
	})
	if err != nil {
		log.Printf("⚠️ Probe cache falling back to memory: %v", err)
		return NewProbeCache(inner)
	}
	log.Printf("✅ Probe cache backed by Redis at %s", addr)
	return &ProbeCache{inner: inner, store: store}
}

// Probe returns the memoized result for path, probing through to the
// underlying backend on a miss. Probe errors are not cached.
func (c *ProbeCache) Probe(path string) (timeline.ProbeInfo, error) {
	if info, ok := c.store.get(path); ok {
		return info, nil
	}
	info, err := c.inner.Probe(path)
	if err != nil {
		return info, err
	}
	c.store.set(path, info)
	return info, nil
}

// memoryStore is a process-local memo.
type memoryStore struct {
	mu    sync.RWMutex
	infos map[string]timeline.ProbeInfo
}

func newMemoryStore() *memoryStore {
	return &memoryStore{infos: make(map[string]timeline.ProbeInfo)}
}

func (s *memoryStore) get(path string) (timeline.ProbeInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.infos[path]
	return info, ok
}

func (s *memoryStore) set(path string, info timeline.ProbeInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos[path] = info
}

type redisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// redisStore shares the memo across workers and survives restarts.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisStore(cfg redisConfig) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisStore{client: client, ttl: cfg.TTL}, nil
}

func (s *redisStore) get(path string) (timeline.ProbeInfo, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := s.client.Get(ctx, redisKeyPrefix+path).Bytes()
	if err != nil {
		return timeline.ProbeInfo{}, false
	}
	var info timeline.ProbeInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return timeline.ProbeInfo{}, false
	}
	return info, true
}

func (s *redisStore) set(path string, info timeline.ProbeInfo) {
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.client.Set(ctx, redisKeyPrefix+path, raw, s.ttl).Err(); err != nil {
		log.Printf("⚠️ Probe cache write failed for %s: %v", path, err)
	}
}
