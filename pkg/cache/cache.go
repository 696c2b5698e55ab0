// Package cache is the optional read-through cache in front of the snapshot store.
package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss indicates a cache miss.
var ErrCacheMiss = errors.New("cache miss")

// Client is a versioned key/value cache. Every entry carries the version it was
// written with, and a write never replaces an entry holding a higher version.
// Versions are microsecond timestamps, so they stay exact inside Lua numbers.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, version int64, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisClient implements Client on Redis. Keys are namespaced with prefix and
// values are stored as "<version>:<payload>".
type RedisClient struct {
	client *redis.Client
	prefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // defaults to "agrimind:"
}

// setIfNewer keeps the compare and the write in one round trip.
var setIfNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
  local sep = string.find(cur, ':', 1, true)
  if sep then
    local v = tonumber(string.sub(cur, 1, sep - 1))
    if v and v > tonumber(ARGV[1]) then
      return 0
    end
  end
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
  redis.call('SET', KEYS[1], ARGV[1] .. ':' .. ARGV[2], 'PX', ttl)
else
  redis.call('SET', KEYS[1], ARGV[1] .. ':' .. ARGV[2])
end
return 1
`)

// NewRedisClient connects and pings; an unreachable server is an error.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "agrimind:"
	}
	return &RedisClient{client: client, prefix: prefix}, nil
}

// Get returns the payload without its version header. A value written by
// something other than Set reads as a miss.
func (c *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	_, val, ok := splitVersioned(raw)
	if !ok {
		return nil, ErrCacheMiss
	}
	return val, nil
}

func (c *RedisClient) Set(ctx context.Context, key string, version int64, value []byte, ttl time.Duration) error {
	err := setIfNewer.Run(ctx, c.client, []string{c.prefix + key}, version, value, ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisClient) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

func (c *RedisClient) Ping(ctx context.Context) error { return c.client.Ping(ctx).Err() }

func (c *RedisClient) Close() error { return c.client.Close() }

func splitVersioned(raw []byte) (int64, []byte, bool) {
	i := bytes.IndexByte(raw, ':')
	if i < 0 {
		return 0, nil, false
	}
	v, err := strconv.ParseInt(string(raw[:i]), 10, 64)
	if err != nil {
		return 0, nil, false
	}
	return v, raw[i+1:], true
}

// MemoryClient is an in-process Client for development and tests.
type MemoryClient struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

type entry struct {
	version   int64
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{data: map[string]entry{}, now: time.Now}
}

func (c *MemoryClient) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[key]
	if !ok || e.expired(c.now()) {
		return nil, ErrCacheMiss
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (c *MemoryClient) Set(_ context.Context, key string, version int64, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if cur, ok := c.data[key]; ok && !cur.expired(now) && cur.version > version {
		return nil
	}
	e := entry{version: version, value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	c.data[key] = e
	return nil
}

func (c *MemoryClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *MemoryClient) Ping(context.Context) error { return nil }

func (c *MemoryClient) Close() error { return nil }

// Key joins parts with ":".
func Key(parts ...string) string { return strings.Join(parts, ":") }
