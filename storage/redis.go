package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/redis/go-redis/v9"
)

// Redis provides a Redis implementation of triage.Cache.
// Keys are namespaced with Prefix and expire after TTL when it is positive.
type Redis struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

// NewRedis creates a new Redis client connection with the provided configuration.
// It returns an initialized Redis struct and any error encountered during connection setup.
func NewRedis(addr, password string, db int, prefix string, ttl time.Duration) (Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return Redis{}, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return Redis{
		Client: client,
		Prefix: prefix,
		TTL:    ttl,
	}, nil
}

// CachedResult retrieves a stored result by key.
// It returns triage.ErrCacheMiss if the key doesn't exist or has expired.
func (r Redis) CachedResult(key string) (triage.Result, error) {
	var result triage.Result

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	content, err := r.Client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return result, triage.ErrCacheMiss
		}
		return result, fmt.Errorf("failed to get result: %w", err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return result, nil
}

// CacheResult stores result under key.
func (r Redis) CacheResult(key string, result triage.Result) error {
	content, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.Client.Set(ctx, r.key(key), content, r.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set result: %w", err)
	}

	return nil
}

// Close closes the underlying client.
func (r Redis) Close() error {
	return r.Client.Close()
}

func (r Redis) key(key string) string {
	if r.Prefix == "" {
		return key
	}
	return r.Prefix + key
}
