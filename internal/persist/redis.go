package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/districtmap/districtboard/internal/store"
)

// DefaultRedisKey is the Redis key used when none is configured.
const DefaultRedisKey = "districtboard:status"

// RedisAdapter persists the snapshot as one JSON document under a single
// Redis key. The document shape matches the file backend, so the two are
// interchangeable across restarts of the same district set.
type RedisAdapter struct {
	client *redis.Client
	key    string
}

// NewRedisAdapter creates a [RedisAdapter] against the given server.
// An empty key selects [DefaultRedisKey].
func NewRedisAdapter(addr string, db int, key string) *RedisAdapter {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisAdapter{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
		key: key,
	}
}

// Load reads and parses the snapshot document.
func (r *RedisAdapter) Load(ctx context.Context) (store.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: key %s", ErrNoSnapshot, r.key)
		}
		return nil, fmt.Errorf("%w: reading key %s: %v", ErrNoSnapshot, r.key, err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: parsing key %s: %v", ErrNoSnapshot, r.key, err)
	}
	return snap, nil
}

// Save writes the snapshot document, replacing any previous value.
func (r *RedisAdapter) Save(ctx context.Context, snap store.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing key %s: %w", r.key, err)
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}
