// Package store provides persistence backends for the affinity engine.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	affinity "github.com/cyberFlowTech/zapry-affinity-go"
)

// RedisAffinityStore implements affinity.AffinityStore using Redis.
// Keys are namespaced as "{prefix}:{namespace}:{key}".
type RedisAffinityStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

// RedisStoreConfig configures the Redis store.
type RedisStoreConfig struct {
	Prefix string        // key prefix, default "affinity"
	TTL    time.Duration // record TTL, 0 = no expiry
}

// NewRedisAffinityStore creates an AffinityStore backed by Redis.
// Works with Client, ClusterClient, and Ring.
func NewRedisAffinityStore(client redis.UniversalClient, config ...RedisStoreConfig) *RedisAffinityStore {
	cfg := RedisStoreConfig{Prefix: "affinity"}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "affinity"
	}
	return &RedisAffinityStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
		ctx:    context.Background(),
	}
}

func (r *RedisAffinityStore) key(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, namespace, key)
}

// Get returns the stored record, or (nil, nil) when absent.
func (r *RedisAffinityStore) Get(namespace, key string) ([]byte, error) {
	val, err := r.client.Get(r.ctx, r.key(namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

// Set writes the record, refreshing the TTL if one is configured.
func (r *RedisAffinityStore) Set(namespace, key string, value []byte) error {
	return r.client.Set(r.ctx, r.key(namespace, key), value, r.ttl).Err()
}

// Delete removes the record.
func (r *RedisAffinityStore) Delete(namespace, key string) error {
	return r.client.Del(r.ctx, r.key(namespace, key)).Err()
}

// Close closes the underlying client.
func (r *RedisAffinityStore) Close() error {
	return r.client.Close()
}

// Compile-time interface check.
var _ affinity.AffinityStore = (*RedisAffinityStore)(nil)
