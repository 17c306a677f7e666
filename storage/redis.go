package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey prefixes the per-run hash when none is configured.
const DefaultRedisKey = "semingest:id_types"

// redisHash is the subset of *redis.Client used by RedisStore.
type redisHash interface {
	HSetNX(ctx context.Context, key, field string, value interface{}) *redis.BoolCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HLen(ctx context.Context, key string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisStore is a Cache kept in one Redis hash per run. HSETNX gives the
// single-writer rule.
type RedisStore struct {
	client redisHash
	key    string
}

// NewRedisStore connects to url (redis://...) and pings the server. Ids
// live in the hash <key>:<run>, which Close deletes.
func NewRedisStore(ctx context.Context, url, key, run string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return newRedisStore(client, key, run), nil
}

func newRedisStore(client redisHash, key, run string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key + ":" + runToken(run)}
}

func (s *RedisStore) Get(ctx context.Context, id string) (string, error) {
	typ, err := s.client.HGet(ctx, s.key, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("get %s: %w", id, err)
	}
	return typ, nil
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, id, typ string) error {
	set, err := s.client.HSetNX(ctx, s.key, id, typ).Result()
	if err != nil {
		return fmt.Errorf("store %s: %w", id, err)
	}
	if set {
		return nil
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return settle(id, existing, typ)
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("count ids: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Close() error {
	err := s.client.Del(context.Background(), s.key).Err()
	if cerr := s.client.Close(); err == nil {
		err = cerr
	}
	return err
}
