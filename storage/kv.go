package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucket prefixes the per-run KV bucket when none is configured.
const DefaultBucket = "SEMINGEST_ID_TYPES"

// kvBucket is the part of a JetStream KV bucket the cache needs.
type kvBucket interface {
	get(ctx context.Context, key string) ([]byte, error)
	create(ctx context.Context, key string, value []byte) error
	keys(ctx context.Context) ([]string, error)
}

// KVStore is a Cache backed by a NATS JetStream key-value bucket of its
// own run. KV Create only succeeds for absent keys, so concurrent parsers
// of the run agree on one writer.
type KVStore struct {
	bucket kvBucket
	drop   func() error
	close  func()
}

// NewKVStore opens (or creates) the bucket <name>_<run>. Close deletes it.
func NewKVStore(ctx context.Context, js jetstream.JetStream, name, run string) (*KVStore, error) {
	if name == "" {
		name = DefaultBucket
	}
	name = name + "_" + runToken(run)
	kv, err := getOrCreateBucket(ctx, js, name)
	if err != nil {
		return nil, fmt.Errorf("create %s bucket: %w", name, err)
	}
	return &KVStore{
		bucket: jetstreamBucket{kv: kv},
		drop: func() error {
			return js.DeleteKeyValue(context.Background(), name)
		},
	}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "semingest id to type cache",
		History:     1,
	})
}

// KV keys may not contain ':' so ids are stored base64url encoded.
func kvKey(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func (s *KVStore) Get(ctx context.Context, id string) (string, error) {
	v, err := s.bucket.get(ctx, kvKey(id))
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("get %s: %w", id, err)
	}
	return string(v), nil
}

func (s *KVStore) SetIfAbsent(ctx context.Context, id, typ string) error {
	err := s.bucket.create(ctx, kvKey(id), []byte(typ))
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrKeyExists) {
		return fmt.Errorf("store %s: %w", id, err)
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return settle(id, existing, typ)
}

func (s *KVStore) Len(ctx context.Context) (int, error) {
	keys, err := s.bucket.keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("list keys: %w", err)
	}
	return len(keys), nil
}

func (s *KVStore) Close() error {
	var err error
	if s.drop != nil {
		if derr := s.drop(); derr != nil {
			err = fmt.Errorf("delete run bucket: %w", derr)
		}
	}
	if s.close != nil {
		s.close()
	}
	return err
}

type jetstreamBucket struct {
	kv jetstream.KeyValue
}

func (b jetstreamBucket) get(ctx context.Context, key string) ([]byte, error) {
	entry, err := b.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return entry.Value(), nil
}

func (b jetstreamBucket) create(ctx context.Context, key string, value []byte) error {
	_, err := b.kv.Create(ctx, key, value)
	return err
}

func (b jetstreamBucket) keys(ctx context.Context) ([]string, error) {
	return b.kv.Keys(ctx)
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) ||
		(err != nil && strings.Contains(err.Error(), "key not found"))
}
