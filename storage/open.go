package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverNATS   = "nats"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config selects and configures a cache backend.
type Config struct {
	Driver string `yaml:"driver" json:"driver"`
	URL    string `yaml:"url" json:"url"`
	Bucket string `yaml:"bucket" json:"bucket"`
	Path   string `yaml:"path" json:"path"`

	// Run scopes the persistent backends to one ingest run. A fresh id is
	// generated when empty.
	Run string `yaml:"-" json:"-"`
}

// Open builds the cache named by cfg.Driver. An empty driver selects the
// in-process store. Persistent backends keep each run's ids in their own
// namespace and remove it on Close, so no run sees another run's types.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	run := cfg.Run
	if run == "" {
		run = uuid.NewString()
	}
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverNATS:
		url := cfg.URL
		if url == "" {
			url = nats.DefaultURL
		}
		conn, err := nats.Connect(url, nats.Name("semingest"))
		if err != nil {
			return nil, fmt.Errorf("connect to NATS: %w", err)
		}
		js, err := jetstream.New(conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("create JetStream context: %w", err)
		}
		store, err := NewKVStore(ctx, js, cfg.Bucket, run)
		if err != nil {
			conn.Close()
			return nil, err
		}
		store.close = func() {
			_ = conn.Drain()
		}
		return store, nil
	case DriverRedis:
		return NewRedisStore(ctx, cfg.URL, cfg.Bucket, run)
	case DriverSQLite:
		return NewSQLiteStore(ctx, cfg.Path, run)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// runToken reduces a run id to characters valid in bucket and key names.
func runToken(run string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, run)
}
