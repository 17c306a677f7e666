// Package archive publishes finished distributions under the release layout
// used by dataset download URLs: <release>/rdf/<name>.<ext>.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverFS = "fs"
	DriverS3 = "s3"
)

// ErrInvalidKey is returned for keys that would escape the archive root.
var ErrInvalidKey = errors.New("invalid archive key")

// Store receives distribution files.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
}

// Key returns the object key for a distribution file.
func Key(release, name, ext string) string {
	return path.Join(release, "rdf", name+"."+strings.TrimPrefix(ext, "."))
}

// Config selects and configures an archive backend.
type Config struct {
	Driver    string `yaml:"driver" json:"driver"`
	Dir       string `yaml:"dir" json:"dir"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	Region    string `yaml:"region" json:"region"`
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	PathStyle bool   `yaml:"path_style" json:"path_style"`
}

// Open builds the store named by cfg.Driver. An empty driver selects the
// filesystem.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFS:
		return NewFSStore(cfg.Dir), nil
	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}
}

// FSStore writes files below a root directory.
type FSStore struct {
	root string
}

// NewFSStore returns a store rooted at dir ("archive" when empty).
func NewFSStore(dir string) *FSStore {
	if dir == "" {
		dir = "archive"
	}
	return &FSStore{root: dir}
}

// Root returns the archive directory.
func (s *FSStore) Root() string { return s.root }

func (s *FSStore) Put(ctx context.Context, key string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	dest := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".put-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	return os.Rename(tmp.Name(), dest)
}
