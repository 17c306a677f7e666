package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/c360studio/semingest/archive"
	"github.com/c360studio/semingest/source"
	"github.com/c360studio/semingest/storage"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.Format != "turtle" {
		t.Errorf("expected default format turtle, got %s", cfg.Output.Format)
	}
	if cfg.Output.Dir != "out" {
		t.Errorf("expected default output dir out, got %s", cfg.Output.Dir)
	}
	if cfg.Cache.Driver != storage.DriverMemory {
		t.Errorf("expected memory cache by default, got %s", cfg.Cache.Driver)
	}
	if cfg.NATS.URL != "" {
		t.Error("expected publishing to be off by default")
	}
	if _, ok := cfg.Sources["omim"]; !ok {
		t.Error("expected an omim source by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Output.Format = "jsonld" },
			wantErr: true,
		},
		{
			name:    "missing output dir",
			modify:  func(c *Config) { c.Output.Dir = "" },
			wantErr: true,
		},
		{
			name:    "s3 without bucket",
			modify:  func(c *Config) { c.Archive.Driver = archive.DriverS3 },
			wantErr: true,
		},
		{
			name: "s3 with bucket",
			modify: func(c *Config) {
				c.Archive.Driver = archive.DriverS3
				c.Archive.Bucket = "releases"
			},
			wantErr: false,
		},
		{
			name:    "unknown cache driver",
			modify:  func(c *Config) { c.Cache.Driver = "memcached" },
			wantErr: true,
		},
		{
			name:    "nats cache without url",
			modify:  func(c *Config) { c.Cache.Driver = storage.DriverNATS },
			wantErr: true,
		},
		{
			name: "nats cache using nats url",
			modify: func(c *Config) {
				c.Cache.Driver = storage.DriverNATS
				c.NATS.URL = "nats://localhost:4222"
			},
			wantErr: false,
		},
		{
			name:    "redis cache without url",
			modify:  func(c *Config) { c.Cache.Driver = storage.DriverRedis },
			wantErr: true,
		},
		{
			name: "source file on a private host",
			modify: func(c *Config) {
				c.Sources["mirror"] = SourceConfig{Files: []source.File{{Key: "a", URL: "http://192.168.0.10/a.txt"}}}
			},
			wantErr: true,
		},
		{
			name: "source file on a public host",
			modify: func(c *Config) {
				c.Sources["hgnc"] = SourceConfig{Files: []source.File{{Key: "a", URL: "https://ftp.ebi.ac.uk/hgnc.txt"}}}
			},
			wantErr: false,
		},
		{
			name:    "upper case source",
			modify:  func(c *Config) { c.Sources["OMIM"] = SourceConfig{} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
output:
  dir: "/data/out"
  format: "ntriples"
  streamed: true
archive:
  driver: "s3"
  bucket: "monarch-archive"
  region: "us-west-2"
cache:
  driver: "redis"
  url: "redis://localhost:6379/0"
nats:
  url: "nats://test:4222"
sources:
  string:
    dataset:
      title: "STRING"
      url: "https://string-db.org/"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Output.Dir != "/data/out" {
		t.Errorf("expected output dir /data/out, got %s", cfg.Output.Dir)
	}
	if cfg.Output.Format != "ntriples" || !cfg.Output.Streamed {
		t.Errorf("expected streamed ntriples, got %s streamed=%v", cfg.Output.Format, cfg.Output.Streamed)
	}
	if cfg.Archive.Bucket != "monarch-archive" || cfg.Archive.Region != "us-west-2" {
		t.Errorf("unexpected archive config %+v", cfg.Archive)
	}
	if cfg.Cache.Driver != storage.DriverRedis {
		t.Errorf("expected redis cache, got %s", cfg.Cache.Driver)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	if _, ok := cfg.Sources["omim"]; !ok {
		t.Error("expected the default omim source to survive")
	}
	if cfg.Sources["string"].Dataset.IngestTitle != "STRING" {
		t.Errorf("expected string source title, got %q", cfg.Sources["string"].Dataset.IngestTitle)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Output: OutputConfig{
			Dir: "/override/out",
		},
		Archive: archive.Config{
			Driver: archive.DriverS3,
			Bucket: "b",
		},
	}

	base.Merge(override)

	if base.Output.Dir != "/override/out" {
		t.Errorf("expected output dir /override/out, got %s", base.Output.Dir)
	}
	// Format should remain from base since override didn't set it
	if base.Output.Format != "turtle" {
		t.Errorf("expected format to remain default, got %s", base.Output.Format)
	}
	// a driver switch drops the fs directory
	if base.Archive.Driver != archive.DriverS3 || base.Archive.Dir != "" {
		t.Errorf("expected a clean s3 archive section, got %+v", base.Archive)
	}
}

func TestConfigSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.CuriePrefix = "TEST"
	cfg.Output.ToolURI = "https://example.org/tool"
	cfg.Sources["hpoa"] = SourceConfig{}

	s, ok := cfg.Source("hpoa")
	if !ok {
		t.Fatal("expected hpoa source")
	}
	if s.Dataset.Identifier != "hpoa" {
		t.Errorf("expected identifier hpoa, got %s", s.Dataset.Identifier)
	}
	if s.Dataset.CuriePrefix != "TEST" || s.Dataset.ToolURI != "https://example.org/tool" {
		t.Errorf("expected output overrides, got %+v", s.Dataset)
	}
	if _, ok := cfg.Source("nope"); ok {
		t.Error("expected unknown source to be missing")
	}
}

func TestSourceAPIKey(t *testing.T) {
	t.Setenv("SEMINGEST_TEST_KEY", "k")
	if got := (SourceConfig{APIKeyEnv: "SEMINGEST_TEST_KEY"}).APIKey(); got != "k" {
		t.Errorf("expected key k, got %q", got)
	}
	if got := (SourceConfig{}).APIKey(); got != "" {
		t.Errorf("expected no key, got %q", got)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Dir = "saved-out"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Output.Dir != "saved-out" {
		t.Errorf("expected output dir saved-out, got %s", loaded.Output.Dir)
	}
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	write := func(path, content string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(home, UserConfigDir, UserConfigFile), "output:\n  dir: user-out\n  raw_dir: user-raw\n")
	write(filepath.Join(project, ProjectConfigFile), "output:\n  dir: project-out\n")
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	write(explicit, "metrics:\n  addr: \":9100\"\n")

	l := NewLoader(nil)
	l.home = home
	l.cwd = nested

	cfg, err := l.Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Dir != "project-out" {
		t.Errorf("expected project config to win, got %s", cfg.Output.Dir)
	}
	if cfg.Output.RawDir != "user-raw" {
		t.Errorf("expected user raw dir, got %s", cfg.Output.RawDir)
	}
	if cfg.Output.Format != "turtle" {
		t.Errorf("expected default format, got %s", cfg.Output.Format)
	}
	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("expected explicit metrics addr, got %s", cfg.Metrics.Addr)
	}

	if _, err := l.Load(filepath.Join(home, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config")
	}
}

func TestEnsureUserConfig(t *testing.T) {
	l := NewLoader(nil)
	l.home = t.TempDir()

	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	if _, err := os.Stat(l.userConfigPath()); err != nil {
		t.Errorf("expected user config to exist: %v", err)
	}
}
