// Package config provides configuration loading and management for semingest.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semingest/archive"
	"github.com/c360studio/semingest/dataset"
	"github.com/c360studio/semingest/export"
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/source"
	"github.com/c360studio/semingest/storage"
)

// Config represents the complete semingest configuration
type Config struct {
	Output      OutputConfig            `yaml:"output"`
	Translation TranslationConfig       `yaml:"translation"`
	Curie       CurieConfig             `yaml:"curie"`
	Archive     archive.Config          `yaml:"archive"`
	Cache       storage.Config          `yaml:"cache"`
	NATS        NATSConfig              `yaml:"nats"`
	Metrics     MetricsConfig           `yaml:"metrics"`
	Sources     map[string]SourceConfig `yaml:"sources"`
}

// OutputConfig configures where and how graphs are written
type OutputConfig struct {
	// Dir receives the emitted graphs (default: out)
	Dir string `yaml:"dir"`
	// RawDir is the parent of the per-source download directories (default: raw)
	RawDir string `yaml:"raw_dir"`
	// Format is the main graph serialization: turtle or ntriples
	Format string `yaml:"format"`
	// CuriePrefix overrides the dataset CURIE prefix of every source
	CuriePrefix string `yaml:"curie_prefix"`
	// ToolURI is stated as the tool the graphs were created with
	ToolURI string `yaml:"tool_uri"`
	// Skolemize rewrites blank nodes in the main graph
	Skolemize bool `yaml:"skolemize"`
	// Streamed writes N-Triples while ingesting instead of holding the graph
	Streamed bool `yaml:"streamed"`
}

// TranslationConfig locates the translation tables
type TranslationConfig struct {
	// Global is the global table path (empty = embedded table)
	Global string `yaml:"global"`
	// LocalDir holds one <source>.yaml table per source
	LocalDir string `yaml:"local_dir"`
	// Patterns select the tables checked by lint
	Patterns []string `yaml:"patterns"`
}

// CurieConfig locates the prefix map
type CurieConfig struct {
	// Path is the curie map (empty = embedded map)
	Path string `yaml:"path"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = do not publish)
	URL string `yaml:"url"`
	// Subject receives entity payloads
	Subject string `yaml:"subject"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address (empty = disabled)
	Addr string `yaml:"addr"`
}

// SourceConfig describes one ingest source
type SourceConfig struct {
	Dataset dataset.Config `yaml:"dataset"`
	Files   []source.File  `yaml:"files,omitempty"`
	// APIKeyEnv names the environment variable holding the source API key
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
}

// APIKey reads the source API key from the environment.
func (s SourceConfig) APIKey() string {
	if s.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(s.APIKeyEnv)
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    "out",
			RawDir: "raw",
			Format: string(export.FormatTurtle),
		},
		Translation: TranslationConfig{
			LocalDir: "translationtable",
			Patterns: []string{"translationtable/**/*.yaml"},
		},
		Archive: archive.Config{
			Driver: archive.DriverFS,
			Dir:    "archive",
		},
		Cache: storage.Config{
			Driver: storage.DriverMemory,
		},
		NATS: NATSConfig{
			Subject: graph.GraphIngestSubject,
		},
		Sources: map[string]SourceConfig{
			"omim": {
				Dataset: dataset.Config{
					Identifier:  "omim",
					IngestTitle: "Online Mendelian Inheritance in Man",
					IngestURL:   "https://omim.org/",
					IngestLogo:  "source-omim.png",
					LicenseURL:  "https://omim.org/help/agreement",
					DataRights:  "https://omim.org/help/copyright",
				},
				APIKeyEnv: "OMIM_API_KEY",
			},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, ok := export.GetFormatInfo(export.Format(c.Output.Format)); !ok {
		return fmt.Errorf("output.format %q is not one of %v", c.Output.Format, export.Formats())
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}

	switch c.Archive.Driver {
	case "", archive.DriverFS:
	case archive.DriverS3:
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("archive.driver %q is not fs or s3", c.Archive.Driver)
	}

	drivers := []string{"", storage.DriverMemory, storage.DriverNATS, storage.DriverRedis, storage.DriverSQLite}
	if !slices.Contains(drivers, c.Cache.Driver) {
		return fmt.Errorf("cache.driver %q is not supported", c.Cache.Driver)
	}
	if c.Cache.Driver == storage.DriverNATS && c.Cache.URL == "" && c.NATS.URL == "" {
		return fmt.Errorf("cache.url or nats.url is required for the nats cache")
	}
	if c.Cache.Driver == storage.DriverRedis && c.Cache.URL == "" {
		return fmt.Errorf("cache.url is required for the redis cache")
	}

	for name, s := range c.Sources {
		if name != strings.ToLower(name) {
			return fmt.Errorf("source name %q must be lower case", name)
		}
		for _, f := range s.Files {
			if err := source.ValidateFileURL(f.URL); err != nil {
				return fmt.Errorf("sources.%s file %s: %w", name, f.Key, err)
			}
		}
	}
	return nil
}

// Source returns the configuration of a named source with its dataset
// identifier and output overrides filled in.
func (c *Config) Source(name string) (SourceConfig, bool) {
	s, ok := c.Sources[name]
	if !ok {
		return SourceConfig{}, false
	}
	if s.Dataset.Identifier == "" {
		s.Dataset.Identifier = name
	}
	if c.Output.CuriePrefix != "" {
		s.Dataset.CuriePrefix = c.Output.CuriePrefix
	}
	if c.Output.ToolURI != "" && s.Dataset.ToolURI == "" {
		s.Dataset.ToolURI = c.Output.ToolURI
	}
	return s, true
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// readLayer parses a file without defaults so that Merge only sees the
// values it sets.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return layer, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.RawDir != "" {
		c.Output.RawDir = other.Output.RawDir
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.CuriePrefix != "" {
		c.Output.CuriePrefix = other.Output.CuriePrefix
	}
	if other.Output.ToolURI != "" {
		c.Output.ToolURI = other.Output.ToolURI
	}
	c.Output.Skolemize = c.Output.Skolemize || other.Output.Skolemize
	c.Output.Streamed = c.Output.Streamed || other.Output.Streamed

	// Translation
	if other.Translation.Global != "" {
		c.Translation.Global = other.Translation.Global
	}
	if other.Translation.LocalDir != "" {
		c.Translation.LocalDir = other.Translation.LocalDir
	}
	if len(other.Translation.Patterns) > 0 {
		c.Translation.Patterns = other.Translation.Patterns
	}

	// Curie
	if other.Curie.Path != "" {
		c.Curie.Path = other.Curie.Path
	}

	// Archive: a driver switch replaces the whole section
	if other.Archive.Driver != "" && other.Archive.Driver != c.Archive.Driver {
		c.Archive = other.Archive
	} else {
		if other.Archive.Dir != "" {
			c.Archive.Dir = other.Archive.Dir
		}
		if other.Archive.Bucket != "" {
			c.Archive.Bucket = other.Archive.Bucket
		}
		if other.Archive.Region != "" {
			c.Archive.Region = other.Archive.Region
		}
		if other.Archive.Endpoint != "" {
			c.Archive.Endpoint = other.Archive.Endpoint
		}
		c.Archive.PathStyle = c.Archive.PathStyle || other.Archive.PathStyle
	}

	// Cache
	if other.Cache.Driver != "" && other.Cache.Driver != c.Cache.Driver {
		c.Cache = other.Cache
	} else {
		if other.Cache.URL != "" {
			c.Cache.URL = other.Cache.URL
		}
		if other.Cache.Bucket != "" {
			c.Cache.Bucket = other.Cache.Bucket
		}
		if other.Cache.Path != "" {
			c.Cache.Path = other.Cache.Path
		}
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}

	// Sources are replaced one by one
	for name, s := range other.Sources {
		if c.Sources == nil {
			c.Sources = make(map[string]SourceConfig)
		}
		c.Sources[name] = s
	}
}
