package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360studio/semingest/archive"
	"github.com/c360studio/semingest/curie"
	"github.com/c360studio/semingest/dataset"
	"github.com/c360studio/semingest/export"
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/identifier"
	"github.com/c360studio/semingest/translation"
)

// Config describes one ingest.
type Config struct {
	Name string `yaml:"name" json:"name"`

	// RawDir defaults to raw/<name>.
	RawDir string `yaml:"raw_dir" json:"raw_dir"`

	// OutDir defaults to out.
	OutDir string `yaml:"out_dir" json:"out_dir"`

	Files []File `yaml:"files" json:"files"`

	Dataset dataset.Config `yaml:"dataset" json:"dataset"`

	// Skolemize rewrites blank nodes in the main graph into CURIEs.
	Skolemize bool `yaml:"skolemize" json:"skolemize"`

	// Format of the main graph; defaults to turtle. It names the
	// distribution the dataset describes.
	Format export.Format `yaml:"format" json:"format"`

	// Streamed writes N-Triples straight to disk instead of holding the
	// graph in memory. It overrides Format.
	Streamed bool `yaml:"streamed" json:"streamed"`
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithArchive uploads written distributions to store.
func WithArchive(store archive.Store) Option {
	return func(s *Source) { s.archive = store }
}

// WithPublisher publishes the main graph after it is written.
func WithPublisher(p *graph.Publisher) Option {
	return func(s *Source) { s.publisher = p }
}

// WithGraphOptions passes options to the main graph.
func WithGraphOptions(opts ...graph.Option) Option {
	return func(s *Source) { s.graphOpts = append(s.graphOpts, opts...) }
}

// WithClock sets the clock used for the dataset release default.
func WithClock(clock func() time.Time) Option {
	return func(s *Source) { s.clock = clock }
}

// Source owns the graphs and metadata of one ingest run.
type Source struct {
	name   string
	rawDir string
	outDir string
	files  []File
	format export.Format

	resolver *translation.Resolver
	curies   curie.Map

	graph      graph.Graph
	memory     *graph.MemoryGraph
	streamed   *graph.StreamedGraph
	streamFile *os.File

	testGraph    *graph.MemoryGraph
	datasetGraph *graph.MemoryGraph
	dataset      *dataset.Dataset

	archive   archive.Store
	publisher *graph.Publisher
	graphOpts []graph.Option
	clock     func() time.Time
	logger    *slog.Logger
}

// New prepares the directories, graphs and dataset description of an ingest.
func New(cfg Config, r *translation.Resolver, cm curie.Map, opts ...Option) (*Source, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	if name == "" {
		return nil, fmt.Errorf("source name required")
	}
	s := &Source{
		name:     name,
		rawDir:   cfg.RawDir,
		outDir:   cfg.OutDir,
		files:    cfg.Files,
		resolver: r,
		curies:   cm,
		clock:    time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rawDir == "" {
		s.rawDir = filepath.Join("raw", name)
	}
	if s.outDir == "" {
		s.outDir = "out"
	}
	for _, dir := range []string{s.rawDir, s.outDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	s.logger = s.logger.With("source", name)

	graphOpts := append([]graph.Option{graph.WithSource(name), graph.WithLogger(s.logger)}, s.graphOpts...)
	if cfg.Skolemize {
		graphOpts = append(graphOpts, graph.WithSkolemize(identifier.DefaultPrefix))
	}

	s.format = cfg.Format
	if cfg.Streamed {
		if s.format != "" && s.format != export.FormatNTriples {
			s.logger.Warn("Streamed output is N-Triples, ignoring format", "format", s.format)
		}
		s.format = export.FormatNTriples
	}
	if s.format == "" {
		s.format = export.FormatTurtle
	}
	info, ok := export.GetFormatInfo(s.format)
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", s.format)
	}

	dcfg := cfg.Dataset
	if dcfg.Identifier == "" {
		dcfg.Identifier = name
	}
	dcfg.DistributionType = strings.TrimPrefix(info.Extension, ".")
	if cfg.Streamed {
		f, err := os.Create(s.mainPath())
		if err != nil {
			return nil, fmt.Errorf("create streamed output: %w", err)
		}
		s.streamFile = f
		s.streamed = graph.NewStreamedGraph(f, cm, graphOpts...)
		s.graph = s.streamed
	} else {
		s.memory = graph.NewMemoryGraph(graphOpts...)
		s.graph = s.memory
	}

	// Test graphs are read by tools that need skolemized blank nodes.
	s.testGraph = graph.NewMemoryGraph(graph.WithSource(name), graph.WithSkolemize(identifier.DefaultPrefix))
	s.datasetGraph = graph.NewMemoryGraph(graph.WithSource(name))

	d, err := dataset.New(dcfg, s.datasetGraph, r, cm,
		dataset.WithLogger(s.logger), dataset.WithClock(s.clock))
	if err != nil {
		s.closeStream()
		return nil, err
	}
	s.dataset = d
	s.logger.Info("Processing source", "raw_dir", s.rawDir, "out_dir", s.outDir,
		"format", s.format, "streamed", cfg.Streamed)
	return s, nil
}

func (s *Source) Name() string   { return s.name }
func (s *Source) RawDir() string { return s.rawDir }
func (s *Source) OutDir() string { return s.outDir }

// Graph returns the main graph parsers write to.
func (s *Source) Graph() graph.Graph { return s.graph }

// TestGraph holds the subset of records written for downstream tests.
func (s *Source) TestGraph() *graph.MemoryGraph { return s.testGraph }

func (s *Source) Dataset() *dataset.Dataset { return s.dataset }

// DatasetGraph holds the dataset description triples.
func (s *Source) DatasetGraph() *graph.MemoryGraph { return s.datasetGraph }

func (s *Source) Resolver() *translation.Resolver { return s.resolver }

// File returns the upstream file registered under key.
func (s *Source) File(key string) (File, bool) {
	for _, f := range s.files {
		if f.Key == key {
			return f, true
		}
	}
	return File{}, false
}

// RawPath returns the local path of the file registered under key.
func (s *Source) RawPath(key string) (string, error) {
	f, ok := s.File(key)
	if !ok {
		return "", fmt.Errorf("source %s has no file %q", s.name, key)
	}
	return filepath.Join(s.rawDir, f.File), nil
}

// RecordFileRetrieval states on the dataset that f was used and when it was
// fetched.
func (s *Source) RecordFileRetrieval(f File, retrieved time.Time) error {
	u := f.AccessURL()
	if err := s.dataset.SetIngestSource(u, ""); err != nil {
		return err
	}
	return s.dataset.SetIngestSourceFileRetrievedOn(u, retrieved.UTC().Format(time.DateOnly), "")
}

// GetFiles downloads every registered file and records its retrieval.
func (s *Source) GetFiles(ctx context.Context, d *Downloader, force bool) error {
	if d == nil {
		d = &Downloader{Logger: s.logger}
	}
	for _, f := range s.files {
		s.logger.Info("Getting file", "key", f.Key)
		if _, err := d.Download(ctx, f, s.rawDir, force); err != nil {
			return fmt.Errorf("get %s: %w", f.Key, err)
		}
		info, err := os.Stat(filepath.Join(s.rawDir, f.File))
		if err != nil {
			return err
		}
		if err := s.RecordFileRetrieval(f, info.ModTime()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Source) mainPath() string {
	info, _ := export.GetFormatInfo(s.format)
	return filepath.Join(s.outDir, s.name+info.Extension)
}

// Format is the serialization of the main graph.
func (s *Source) Format() export.Format { return s.format }

// DatasetPath is where the dataset description is written. It is always
// Turtle.
func (s *Source) DatasetPath() string {
	return filepath.Join(s.outDir, s.name+"_dataset.ttl")
}

// TestPath is where the test graph is written.
func (s *Source) TestPath() string {
	return filepath.Join(s.outDir, s.name+"_test.ttl")
}

// OutputPath returns where Write puts the main graph.
func (s *Source) OutputPath() string {
	return s.mainPath()
}

// Write finishes the run: statistics are stated on the dataset, then the
// main graph, the dataset description and a non-empty test graph are
// written. Configured archive and publisher outputs run last.
func (s *Source) Write(ctx context.Context) error {
	if s.memory != nil {
		if err := s.dataset.SetStatistics(dataset.ComputeStatistics(s.memory.Triples())); err != nil {
			return fmt.Errorf("dataset statistics: %w", err)
		}
		if err := s.writeFile(s.mainPath(), s.memory, s.format); err != nil {
			return err
		}
	} else {
		if err := s.streamed.Flush(); err != nil {
			return fmt.Errorf("flush streamed graph: %w", err)
		}
		if err := s.closeStream(); err != nil {
			return err
		}
	}

	if err := s.writeFile(s.DatasetPath(), s.datasetGraph, export.FormatTurtle); err != nil {
		return err
	}
	if s.testGraph.Len() > 0 {
		if err := s.writeFile(s.TestPath(), s.testGraph, export.FormatTurtle); err != nil {
			return err
		}
	}
	s.logger.Info("Wrote graphs", "path", s.OutputPath(), "triples", s.graph.Len())

	if s.archive != nil {
		if err := s.upload(ctx); err != nil {
			return err
		}
	}
	if s.publisher != nil && s.memory != nil {
		if _, err := s.publisher.PublishGraph(ctx, s.memory); err != nil {
			return err
		}
	}
	return nil
}

func (s *Source) writeFile(path string, g *graph.MemoryGraph, format export.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.Write(f, g.Triples(), format, s.curies); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (s *Source) upload(ctx context.Context) error {
	info, _ := export.GetFormatInfo(s.format)
	release := s.dataset.ReleaseVersion()
	uploads := []struct {
		path, key, mime string
	}{
		{s.OutputPath(), archive.Key(release, s.name, info.Extension), info.MIMEType},
		{s.DatasetPath(), archive.Key(release, s.name+"_dataset", "ttl"), "text/turtle"},
	}
	for _, u := range uploads {
		f, err := os.Open(u.path)
		if err != nil {
			return fmt.Errorf("open %s: %w", u.path, err)
		}
		err = s.archive.Put(ctx, u.key, f, u.mime)
		f.Close()
		if err != nil {
			return fmt.Errorf("archive %s: %w", u.key, err)
		}
		s.logger.Info("Archived", "key", u.key)
	}
	return nil
}

func (s *Source) closeStream() error {
	if s.streamFile == nil {
		return nil
	}
	err := s.streamFile.Close()
	s.streamFile = nil
	return err
}
