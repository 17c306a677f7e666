package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/semingest/archive"
	"github.com/c360studio/semingest/config"
	"github.com/c360studio/semingest/curie"
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/metric"
	"github.com/c360studio/semingest/omim"
	"github.com/c360studio/semingest/source"
	"github.com/c360studio/semingest/storage"
	"github.com/c360studio/semingest/translation"
)

// App wires configuration into the ingest components.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metric.Registry

	global map[string]string
	curies curie.Map

	// runID scopes the id cache and tags published entities.
	runID string

	// NATS, only when nats.url is set
	natsConn *nats.Conn
	js       jetstream.JetStream
}

// NewApp loads the shared tables and connects the optional services.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		cfg:     cfg,
		logger:  logger,
		metrics: metric.NewRegistry(),
		global:  translation.DefaultGlobal(),
		curies:  curie.Default(),
		runID:   uuid.NewString(),
	}

	var err error
	if cfg.Translation.Global != "" {
		if a.global, err = translation.LoadMapping(cfg.Translation.Global); err != nil {
			return nil, err
		}
	}
	if cfg.Curie.Path != "" {
		if a.curies, err = curie.Load(cfg.Curie.Path); err != nil {
			return nil, err
		}
	}

	if cfg.NATS.URL != "" {
		if err := a.connectNATS(); err != nil {
			return nil, err
		}
	}

	if cfg.Metrics.Addr != "" {
		if _, err := a.metrics.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *App) connectNATS() error {
	a.logger.Info("Connecting to NATS", "url", a.cfg.NATS.URL)
	conn, err := nats.Connect(a.cfg.NATS.URL, nats.Name(appName))
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("create JetStream context: %w", err)
	}
	a.natsConn = conn
	a.js = js
	return nil
}

// Close drains the NATS connection.
func (a *App) Close() {
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
		a.natsConn = nil
	}
}

// Resolver builds the resolver of a source from its local table, creating
// a stub table when the source has none yet.
func (a *App) Resolver(name string) (*translation.Resolver, error) {
	local, err := translation.LoadLocalOrStub(a.cfg.Translation.LocalDir, name, a.logger)
	if err != nil {
		return nil, err
	}
	return translation.NewResolver(translation.NewTable(local, a.global),
		translation.WithLogger(a.logger),
		translation.WithSource(name),
		translation.WithObserver(a.metrics.Metrics.ObserveTranslation),
	), nil
}

// sourceOptions selects the optional outputs of a run.
type sourceOptions struct {
	release string
	upload  bool
}

// Source opens a configured ingest source.
func (a *App) Source(ctx context.Context, name string, so sourceOptions) (*source.Source, error) {
	sc, ok := a.cfg.Source(name)
	if !ok {
		return nil, fmt.Errorf("no source %q in configuration", name)
	}
	files := sc.Files
	if len(files) == 0 && name == omim.Name {
		files = omim.Files(sc.APIKey())
	}
	for _, f := range files {
		if err := source.ValidateFileURL(f.URL); err != nil {
			return nil, fmt.Errorf("%s file %s: %w", name, f.Key, err)
		}
	}
	if so.release != "" {
		sc.Dataset.ReleaseVersion = so.release
	}

	r, err := a.Resolver(name)
	if err != nil {
		return nil, err
	}

	opts := []source.Option{
		source.WithLogger(a.logger),
		source.WithGraphOptions(graph.WithAddHook(a.metrics.Metrics.ObserveTriple)),
	}
	if so.upload {
		store, err := archive.Open(ctx, a.cfg.Archive)
		if err != nil {
			return nil, err
		}
		opts = append(opts, source.WithArchive(store))
	}
	if a.js != nil {
		opts = append(opts, source.WithPublisher(graph.NewPublisher(
			graph.JetStreamPublisher{JS: a.js}, name,
			graph.WithSubject(a.cfg.NATS.Subject),
			graph.WithRunID(a.runID),
			graph.WithPublisherLogger(a.logger),
		)))
	}

	return source.New(source.Config{
		Name:      name,
		RawDir:    filepath.Join(a.cfg.Output.RawDir, name),
		OutDir:    a.cfg.Output.Dir,
		Files:     files,
		Dataset:   sc.Dataset,
		Format:    a.outputFormat(),
		Skolemize: a.cfg.Output.Skolemize,
		Streamed:  a.cfg.Output.Streamed,
	}, r, a.curies, opts...)
}

// OpenCache opens the configured id cache for this run. A nats cache
// without its own url shares the nats connection settings.
func (a *App) OpenCache(ctx context.Context) (storage.Cache, error) {
	cfg := a.cfg.Cache
	cfg.Run = a.runID
	if cfg.Driver == storage.DriverNATS && cfg.URL == "" {
		cfg.URL = a.cfg.NATS.URL
	}
	return storage.Open(ctx, cfg)
}
