// Package dataset describes an ingest's output with tiered HCLS metadata.
//
// A Dataset is built once per ingest run. Construction writes the summary,
// version and distribution triples in one pass; afterwards only append-only
// mutators run (source files, citations, statistics).
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/c360studio/semingest/curie"
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/translation"
	"github.com/c360studio/semingest/vocabulary/hcls"
)

// Defaults applied to a Config.
const (
	DefaultCuriePrefix      = curie.ArchivePrefix
	DefaultDistributionType = "ttl"
	DefaultToolURI          = "https://github.com/c360studio/semingest"
	ReleaseLayout           = "20060102"
)

// ErrInvalidConfig is returned when a Config cannot describe a dataset.
var ErrInvalidConfig = errors.New("invalid dataset config")

var formatIRIs = map[string]string{
	"ttl": hcls.FormatTurtle,
	"nt":  hcls.FormatNTriples,
}

// Config holds the immutable inputs of a Dataset.
type Config struct {
	Identifier       string `yaml:"identifier" json:"identifier"`
	ReleaseVersion   string `yaml:"release_version,omitempty" json:"release_version,omitempty"`
	IngestName       string `yaml:"ingest_name,omitempty" json:"ingest_name,omitempty"`
	IngestTitle      string `yaml:"title,omitempty" json:"title,omitempty"`
	IngestURL        string `yaml:"url,omitempty" json:"url,omitempty"`
	IngestLogo       string `yaml:"logo,omitempty" json:"logo,omitempty"`
	Description      string `yaml:"description,omitempty" json:"description,omitempty"`
	LicenseURL       string `yaml:"license,omitempty" json:"license,omitempty"`
	DataRights       string `yaml:"rights,omitempty" json:"rights,omitempty"`
	DistributionType string `yaml:"distribution_type,omitempty" json:"distribution_type,omitempty"`
	CuriePrefix      string `yaml:"curie_prefix,omitempty" json:"curie_prefix,omitempty"`
	ToolURI          string `yaml:"tool_uri,omitempty" json:"tool_uri,omitempty"`
	VersionInfo      string `yaml:"version_info,omitempty" json:"version_info,omitempty"`
}

// Option configures New.
type Option func(*settings)

type settings struct {
	clock  func() time.Time
	logger *slog.Logger
}

// WithClock sets the clock used for the default release version.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) { s.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// Dataset is the metadata of one ingest run.
type Dataset struct {
	cfg      Config
	graph    graph.Graph
	resolver *translation.Resolver
	logger   *slog.Logger

	summary      string
	version      string
	distribution string
	downloadURL  string
	publisher    string
	license      string
	created      graph.Literal

	mu        sync.Mutex
	citations map[string]struct{}
}

// New derives the three tier identifiers from cfg and writes the metadata
// triples into g. Missing control metadata is filled with defaults: today's
// date for the release, the unknown-license sentinel for the license.
func New(cfg Config, g graph.Graph, r *translation.Resolver, cm curie.Map, opts ...Option) (*Dataset, error) {
	s := settings{clock: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}

	if cfg.Identifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", ErrInvalidConfig)
	}
	if g == nil || r == nil {
		return nil, fmt.Errorf("%w: graph and resolver are required", ErrInvalidConfig)
	}

	archiveBase, ok := cm.Base(curie.ArchivePrefix)
	if !ok {
		return nil, fmt.Errorf("%w: curie map lacks %q", ErrInvalidConfig, curie.ArchivePrefix)
	}
	publisher, ok := cm.Base(curie.PublisherPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: curie map lacks the publisher prefix", ErrInvalidConfig)
	}

	if cfg.ReleaseVersion == "" {
		cfg.ReleaseVersion = s.clock().Format(ReleaseLayout)
	}
	if cfg.CuriePrefix == "" {
		cfg.CuriePrefix = DefaultCuriePrefix
	}
	if cfg.DistributionType == "" {
		cfg.DistributionType = DefaultDistributionType
	}
	if cfg.IngestName == "" {
		cfg.IngestName = cfg.Identifier
	}
	if cfg.IngestTitle == "" {
		cfg.IngestTitle = cfg.CuriePrefix + ":" + cfg.Identifier
	}
	if cfg.ToolURI == "" {
		cfg.ToolURI = DefaultToolURI
	}
	if cfg.IngestLogo != "" {
		logoBase, _ := cm.Base(curie.LogoPrefix)
		cfg.IngestLogo = logoBase + cfg.IngestLogo
	}

	d := &Dataset{
		cfg:          cfg,
		graph:        g,
		resolver:     r,
		logger:       s.logger,
		summary:      cfg.CuriePrefix + ":#" + cfg.Identifier,
		version:      cfg.CuriePrefix + ":" + cfg.ReleaseVersion + "/#" + cfg.Identifier,
		distribution: cfg.CuriePrefix + ":" + cfg.ReleaseVersion + "/rdf/" + cfg.Identifier + "." + cfg.DistributionType,
		downloadURL:  archiveBase + cfg.ReleaseVersion + "/rdf/" + cfg.IngestName + "." + cfg.DistributionType,
		publisher:    publisher,
		license:      cfg.LicenseURL,
		created:      graph.Literal{Value: cfg.ReleaseVersion, Datatype: graph.XSDDate},
		citations:    make(map[string]struct{}),
	}
	if d.license == "" {
		d.license = hcls.UnknownLicense
	}

	for _, step := range []func() error{
		d.writeSummary,
		d.writeVersion,
		d.writeDistribution,
		d.declareAsOntology,
	} {
		if err := step(); err != nil {
			return nil, err
		}
	}

	d.logger.Debug("Dataset metadata written",
		"identifier", cfg.Identifier,
		"release", cfg.ReleaseVersion,
		"distribution", d.distribution)
	return d, nil
}

// emitter writes triples for one subject, keeping the first error.
type emitter struct {
	d       *Dataset
	subject string
	err     error
}

func (d *Dataset) about(subject string) *emitter {
	return &emitter{d: d, subject: subject}
}

func (e *emitter) add(label string, object any) *emitter {
	if e.err != nil {
		return e
	}
	p, err := e.d.resolver.Term(label)
	if err != nil {
		e.err = fmt.Errorf("dataset predicate %q: %w", label, err)
		return e
	}
	if err := e.d.graph.AddTriple(e.subject, p, object); err != nil {
		e.err = fmt.Errorf("dataset triple %s %s: %w", e.subject, p, err)
	}
	return e
}

func (e *emitter) addIf(cond bool, label string, object any) *emitter {
	if !cond {
		return e
	}
	return e.add(label, object)
}

func (d *Dataset) typeTerm(label string) (string, error) {
	t, err := d.resolver.Term(label)
	if err != nil {
		return "", fmt.Errorf("dataset class %q: %w", label, err)
	}
	return t, nil
}

func (d *Dataset) writeSummary() error {
	class, err := d.typeTerm(hcls.Dataset.Label)
	if err != nil {
		return err
	}
	return d.about(d.summary).
		add(hcls.Type.Label, class).
		add(hcls.Title.Label, graph.Text(d.cfg.IngestTitle)).
		add(hcls.Publisher.Label, d.publisher).
		addIf(d.cfg.IngestLogo != "", hcls.Logo.Label, d.cfg.IngestLogo).
		add(hcls.Identifier.Label, d.summary).
		addIf(d.cfg.IngestURL != "", hcls.SourceDct.Label, d.cfg.IngestURL).
		addIf(d.cfg.Description != "", hcls.Description.Label, graph.Text(d.cfg.Description)).
		err
}

func (d *Dataset) writeVersion() error {
	class, err := d.typeTerm(hcls.Dataset.Label)
	if err != nil {
		return err
	}
	title := d.cfg.IngestTitle + " Monarch version " + d.cfg.ReleaseVersion
	return d.about(d.version).
		add(hcls.Type.Label, class).
		add(hcls.Title.Label, graph.Text(title)).
		addIf(d.cfg.Description != "", hcls.Description.Label, graph.Text(d.cfg.Description)).
		add(hcls.Created.Label, d.created).
		add(hcls.Version.Label, d.created).
		add(hcls.Creator.Label, d.publisher).
		add(hcls.Publisher.Label, d.publisher).
		add(hcls.IsVersionOf.Label, d.summary).
		add(hcls.HasDistribution.Label, d.distribution).
		err
}

func (d *Dataset) writeDistribution() error {
	datasetClass, err := d.typeTerm(hcls.Dataset.Label)
	if err != nil {
		return err
	}
	distClass, err := d.typeTerm(hcls.Distribution.Label)
	if err != nil {
		return err
	}

	format, ok := formatIRIs[d.cfg.DistributionType]
	if !ok {
		d.logger.Warn("Unknown distribution type, declaring turtle format",
			"distribution_type", d.cfg.DistributionType)
		format = hcls.FormatTurtle
	}

	title := d.cfg.IngestTitle + " distribution " + d.cfg.DistributionType
	return d.about(d.distribution).
		add(hcls.Type.Label, datasetClass).
		add(hcls.Type.Label, distClass).
		add(hcls.Title.Label, graph.Text(title)).
		addIf(d.cfg.Description != "", hcls.Description.Label, graph.Text(d.cfg.Description)).
		add(hcls.Version.Label, d.created).
		add(hcls.Created.Label, d.created).
		add(hcls.Creator.Label, d.publisher).
		add(hcls.Publisher.Label, d.publisher).
		add(hcls.CreatedWith.Label, d.cfg.ToolURI).
		add(hcls.Format.Label, format).
		add(hcls.DownloadURL.Label, d.downloadURL).
		add(hcls.License.Label, d.license).
		addIf(d.cfg.DataRights != "", hcls.Rights.Label, d.cfg.DataRights).
		err
}

// declareAsOntology marks the distribution as an ontology artifact whose
// version IRI is the version level resource.
func (d *Dataset) declareAsOntology() error {
	class, err := d.typeTerm(hcls.Ontology.Label)
	if err != nil {
		return err
	}
	return d.about(d.distribution).
		add(hcls.Type.Label, class).
		add(hcls.VersionIRI.Label, d.version).
		addIf(d.cfg.VersionInfo != "", hcls.VersionInfo.Label, graph.Text(d.cfg.VersionInfo)).
		err
}

// SummaryCURIE returns <prefix>:#<identifier>.
func (d *Dataset) SummaryCURIE() string { return d.summary }

// VersionCURIE returns <prefix>:<release>/#<identifier>.
func (d *Dataset) VersionCURIE() string { return d.version }

// DistributionCURIE returns <prefix>:<release>/rdf/<identifier>.<type>.
func (d *Dataset) DistributionCURIE() string { return d.distribution }

// DownloadURL returns where the distribution will be published.
func (d *Dataset) DownloadURL() string { return d.downloadURL }

// ReleaseVersion returns the release version, defaulted if it was not given.
func (d *Dataset) ReleaseVersion() string { return d.cfg.ReleaseVersion }

// Created returns the literal shared by the version and distribution
// created triples.
func (d *Dataset) Created() graph.Literal { return d.created }

// License returns the distribution license, which may be the
// unknown-license sentinel.
func (d *Dataset) License() string { return d.license }

// Config returns the effective configuration after defaults.
func (d *Dataset) Config() Config { return d.cfg }

// Graph returns the graph the metadata is written to.
func (d *Dataset) Graph() graph.Graph { return d.graph }

// Citations returns the recorded citation ids in sorted order.
func (d *Dataset) Citations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.citations))
	for c := range d.citations {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
