package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/c360studio/semingest/curie"
	"github.com/c360studio/semingest/dataset"
	"github.com/c360studio/semingest/export"
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/translation"
	"github.com/c360studio/semingest/vocabulary/hcls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memArchive struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func (m *memArchive) Put(_ context.Context, key string, r io.Reader, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = string(b)
	m.types[key] = contentType
	return nil
}

func newTestSource(t *testing.T, cfg Config, opts ...Option) *Source {
	t.Helper()
	dir := t.TempDir()
	cfg.RawDir = filepath.Join(dir, "raw", cfg.Name)
	cfg.OutDir = filepath.Join(dir, "out")
	r := translation.NewResolver(translation.NewTable(nil, translation.DefaultGlobal()))
	fixed := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	opts = append(opts, WithClock(func() time.Time { return fixed }))
	s, err := New(cfg, r, curie.Default(), opts...)
	require.NoError(t, err)
	return s
}

func TestNew_CreatesDirectoriesAndDataset(t *testing.T) {
	s := newTestSource(t, Config{Name: "OMIM"})

	assert.Equal(t, "omim", s.Name())
	assert.DirExists(t, s.RawDir())
	assert.DirExists(t, s.OutDir())
	assert.Equal(t, "MonarchArchive:20240115/rdf/omim.ttl", s.Dataset().DistributionCURIE())
	assert.Positive(t, s.DatasetGraph().Len())
	assert.Zero(t, s.Graph().Len())
}

func TestNew_RequiresName(t *testing.T) {
	r := translation.NewResolver(translation.NewTable(nil, translation.DefaultGlobal()))
	_, err := New(Config{}, r, curie.Default())
	assert.Error(t, err)
}

func TestRecordFileRetrieval(t *testing.T) {
	s := newTestSource(t, Config{Name: "omim"})
	f := File{URL: "https://data.omim.org/downloads/KEY/mim2gene.txt", Clean: "https://omim.org/downloads/mim2gene.txt"}

	require.NoError(t, s.RecordFileRetrieval(f, time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)))

	d := s.DatasetGraph()
	assert.True(t, d.Has(s.Dataset().VersionCURIE(), hcls.SourceDct.CURIE, f.Clean))
	assert.True(t, d.Has(f.Clean, hcls.RetrievedOn.CURIE, graph.Literal{Value: "2024-01-10", Datatype: graph.XSDDate}))
	assert.False(t, d.Has(s.Dataset().VersionCURIE(), hcls.SourceDct.CURIE, f.URL))
}

func TestRawPath(t *testing.T) {
	s := newTestSource(t, Config{Name: "omim", Files: []File{{Key: "morbidmap", File: "morbidmap.txt"}}})

	p, err := s.RawPath("morbidmap")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.RawDir(), "morbidmap.txt"), p)

	_, err = s.RawPath("genemap2")
	assert.Error(t, err)
}

func TestWrite_MemoryGraph(t *testing.T) {
	arch := &memArchive{objects: map[string]string{}, types: map[string]string{}}
	s := newTestSource(t, Config{Name: "omim"}, WithArchive(arch))

	require.NoError(t, s.Graph().AddType("OMIM:100100", "SO:0000704"))
	require.NoError(t, s.TestGraph().AddType("OMIM:100100", "SO:0000704"))
	require.NoError(t, s.Write(context.Background()))

	main, err := os.ReadFile(filepath.Join(s.OutDir(), "omim.ttl"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "OMIM:100100")

	ds, err := os.ReadFile(s.DatasetPath())
	require.NoError(t, err)
	assert.Contains(t, string(ds), "void:triples")
	assert.FileExists(t, s.TestPath())

	assert.Equal(t, string(main), arch.objects["20240115/rdf/omim.ttl"])
	assert.Equal(t, "text/turtle", arch.types["20240115/rdf/omim.ttl"])
	assert.Contains(t, arch.objects, "20240115/rdf/omim_dataset.ttl")
}

func TestWrite_SkipsEmptyTestGraph(t *testing.T) {
	s := newTestSource(t, Config{Name: "omim", Format: export.FormatNTriples})
	require.NoError(t, s.Write(context.Background()))

	assert.FileExists(t, filepath.Join(s.OutDir(), "omim.nt"))
	assert.NoFileExists(t, s.TestPath())
}

func TestWrite_Streamed(t *testing.T) {
	s := newTestSource(t, Config{Name: "omim", Format: export.FormatTurtle, Streamed: true, Skolemize: true})
	assert.Equal(t, export.FormatNTriples, s.Format())
	assert.Equal(t, "MonarchArchive:20240115/rdf/omim.nt", s.Dataset().DistributionCURIE())

	require.NoError(t, s.Graph().AddTriple("_:feature1", "rdfs:label", graph.Text("x")))
	require.NoError(t, s.Write(context.Background()))

	out, err := os.ReadFile(s.OutputPath())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(s.OutputPath(), "omim.nt"))
	assert.Equal(t, 1, strings.Count(string(out), "\n"))
	assert.NotContains(t, string(out), "_:")
}

func TestNew_UnsupportedFormat(t *testing.T) {
	r := translation.NewResolver(translation.NewTable(nil, translation.DefaultGlobal()))
	dir := t.TempDir()
	_, err := New(Config{Name: "omim", RawDir: dir, OutDir: dir, Format: "rdfxml"}, r, curie.Default())
	assert.Error(t, err)
}

func TestWrite_NTriplesDistributionMatchesOutput(t *testing.T) {
	arch := &memArchive{objects: map[string]string{}, types: map[string]string{}}
	s := newTestSource(t, Config{Name: "omim", Format: export.FormatNTriples}, WithArchive(arch))

	require.NoError(t, s.Graph().AddType("OMIM:100100", "SO:0000704"))
	require.NoError(t, s.Write(context.Background()))

	d := s.Dataset()
	assert.Equal(t, "MonarchArchive:20240115/rdf/omim.nt", d.DistributionCURIE())
	assert.True(t, strings.HasSuffix(d.DownloadURL(), "/20240115/rdf/omim.nt"))
	assert.True(t, s.DatasetGraph().Has(d.DistributionCURIE(), hcls.Format.CURIE, hcls.FormatNTriples))
	assert.Equal(t, filepath.Join(s.OutDir(), "omim.nt"), s.OutputPath())
	assert.FileExists(t, s.OutputPath())
	assert.NoFileExists(t, filepath.Join(s.OutDir(), "omim.ttl"))

	assert.Contains(t, arch.objects, "20240115/rdf/omim.nt")
	assert.NotContains(t, arch.objects, "20240115/rdf/omim.ttl")
	assert.Equal(t, "application/n-triples", arch.types["20240115/rdf/omim.nt"])
}

func TestDatasetConfigPassthrough(t *testing.T) {
	s := newTestSource(t, Config{Name: "omim", Dataset: dataset.Config{IngestTitle: "OMIM", ReleaseVersion: "20231201"}})
	assert.Equal(t, "20231201", s.Dataset().ReleaseVersion())
	assert.Equal(t, "OMIM", s.Dataset().Config().IngestTitle)
}
