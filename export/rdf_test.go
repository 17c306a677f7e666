package export_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/c360studio/semingest/curie"
	"github.com/c360studio/semingest/export"
	"github.com/c360studio/semingest/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/formats/rdf"
)

func sampleGraph(t *testing.T) *graph.MemoryGraph {
	t.Helper()
	g := graph.NewMemoryGraph()
	require.NoError(t, g.AddType("OMIM:100100", "SO:0000704"))
	require.NoError(t, g.AddTriple("OMIM:100100", "rdfs:label", graph.Text("Gene A")))
	require.NoError(t, g.AddTriple("MonarchArchive:20240115/#omim", "dcterms:created",
		graph.Literal{Value: "20240115", Datatype: graph.XSDDate}))
	return g
}

func TestFormatForExtension(t *testing.T) {
	tests := []struct {
		in   string
		want export.Format
		ok   bool
	}{
		{"ttl", export.FormatTurtle, true},
		{".nt", export.FormatNTriples, true},
		{"out/omim.TTL", export.FormatTurtle, true},
		{"jsonld", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := export.FormatForExtension(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatRegistry(t *testing.T) {
	info, ok := export.GetFormatInfo(export.FormatTurtle)
	require.True(t, ok)
	assert.Equal(t, "https://www.w3.org/TR/turtle/", info.SpecURI)
	assert.Equal(t, []export.Format{export.FormatNTriples, export.FormatTurtle}, export.Formats())
}

func TestWrite_NTriplesRoundTrip(t *testing.T) {
	g := sampleGraph(t)
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, g.Triples(), export.FormatNTriples, curie.Default()))

	dec := rdf.NewDecoder(&buf)
	var stmts []*rdf.Statement
	for {
		s, err := dec.Unmarshal()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		stmts = append(stmts, s)
	}
	require.Len(t, stmts, 3)
	assert.Equal(t, "<https://omim.org/entry/100100>", stmts[0].Subject.Value)
	assert.Equal(t, "<http://purl.obolibrary.org/obo/SO_0000704>", stmts[0].Object.Value)
	assert.Equal(t, `"Gene A"`, stmts[1].Object.Value)
	assert.Equal(t, "<https://archive.monarchinitiative.org/20240115/#omim>", stmts[2].Subject.Value)
}

func TestWrite_TurtleGroupsBySubject(t *testing.T) {
	g := sampleGraph(t)
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, g.Triples(), export.FormatTurtle, curie.Default()))

	want := `@prefix OMIM: <https://omim.org/entry/> .
@prefix SO: <http://purl.obolibrary.org/obo/SO_> .
@prefix dcterms: <http://purl.org/dc/terms/> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

OMIM:100100
    a SO:0000704 ;
    rdfs:label "Gene A" .

<https://archive.monarchinitiative.org/20240115/#omim>
    dcterms:created "20240115"^^xsd:date .

`
	assert.Equal(t, want, buf.String())
}

func TestWrite_Errors(t *testing.T) {
	g := graph.NewMemoryGraph()
	require.NoError(t, g.AddTriple("NOPE:1", "rdfs:label", graph.Text("x")))

	var buf bytes.Buffer
	err := export.Write(&buf, g.Triples(), export.FormatTurtle, curie.Default())
	assert.ErrorIs(t, err, curie.ErrUnknownPrefix)

	err = export.Write(&buf, nil, export.Format("rdfxml"), curie.Default())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported format"))
}
