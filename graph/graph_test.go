package graph_test

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/c360studio/semingest/curie"
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semstreams/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/formats/rdf"
)

func TestMemoryGraph_Dedup(t *testing.T) {
	g := graph.NewMemoryGraph()

	require.NoError(t, g.AddTriple("OMIM:1", "rdfs:label", graph.Text("x")))
	require.NoError(t, g.AddTriple("OMIM:1", "rdfs:label", graph.Text("x")))
	require.NoError(t, g.AddType("OMIM:1", "SO:0000704"))
	require.NoError(t, g.AddType("OMIM:1", "SO:0000704"))

	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Has("OMIM:1", graph.RDFType, "SO:0000704"))
}

func TestMemoryGraph_NodeAndLiteralDiffer(t *testing.T) {
	g := graph.NewMemoryGraph()
	require.NoError(t, g.AddTriple("a:1", "p:1", "b:2"))
	require.NoError(t, g.AddTriple("a:1", "p:1", graph.Text("b:2")))
	assert.Equal(t, 2, g.Len())
}

func TestMemoryGraph_Query(t *testing.T) {
	g := graph.NewMemoryGraph(graph.WithSource("omim"))
	require.NoError(t, g.AddTriple("a:1", "p:1", "b:1"))
	require.NoError(t, g.AddTriple("a:1", "p:2", "b:2"))
	require.NoError(t, g.AddTriple("a:2", "p:1", "b:1"))

	tests := []struct {
		name    string
		pattern graph.Pattern
		want    int
	}{
		{"all", graph.Pattern{}, 3},
		{"by subject", graph.Pattern{Subject: "a:1"}, 2},
		{"by predicate", graph.Pattern{Predicate: "p:1"}, 2},
		{"by object", graph.Pattern{Object: "b:2"}, 1},
		{"no match", graph.Pattern{Subject: "zz:1"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Query(tt.pattern)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			for _, tr := range got {
				assert.Equal(t, "omim", tr.Source)
			}
		})
	}
}

func TestMemoryGraph_InvalidTriples(t *testing.T) {
	g := graph.NewMemoryGraph()
	assert.ErrorIs(t, g.AddTriple("", "p:1", "o:1"), graph.ErrInvalidTriple)
	assert.ErrorIs(t, g.AddTriple("s:1", "", "o:1"), graph.ErrInvalidTriple)
	assert.ErrorIs(t, g.AddTriple("s:1", "p:1", nil), graph.ErrInvalidTriple)
	assert.ErrorIs(t, g.AddTriple("s:1", "p:1", ""), graph.ErrInvalidTriple)
	assert.ErrorIs(t, g.AddTriple("s:1", "p:1", struct{}{}), graph.ErrInvalidTriple)
	assert.Zero(t, g.Len())
}

func TestMemoryGraph_Skolemize(t *testing.T) {
	g := graph.NewMemoryGraph(graph.WithSkolemize("MONARCH"))
	require.NoError(t, g.AddTriple("_:feature1", "p:1", "_:feature2"))

	ts := g.Triples()
	require.Len(t, ts, 1)
	assert.Equal(t, "MONARCH:feature1", ts[0].Subject)
	assert.Equal(t, "MONARCH:feature2", ts[0].Object)
}

func TestMemoryGraph_HookAndClock(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var seen []message.Triple
	g := graph.NewMemoryGraph(
		graph.WithClock(func() time.Time { return fixed }),
		graph.WithAddHook(func(t message.Triple) { seen = append(seen, t) }),
	)
	require.NoError(t, g.AddTriple("a:1", "p:1", "b:1"))
	require.NoError(t, g.AddTriple("a:1", "p:1", "b:1"))

	require.Len(t, seen, 1)
	assert.Equal(t, fixed, seen[0].Timestamp)
}

func TestMemoryGraph_BySubject(t *testing.T) {
	g := graph.NewMemoryGraph()
	require.NoError(t, g.AddTriple("b:1", "p:1", "x:1"))
	require.NoError(t, g.AddTriple("a:1", "p:1", "x:1"))
	require.NoError(t, g.AddTriple("b:1", "p:2", "x:2"))

	subjects, groups := g.BySubject()
	assert.Equal(t, []string{"b:1", "a:1"}, subjects)
	assert.Len(t, groups["b:1"], 2)
}

func decodeAll(t *testing.T, r io.Reader) []*rdf.Statement {
	t.Helper()
	dec := rdf.NewDecoder(r)
	var out []*rdf.Statement
	for {
		s, err := dec.Unmarshal()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, s)
	}
}

func TestStreamedGraph_WritesEachTripleOnce(t *testing.T) {
	var buf bytes.Buffer
	g := graph.NewStreamedGraph(&buf, curie.Default())

	require.NoError(t, g.AddType("OMIM:100100", "SO:0000704"))
	require.NoError(t, g.AddType("OMIM:100100", "SO:0000704"))
	require.NoError(t, g.AddTriple("OMIM:100100", "rdfs:label", graph.Text(`say "hi"`)))
	require.NoError(t, g.AddTriple("_:feature1", "dcterms:created", graph.Literal{Value: "2024-01-01", Datatype: graph.XSDDate}))
	require.NoError(t, g.Flush())

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))

	stmts := decodeAll(t, &buf)
	require.Len(t, stmts, 3)
	assert.Equal(t, "<https://omim.org/entry/100100>", stmts[0].Subject.Value)
	assert.Equal(t, "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>", stmts[0].Predicate.Value)
	assert.Equal(t, "<http://purl.obolibrary.org/obo/SO_0000704>", stmts[0].Object.Value)
	assert.Equal(t, `"2024-01-01"^^<http://www.w3.org/2001/XMLSchema#date>`, stmts[2].Object.Value)
}

func TestStreamedGraph_QueryUnsupported(t *testing.T) {
	g := graph.NewStreamedGraph(io.Discard, curie.Default())
	_, err := g.Query(graph.Pattern{})
	assert.ErrorIs(t, err, graph.ErrQueryUnsupported)
}

func TestStreamedGraph_UnknownPrefix(t *testing.T) {
	g := graph.NewStreamedGraph(io.Discard, curie.Default())
	err := g.AddTriple("nope:1", "rdfs:label", graph.Text("x"))
	assert.ErrorIs(t, err, curie.ErrUnknownPrefix)
	assert.Zero(t, g.Len())
}

func TestGraphVariantsShareInterface(t *testing.T) {
	for _, g := range []graph.Graph{
		graph.NewMemoryGraph(),
		graph.NewStreamedGraph(io.Discard, curie.Default()),
	} {
		require.NoError(t, g.AddType("OMIM:1", "SO:0000704"))
		assert.Equal(t, 1, g.Len())
	}
}

func TestEncoder_TypedLiterals(t *testing.T) {
	enc := graph.NewEncoder(curie.Default())

	tests := []struct {
		in   any
		want string
	}{
		{42, `"42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{true, `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`},
		{1.5, `"1.5"^^<http://www.w3.org/2001/XMLSchema#decimal>`},
		{graph.Text("a\nb"), `"a\nb"`},
		{"_:b1", "_:b1"},
	}
	for _, tt := range tests {
		got, err := enc.Object(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Value)
	}
}
