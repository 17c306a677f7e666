package association_test

import (
	"testing"

	"github.com/c360studio/semingest/association"
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/vocabulary/oban"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestG2P_DefaultRelationship(t *testing.T) {
	g := graph.NewMemoryGraph()
	a, err := association.NewG2P(g, newResolver(), "omim", "NCBIGene:1234", "OMIM:567800", "")
	require.NoError(t, err)

	assert.Equal(t, oban.HasPhenotype.CURIE, a.Relationship())
	assert.Equal(t, association.Qualifiers{}, a.Qualifiers())
	assert.Equal(t, "MONARCH:bbe239fe927b39109f21", a.ID())
}

func TestG2P_EndToEnd(t *testing.T) {
	g := graph.NewMemoryGraph()
	a, err := association.NewG2P(g, newResolver(), "omim", "NCBIGene:1234", "OMIM:567800", "")
	require.NoError(t, err)

	want := association.MakeAssociationID("omim", "NCBIGene:1234", "RO:0002200", "OMIM:567800", "", "", "")
	require.NoError(t, a.AddAssociationToGraph())

	assert.Equal(t, want, a.ID())
	assert.True(t, g.Has("NCBIGene:1234", "RO:0002200", "OMIM:567800"))
	assert.True(t, g.Has(want, graph.RDFType, oban.Association.CURIE))
	assert.Empty(t, g.Objects(want, oban.BeginStage.CURIE))
	assert.Empty(t, g.Objects(want, oban.EndStage.CURIE))
	assert.Empty(t, g.Objects(want, oban.Environment.CURIE))
}

func TestG2P_BlankQualifiersIgnored(t *testing.T) {
	g := graph.NewMemoryGraph()
	a, err := association.NewG2P(g, newResolver(), "zfin", "G:1", "P:1", "")
	require.NoError(t, err)

	a.SetStage("ZFS:1", "")
	a.SetStage(" ", "ZFS:9")
	a.SetEnvironment("")
	assert.Equal(t, association.Qualifiers{StartStage: "ZFS:1", EndStage: "ZFS:9"}, a.Qualifiers())
}

func TestG2P_QualifiersChangeIDAndEmitTriples(t *testing.T) {
	g := graph.NewMemoryGraph()
	r := newResolver()

	plain, err := association.NewG2P(g, r, "zfin", "G:1", "P:1", "")
	require.NoError(t, err)

	q, err := association.NewG2P(g, r, "zfin", "G:1", "P:1", "")
	require.NoError(t, err)
	q.SetEnvironment("ZECO:1")
	q.SetStage("ZFS:1", "ZFS:2")

	assert.NotEqual(t, plain.ID(), q.ID())
	assert.Equal(t,
		association.MakeAssociationID("zfin", "G:1", "RO:0002200", "P:1", "ZECO:1", "ZFS:1", "ZFS:2"),
		q.ID())

	require.NoError(t, q.AddAssociationToGraph())
	id := q.ID()
	assert.Equal(t, []any{"ZFS:1"}, g.Objects(id, oban.BeginStage.CURIE))
	assert.Equal(t, []any{"ZFS:2"}, g.Objects(id, oban.EndStage.CURIE))
	assert.Equal(t, []any{"ZECO:1"}, g.Objects(id, oban.Environment.CURIE))
}

func TestG2P_ExplicitRelationship(t *testing.T) {
	g := graph.NewMemoryGraph()
	a, err := association.NewG2P(g, newResolver(), "omim", "G:1", "P:1", oban.ContributesTo.CURIE)
	require.NoError(t, err)
	require.NoError(t, a.AddAssociationToGraph())
	assert.True(t, g.Has("G:1", oban.ContributesTo.CURIE, "P:1"))
}
