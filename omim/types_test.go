package omim_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/semingest/omim"
)

func TestEntryTypeLabel(t *testing.T) {
	tests := []struct {
		mimType string
		want    string
		ok      bool
	}{
		{"gene", "gene", true},
		{"phenotype", "Phenotype", true},
		{"predominantly phenotypes", "heritable_phenotypic_marker", true},
		{"moved/removed", "obsolete", true},
		{"gene/phenotype", "has_affected_feature", true},
		{" gene ", "gene", true},
		{"pseudogene", "pseudogene", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimType, func(t *testing.T) {
			got, ok := omim.EntryTypeLabel(tt.mimType)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestPrefixTypeLabel(t *testing.T) {
	for prefix, want := range map[string]string{
		"*": omim.LabelGene,
		"+": omim.LabelGene,
		"%": omim.LabelHeritableMarker,
	} {
		got, ok := omim.PrefixTypeLabel(prefix)
		assert.True(t, ok, prefix)
		assert.Equal(t, want, got, prefix)
	}

	for _, prefix := range []string{"", "#", "^"} {
		_, ok := omim.PrefixTypeLabel(prefix)
		assert.False(t, ok, prefix)
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		title, label, abbrev string
	}{
		{"PRUNE BELLY SYNDROME; PBS", "PRUNE BELLY SYNDROME", "PBS"},
		{"ABDUCENS PALSY", "ABDUCENS PALSY", ""},
		{"ALPHA-2-MACROGLOBULIN; A2M;; EXTRA", "ALPHA-2-MACROGLOBULIN", "A2M"},
	}
	for _, tt := range tests {
		label, abbrev := omim.SplitTitle(tt.title)
		assert.Equal(t, tt.label, label)
		assert.Equal(t, tt.abbrev, abbrev)
	}
}

func TestMovedTo(t *testing.T) {
	assert.Equal(t, []string{"OMIM:603075", "OMIM:603029"}, omim.MovedTo(`"603075 and 603029"`))
	assert.Equal(t, []string{"OMIM:609122", "OMIM:300870"}, omim.MovedTo(`"609122,300870"`))
	assert.Equal(t, []string{"OMIM:100050"}, omim.MovedTo(`100050`))
	assert.Empty(t, omim.MovedTo(`null`))
	assert.Empty(t, omim.MovedTo(""))
}

func TestCleanIDs(t *testing.T) {
	clean, dirty := omim.CleanIDs([]string{"OMIM:100100", "100200", " MIM:OMIM:300 "})
	assert.Equal(t, []string{"100100", "100200", "300"}, clean)
	assert.Equal(t, 2, dirty)
}

func TestAnonymousFeature(t *testing.T) {
	a := omim.AnonymousFeature("158900")
	assert.True(t, strings.HasPrefix(a, "_:feature"))
	assert.Equal(t, a, omim.AnonymousFeature(" 158900"))
	assert.NotEqual(t, a, omim.AnonymousFeature("158901"))
}

func TestFiles(t *testing.T) {
	files := omim.Files("s3cret")
	byKey := map[string]int{}
	for i, f := range files {
		byKey[f.Key] = i
	}
	assert.Len(t, byKey, 4)

	morbid := files[byKey[omim.FileMorbidmap]]
	assert.Contains(t, morbid.URL, "s3cret")
	assert.NotContains(t, morbid.AccessURL(), "s3cret")
	assert.Equal(t, omim.MorbidmapColumns, morbid.Columns)

	m2g := files[byKey[omim.FileMim2Gene]]
	assert.Equal(t, m2g.URL, m2g.AccessURL())
}

func TestNewFetcher(t *testing.T) {
	f := omim.NewFetcher("s3cret")
	assert.Equal(t, omim.APIURL, f.Endpoint)
	assert.Equal(t, "mimNumber", f.IDParam)
	assert.Equal(t, 20, f.BatchSize)
	assert.Equal(t, "s3cret", f.Params.Get("apiKey"))
	assert.Equal(t, "json", f.Params.Get("format"))
}
