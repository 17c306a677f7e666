package identifier_test

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"testing"

	"github.com/c360studio/semingest/identifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hashPattern = regexp.MustCompile(`^b[0-9a-f]{19}$`)

func TestHashID_Shape(t *testing.T) {
	inputs := []string{"", "a", "OMIM:104000", "omim+NCBIGene:1234+RO:0002200+OMIM:567800", "ünïcødé"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got := identifier.HashID(in)
			assert.Len(t, got, 20)
			assert.Regexp(t, hashPattern, got)
		})
	}
}

func TestHashID_MatchesDigestSlice(t *testing.T) {
	sum := sha1.Sum([]byte("hello"))
	digest := hex.EncodeToString(sum[:])
	assert.Equal(t, "b"+digest[1:20], identifier.HashID("hello"))
}

func TestHashID_Deterministic(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := fmt.Sprintf("record-%d", i)
		assert.Equal(t, identifier.HashID(s), identifier.HashID(s))
	}
}

func TestHashID_NoCollisionsInCorpus(t *testing.T) {
	seen := make(map[string]string)
	for i := 0; i < 5000; i++ {
		s := fmt.Sprintf("OMIM:%06d", i)
		h := identifier.HashID(s)
		if prev, ok := seen[h]; ok {
			t.Fatalf("collision between %q and %q", prev, s)
		}
		seen[h] = s
	}
}

func TestMakeID(t *testing.T) {
	tests := []struct {
		name   string
		prefix []string
		want   string
	}{
		{"default prefix", nil, "MONARCH:"},
		{"explicit prefix", []string{"MGI"}, "MGI:"},
		{"empty prefix falls back", []string{""}, "MONARCH:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := identifier.MakeID("x", tt.prefix...)
			assert.Equal(t, tt.want+identifier.HashID("x"), got)
		})
	}
}

func TestAnonymous(t *testing.T) {
	a := identifier.Anonymous("feature", "158900")
	b := identifier.Anonymous("feature", "158900")
	c := identifier.Anonymous("feature", "158901")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, identifier.IsBlank(a))
	assert.Regexp(t, `^_:featureb[0-9a-f]{19}$`, a)
}

func TestSkolemize(t *testing.T) {
	assert.Equal(t, "MONARCH:featureb1", identifier.Skolemize("_:featureb1", ""))
	assert.Equal(t, "X:abc", identifier.Skolemize("_:abc", "X"))
	assert.Equal(t, "OMIM:1", identifier.Skolemize("OMIM:1", "X"))
}

func TestSplitCURIE(t *testing.T) {
	prefix, local, ok := identifier.SplitCURIE("MonarchArchive:20240101/#omim")
	require.True(t, ok)
	assert.Equal(t, "MonarchArchive", prefix)
	assert.Equal(t, "20240101/#omim", local)

	_, _, ok = identifier.SplitCURIE("_:b1")
	assert.False(t, ok)
	_, _, ok = identifier.SplitCURIE("https://omim.org")
	assert.False(t, ok)
	_, _, ok = identifier.SplitCURIE("nocolon")
	assert.False(t, ok)

	prefix, local, ok = identifier.SplitCURIE(":publisher")
	require.True(t, ok)
	assert.Equal(t, "", prefix)
	assert.Equal(t, "publisher", local)
}
