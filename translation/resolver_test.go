package translation_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/c360studio/semingest/translation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestResolve(t *testing.T) {
	table := translation.NewTable(
		map[string]string{"gene": "Gene", "foo": "Bar"},
		map[string]string{"Gene": "biolink:Gene", "Disease": "biolink:Disease"},
	)
	r := translation.NewResolver(table)

	tests := []struct {
		name      string
		word      string
		mandatory bool
		want      string
		wantErr   error
	}{
		{"local then global", "gene", true, "biolink:Gene", nil},
		{"local only", "foo", true, "Bar", nil},
		{"global direct", "Disease", true, "biolink:Disease", nil},
		{"missing mandatory", "X", true, "", translation.ErrMappingRequired},
		{"missing optional", "X", false, "X", nil},
		{"empty word", "", false, "", translation.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.word, tt.mandatory)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_MappingRequiredCarriesWord(t *testing.T) {
	r := translation.NewResolver(translation.NewTable(nil, nil))

	_, err := r.Resolve("mystery", true)
	var mre *translation.MappingRequiredError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "mystery", mre.Word)
}

func TestResolve_Diagnostics(t *testing.T) {
	logger, buf := bufferLogger()
	table := translation.NewTable(map[string]string{"foo": "Bar"}, nil)
	r := translation.NewResolver(table, translation.WithLogger(logger), translation.WithSource("omim"))

	_, err := r.Resolve("foo", true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no global term id")
	assert.Contains(t, buf.String(), "source=omim")

	buf.Reset()
	_, err = r.Resolve("other", false)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestResolve_Observer(t *testing.T) {
	var got []translation.Outcome
	table := translation.NewTable(
		map[string]string{"gene": "Gene", "foo": "Bar"},
		map[string]string{"Gene": "biolink:Gene"},
	)
	r := translation.NewResolver(table, translation.WithObserver(func(_ string, o translation.Outcome) {
		got = append(got, o)
	}))

	_, _ = r.Resolve("gene", true)
	_, _ = r.Resolve("foo", true)
	_, _ = r.Resolve("Gene", true)
	_, _ = r.Resolve("zzz", false)
	_, _ = r.Resolve("zzz", true)

	assert.Equal(t, []translation.Outcome{
		translation.OutcomeLocalGlobal,
		translation.OutcomeLocalOnly,
		translation.OutcomeGlobal,
		translation.OutcomePassthrough,
		translation.OutcomeMissing,
	}, got)
}

func TestTermAndInverse(t *testing.T) {
	table := translation.NewTable(
		map[string]string{"phenotype": "Phenotype"},
		translation.DefaultGlobal(),
	)
	r := translation.NewResolver(table)

	term, err := r.Term("has_phenotype")
	require.NoError(t, err)
	assert.Equal(t, "RO:0002200", term)

	_, err = r.Term("phenotype")
	assert.ErrorIs(t, err, translation.ErrMappingRequired)

	assert.Equal(t, "phenotype", r.Inverse("Phenotype"))
	assert.Equal(t, "Unmapped", r.Inverse("Unmapped"))
}

func TestMustResolve_Panics(t *testing.T) {
	r := translation.NewResolver(translation.NewTable(nil, nil))
	assert.Panics(t, func() { r.MustResolve("nothing") })
}
