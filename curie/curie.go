// Package curie maps CURIE prefixes to namespace IRIs.
package curie

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/c360studio/semingest/identifier"
	"gopkg.in/yaml.v3"
)

//go:embed curie_map.yaml
var defaultMapYAML []byte

// Prefixes the dataset model depends on.
const (
	PublisherPrefix = ""
	ArchivePrefix   = "MonarchArchive"
	LogoPrefix      = "MonarchLogoRepo"
)

// ErrUnknownPrefix is returned when a CURIE uses a prefix that is not mapped.
var ErrUnknownPrefix = errors.New("unknown curie prefix")

// Map is an immutable prefix -> namespace mapping.
type Map struct {
	bases map[string]string
}

// New builds a Map from a copy of m.
func New(m map[string]string) Map {
	bases := make(map[string]string, len(m))
	for k, v := range m {
		bases[k] = v
	}
	return Map{bases: bases}
}

// Default returns the embedded curie map.
func Default() Map {
	m, err := parse(defaultMapYAML)
	if err != nil {
		panic("embedded curie map is invalid: " + err.Error())
	}
	return m
}

// Load reads a YAML curie map from path.
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("read curie map: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Map, error) {
	raw := make(map[string]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Map{}, fmt.Errorf("parse curie map: %w", err)
	}
	return New(raw), nil
}

// Base returns the namespace for prefix.
func (m Map) Base(prefix string) (string, bool) {
	base, ok := m.bases[prefix]
	return base, ok
}

// Prefixes returns the mapped prefixes in sorted order.
func (m Map) Prefixes() []string {
	out := make([]string, 0, len(m.bases))
	for k := range m.bases {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Expand turns a CURIE into a full IRI. Absolute IRIs pass through.
func (m Map) Expand(id string) (string, error) {
	if strings.Contains(id, "://") {
		return id, nil
	}
	prefix, local, ok := identifier.SplitCURIE(id)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a curie", ErrUnknownPrefix, id)
	}
	base, ok := m.bases[prefix]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrefix, prefix)
	}
	return base + local, nil
}

// Contract shortens an IRI to a CURIE using the longest matching namespace.
// IRIs with no matching namespace are returned unchanged.
func (m Map) Contract(iri string) string {
	bestPrefix, bestBase := "", ""
	found := false
	for prefix, base := range m.bases {
		if base == "" || !strings.HasPrefix(iri, base) {
			continue
		}
		if len(base) > len(bestBase) || (len(base) == len(bestBase) && prefix < bestPrefix) {
			bestPrefix, bestBase, found = prefix, base, true
		}
	}
	if !found {
		return iri
	}
	return bestPrefix + ":" + strings.TrimPrefix(iri, bestBase)
}
