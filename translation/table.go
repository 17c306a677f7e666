// Package translation maps source vocabulary onto canonical ontology terms.
//
// Each ingest source owns a local table (source label -> canonical label) and
// shares the global table (canonical label -> term CURIE). Tables are built
// once and never mutated, so a Table may be shared freely between goroutines.
package translation

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed globaltt.yaml
var globalYAML []byte

// Conflict records canonical labels that more than one local key maps to.
// Such a local table cannot be inverted without losing entries.
type Conflict struct {
	Label string   `json:"label"`
	Keys  []string `json:"keys"`
}

// Table is an immutable pair of translation mappings.
type Table struct {
	local     map[string]string
	global    map[string]string
	inverse   map[string]string
	conflicts []Conflict
}

// NewTable copies local and global and derives the inverse of local.
// When several keys share a canonical label the lexically greatest key
// wins in the inverse and the clash is reported by Conflicts.
func NewTable(local, global map[string]string) *Table {
	t := &Table{
		local:   copyMap(local),
		global:  copyMap(global),
		inverse: make(map[string]string, len(local)),
	}

	keys := make([]string, 0, len(t.local))
	for k := range t.local {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	byLabel := make(map[string][]string)
	for _, k := range keys {
		label := t.local[k]
		t.inverse[label] = k
		byLabel[label] = append(byLabel[label], k)
	}

	labels := make([]string, 0, len(byLabel))
	for label, ks := range byLabel {
		if len(ks) > 1 {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	for _, label := range labels {
		t.conflicts = append(t.conflicts, Conflict{Label: label, Keys: byLabel[label]})
	}
	return t
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Local returns the canonical label for a source label.
func (t *Table) Local(word string) (string, bool) {
	v, ok := t.local[word]
	return v, ok
}

// Global returns the term id for a canonical label.
func (t *Table) Global(label string) (string, bool) {
	v, ok := t.global[label]
	return v, ok
}

// Inverse returns the source label that maps onto a canonical label.
func (t *Table) Inverse(label string) (string, bool) {
	v, ok := t.inverse[label]
	return v, ok
}

// Conflicts returns the non-invertible entries of the local table.
func (t *Table) Conflicts() []Conflict {
	out := make([]Conflict, len(t.conflicts))
	copy(out, t.conflicts)
	return out
}

// Sizes returns the number of local and global entries.
func (t *Table) Sizes() (local, global int) {
	return len(t.local), len(t.global)
}

// DefaultGlobal returns the embedded global table.
func DefaultGlobal() map[string]string {
	m, err := parseMapping(globalYAML)
	if err != nil {
		panic("embedded global translation table is invalid: " + err.Error())
	}
	return m
}

// LoadMapping reads a flat YAML mapping of string to string.
func LoadMapping(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read translation table %s: %w", path, err)
	}
	m, err := parseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("translation table %s: %w", path, err)
	}
	return m, nil
}

func parseMapping(data []byte) (map[string]string, error) {
	m := make(map[string]string)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	return m, nil
}

// LoadTable builds a Table from a global and a local file.
// An empty globalPath selects the embedded global table.
func LoadTable(globalPath, localPath string) (*Table, error) {
	var global map[string]string
	if globalPath == "" {
		global = DefaultGlobal()
	} else {
		var err error
		if global, err = LoadMapping(globalPath); err != nil {
			return nil, err
		}
	}

	local, err := LoadMapping(localPath)
	if err != nil {
		return nil, err
	}
	return NewTable(local, global), nil
}

// LoadLocalOrStub loads dir/<name>.yaml. A missing file is created holding
// the identity entry {name: name} so that every source has a table to edit.
func LoadLocalOrStub(dir, name string, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path := filepath.Join(dir, name+".yaml")

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		data, err := yaml.Marshal(map[string]string{name: name})
		if err != nil {
			return nil, fmt.Errorf("marshal stub table: %w", err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create translation table dir: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write stub table: %w", err)
		}
		logger.Info("Wrote stub local translation table", "source", name, "path", path)
	} else if err != nil {
		return nil, fmt.Errorf("stat translation table: %w", err)
	}

	return LoadMapping(path)
}
