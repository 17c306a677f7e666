package translation

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Report lists the invertibility problems of one local table file.
type Report struct {
	Path      string     `json:"path"`
	Entries   int        `json:"entries"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
	Missing   []string   `json:"missing,omitempty"`
}

// OK reports whether the table is clean.
func (r Report) OK() bool {
	return len(r.Conflicts) == 0
}

// FindTables expands glob patterns (with ** support) into a sorted,
// de-duplicated list of YAML files.
func FindTables(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Clean(pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			ext := filepath.Ext(m)
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Lint checks each local table in paths for non-invertible entries and for
// canonical labels the global table does not define.
func Lint(paths []string, global map[string]string) ([]Report, error) {
	reports := make([]Report, 0, len(paths))
	for _, path := range paths {
		local, err := LoadMapping(path)
		if err != nil {
			return nil, err
		}
		t := NewTable(local, global)

		r := Report{Path: path, Entries: len(local), Conflicts: t.Conflicts()}
		labels := make(map[string]bool)
		for _, label := range local {
			if _, ok := t.Global(label); !ok {
				labels[label] = true
			}
		}
		for label := range labels {
			r.Missing = append(r.Missing, label)
		}
		sort.Strings(r.Missing)
		reports = append(reports, r)
	}
	return reports, nil
}
