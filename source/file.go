// Package source holds what every ingest shares: its upstream files, the
// graphs it writes, its dataset description and the HTTP plumbing used to
// pull data from remote APIs.
package source

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrHeaderMismatch is returned when an upstream file's columns differ from
// the layout a parser was written against.
var ErrHeaderMismatch = errors.New("header mismatch")

// File describes one upstream file.
type File struct {
	// Key is the name parsers use to find the file.
	Key string `yaml:"key" json:"key"`

	// File is the local file name below the raw directory.
	File string `yaml:"file" json:"file"`

	// URL is where the file is fetched from. It may embed credentials.
	URL string `yaml:"url" json:"url"`

	// Clean is a credential-free URL stated in metadata instead of URL.
	Clean string `yaml:"clean,omitempty" json:"clean,omitempty"`

	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`

	// Columns is the expected header row.
	Columns []string `yaml:"columns,omitempty" json:"columns,omitempty"`
}

// AccessURL returns the URL safe to publish.
func (f File) AccessURL() string {
	if f.Clean != "" {
		return f.Clean
	}
	return f.URL
}

// HeaderMismatchError lists where the found header diverges.
type HeaderMismatchError struct {
	File     string
	Expected []string
	Found    []string
	Missing  []string
	Extra    []string
}

func (e *HeaderMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: header mismatch", e.File)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "; missing %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		fmt.Fprintf(&b, "; unexpected %s", strings.Join(e.Extra, ", "))
	}
	if len(e.Missing) == 0 && len(e.Extra) == 0 {
		b.WriteString("; columns reordered")
	}
	return b.String()
}

// Is lets errors.Is match ErrHeaderMismatch.
func (e *HeaderMismatchError) Is(target error) bool {
	return target == ErrHeaderMismatch
}

// CheckHeader compares a found header row with the expected one. Order
// matters: parsers index columns by position.
func CheckHeader(file string, expected, found []string) error {
	if slices.Equal(expected, found) {
		return nil
	}
	e := &HeaderMismatchError{File: file, Expected: expected, Found: found}
	for _, col := range expected {
		if !slices.Contains(found, col) {
			e.Missing = append(e.Missing, col)
		}
	}
	for _, col := range found {
		if !slices.Contains(expected, col) {
			e.Extra = append(e.Extra, col)
		}
	}
	return e
}

// ParseHeader splits a tab separated header line, dropping a leading
// comment marker ("# ") and surrounding whitespace from each column.
func ParseHeader(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	line = strings.TrimPrefix(line, "#")
	cols := strings.Split(line, "\t")
	for i, c := range cols {
		cols[i] = strings.TrimSpace(c)
	}
	return cols
}
