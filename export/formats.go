// Package export serializes graph triples to RDF documents.
package export

import (
	"path/filepath"
	"sort"
	"strings"
)

// Format names an RDF serialization.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// SpecURI identifies the format in dcterms:format statements.
	SpecURI string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		SpecURI:     "https://www.w3.org/TR/turtle/",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		SpecURI:     "https://www.w3.org/TR/n-triples/",
		Description: "N-Triples - Line-based RDF format",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// FormatForExtension maps a file name or bare extension ("ttl", ".nt",
// "out/omim.ttl") to its format.
func FormatForExtension(name string) (Format, bool) {
	ext := filepath.Ext(name)
	if ext == "" {
		ext = "." + name
	}
	ext = strings.ToLower(ext)
	for f, info := range FormatRegistry {
		if info.Extension == ext {
			return f, true
		}
	}
	return "", false
}

// Formats lists the registered formats in name order.
func Formats() []Format {
	out := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
