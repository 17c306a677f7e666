package omim

import (
	"strings"

	"github.com/c360studio/semingest/identifier"
)

// Type labels in the global translation table.
const (
	LabelGene            = "gene"
	LabelPhenotype       = "Phenotype"
	LabelHeritableMarker = "heritable_phenotypic_marker"
	LabelObsolete        = "obsolete"
	LabelAffectedFeature = "has_affected_feature"
	LabelSequenceFeature = "sequence_feature"
	LabelCausesCondition = "causes condition"
	LabelIsMarkerFor     = "is marker for"
	LabelContributesTo   = "contributes to"
)

var entryTypes = map[string]string{
	"gene":                     LabelGene,
	"phenotype":                LabelPhenotype,
	"predominantly phenotypes": LabelHeritableMarker,
	"moved/removed":            LabelObsolete,
	"gene/phenotype":           LabelAffectedFeature,
}

// EntryTypeLabel maps a mim2gene entry type to its translation label.
// Unknown types come back unchanged with ok false so callers can log them
// and carry on with the raw value as a placeholder.
func EntryTypeLabel(mimType string) (label string, ok bool) {
	if l, ok := entryTypes[strings.TrimSpace(mimType)]; ok {
		return l, true
	}
	return mimType, false
}

// PrefixTypeLabel maps the entry prefix symbol of the API and mimTitles to a
// type label. Only gene ("*", "+") and phenotypic locus ("%") prefixes type
// an entry; "#" entries are descriptive, "^" ones are handled through the
// entry status, and both report ok false.
func PrefixTypeLabel(prefix string) (label string, ok bool) {
	switch strings.TrimSpace(prefix) {
	case "*", "+", "Asterisk", "Plus":
		return LabelGene, true
	case "%", "Percent":
		return LabelHeritableMarker, true
	}
	return "", false
}

// Entry statuses of the API.
const (
	StatusLive    = "live"
	StatusRemoved = "removed"
	StatusMoved   = "moved"
)

// SplitTitle separates a preferred title into its label and the
// abbreviation after the first ";", if any.
func SplitTitle(title string) (label, abbrev string) {
	label, rest, _ := strings.Cut(title, ";")
	abbrev, _, _ = strings.Cut(rest, ";")
	return strings.TrimSpace(label), strings.TrimSpace(abbrev)
}

// MovedTo lists the entries a moved entry points at. OMIM joins several
// numbers with "and" or commas.
func MovedTo(raw string) []string {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	fields := strings.FieldsFunc(strings.ReplaceAll(raw, "and", ","), func(r rune) bool {
		return r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, CURIE(f))
		}
	}
	return out
}

// CURIE prefixes an OMIM number.
func CURIE(num string) string {
	return "OMIM:" + strings.TrimSpace(num)
}

// AnonymousFeature names the unknown feature behind a disorder that has no
// mapped gene.
func AnonymousFeature(num string) string {
	return identifier.Anonymous("feature", strings.TrimSpace(num))
}

// CleanIDs drops any CURIE prefix from ids, keeping the part after the
// last colon. dirty counts the ids that had one.
func CleanIDs(ids []string) (clean []string, dirty int) {
	clean = make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if i := strings.LastIndexByte(id, ':'); i >= 0 {
			id = id[i+1:]
			dirty++
		}
		clean = append(clean, id)
	}
	return clean, dirty
}
