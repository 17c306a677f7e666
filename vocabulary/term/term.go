// Package term indexes ingest vocabulary terms by CURIE.
//
// Ingest graphs name predicates by CURIE ("dcterms:title") while the
// semstreams predicate registry names them with dotted three-level notation
// ("hcls.dataset.title"). Define bridges the two: it registers the dotted
// predicate with its standard IRI and records the CURIE and translation
// label so either form can be looked up.
package term

import (
	"sort"
	"sync"

	"github.com/c360studio/semstreams/vocabulary"
)

// Term is one vocabulary entry.
type Term struct {
	// Predicate is the dotted semstreams predicate name.
	Predicate string
	// Label is the canonical label used as a global translation key.
	Label string
	// CURIE is the compact form written to ingest graphs.
	CURIE string
	// IRI is the expanded standard IRI.
	IRI string
}

var (
	mu      sync.RWMutex
	byCURIE = make(map[string]Term)
	byLabel = make(map[string]Term)
)

// Define registers t with the semstreams predicate registry and indexes it.
func Define(t Term, description, dataType string) Term {
	vocabulary.Register(t.Predicate,
		vocabulary.WithDescription(description),
		vocabulary.WithDataType(dataType),
		vocabulary.WithIRI(t.IRI))

	mu.Lock()
	defer mu.Unlock()
	byCURIE[t.CURIE] = t
	if t.Label != "" {
		byLabel[t.Label] = t
	}
	return t
}

// ByCURIE finds a term by its compact form.
func ByCURIE(curie string) (Term, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := byCURIE[curie]
	return t, ok
}

// ByLabel finds a term by its canonical label.
func ByLabel(label string) (Term, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := byLabel[label]
	return t, ok
}

// PredicateFor returns the dotted predicate for a CURIE, or the CURIE
// itself when no term is defined for it.
func PredicateFor(curie string) string {
	if t, ok := ByCURIE(curie); ok {
		return t.Predicate
	}
	return curie
}

// All returns every defined term ordered by CURIE.
func All() []Term {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Term, 0, len(byCURIE))
	for _, t := range byCURIE {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CURIE < out[j].CURIE })
	return out
}
