package graph

import (
	"sync"

	"github.com/c360studio/semstreams/message"
)

// MemoryGraph keeps triples in insertion order and answers queries.
type MemoryGraph struct {
	opts options

	mu      sync.RWMutex
	triples []message.Triple
	index   map[tripleKey]struct{}
}

// NewMemoryGraph creates an empty in-memory graph.
func NewMemoryGraph(opts ...Option) *MemoryGraph {
	return &MemoryGraph{
		opts:  newOptions(opts),
		index: make(map[tripleKey]struct{}),
	}
}

// AddTriple implements Graph.
func (g *MemoryGraph) AddTriple(subject, predicate string, object any) error {
	t, err := g.opts.build(subject, predicate, object)
	if err != nil {
		return err
	}

	k := keyOf(t)
	g.mu.Lock()
	if _, dup := g.index[k]; dup {
		g.mu.Unlock()
		return nil
	}
	g.index[k] = struct{}{}
	g.triples = append(g.triples, t)
	g.mu.Unlock()

	if g.opts.hook != nil {
		g.opts.hook(t)
	}
	return nil
}

// AddType implements Graph.
func (g *MemoryGraph) AddType(subject, class string) error {
	return g.AddTriple(subject, RDFType, class)
}

// Query implements Graph.
func (g *MemoryGraph) Query(p Pattern) ([]message.Triple, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []message.Triple
	for _, t := range g.triples {
		if p.matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Len implements Graph.
func (g *MemoryGraph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.triples)
}

// Triples returns a copy of every triple in insertion order.
func (g *MemoryGraph) Triples() []message.Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]message.Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Has reports whether the exact triple is present.
func (g *MemoryGraph) Has(subject, predicate string, object any) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.index[tripleKey{subject, predicate, ObjectKey(object)}]
	return ok
}

// Objects returns the objects of every triple with the given subject and
// predicate.
func (g *MemoryGraph) Objects(subject, predicate string) []any {
	ts, _ := g.Query(Pattern{Subject: subject, Predicate: predicate})
	out := make([]any, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Object)
	}
	return out
}

// BySubject groups triples by subject, keeping first-seen subject order.
func (g *MemoryGraph) BySubject() (subjects []string, groups map[string][]message.Triple) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	groups = make(map[string][]message.Triple)
	for _, t := range g.triples {
		if _, ok := groups[t.Subject]; !ok {
			subjects = append(subjects, t.Subject)
		}
		groups[t.Subject] = append(groups[t.Subject], t)
	}
	return subjects, groups
}
