package graph

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/c360studio/semingest/curie"
	"github.com/c360studio/semstreams/message"
)

// StreamedGraph writes each distinct triple as one N-Triples line.
// Triples are not retained, so Query is unsupported.
type StreamedGraph struct {
	opts    options
	encoder Encoder

	mu   sync.Mutex
	w    *bufio.Writer
	seen map[tripleKey]struct{}
}

// NewStreamedGraph streams to w, expanding CURIEs with m.
// Call Flush when the ingest finishes.
func NewStreamedGraph(w io.Writer, m curie.Map, opts ...Option) *StreamedGraph {
	return &StreamedGraph{
		opts:    newOptions(opts),
		encoder: NewEncoder(m),
		w:       bufio.NewWriter(w),
		seen:    make(map[tripleKey]struct{}),
	}
}

// AddTriple implements Graph.
func (g *StreamedGraph) AddTriple(subject, predicate string, object any) error {
	t, err := g.opts.build(subject, predicate, object)
	if err != nil {
		return err
	}
	stmt, err := g.encoder.Statement(t)
	if err != nil {
		return err
	}

	k := keyOf(t)
	g.mu.Lock()
	if _, dup := g.seen[k]; dup {
		g.mu.Unlock()
		return nil
	}
	_, err = fmt.Fprintln(g.w, stmt.String())
	if err == nil {
		g.seen[k] = struct{}{}
	}
	g.mu.Unlock()
	if err != nil {
		return fmt.Errorf("write triple: %w", err)
	}

	if g.opts.hook != nil {
		g.opts.hook(t)
	}
	return nil
}

// AddType implements Graph.
func (g *StreamedGraph) AddType(subject, class string) error {
	return g.AddTriple(subject, RDFType, class)
}

// Query implements Graph.
func (g *StreamedGraph) Query(Pattern) ([]message.Triple, error) {
	return nil, ErrQueryUnsupported
}

// Len implements Graph.
func (g *StreamedGraph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

// Flush writes any buffered output.
func (g *StreamedGraph) Flush() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.w.Flush()
}
