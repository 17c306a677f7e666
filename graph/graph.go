// Package graph holds the triples an ingest emits.
//
// Two Graph variants share one interface: MemoryGraph keeps every triple and
// answers queries, StreamedGraph writes N-Triples as triples arrive and keeps
// only enough state to suppress duplicates. Callers choose the variant when
// the ingest is constructed.
//
// Subjects and predicates are CURIEs, absolute IRIs or "_:" blank ids. A
// string object is a node reference; literal values are wrapped in Literal
// or given as Go numbers, booleans or time.Time.
package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semingest/identifier"
	"github.com/c360studio/semstreams/message"
)

var (
	// ErrInvalidTriple is returned for a triple with a missing part.
	ErrInvalidTriple = errors.New("invalid triple")

	// ErrQueryUnsupported is returned by graphs that do not retain triples.
	ErrQueryUnsupported = errors.New("query not supported by this graph")
)

// Well-known term CURIEs the graph layer needs directly.
const (
	RDFType     = "rdf:type"
	XSDDate     = "xsd:date"
	XSDDateTime = "xsd:dateTime"
	XSDInteger  = "xsd:integer"
	XSDDecimal  = "xsd:decimal"
	XSDBoolean  = "xsd:boolean"
)

// Literal is an RDF literal. Datatype is a CURIE or IRI; empty means a
// plain string.
type Literal struct {
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
}

// Text returns a plain string literal.
func Text(s string) Literal {
	return Literal{Value: s}
}

// Date returns an xsd:date literal for t.
func Date(t time.Time) Literal {
	return Literal{Value: t.Format("2006-01-02"), Datatype: XSDDate}
}

// Pattern selects triples. Empty fields match anything.
type Pattern struct {
	Subject   string
	Predicate string
	Object    any
}

// Graph is the capability set every ingest graph provides.
type Graph interface {
	// AddTriple adds one triple. Adding a triple already present is a no-op.
	AddTriple(subject, predicate string, object any) error
	// AddType adds subject rdf:type class.
	AddType(subject, class string) error
	// Query returns the triples matching p.
	Query(p Pattern) ([]message.Triple, error)
	// Len returns the number of distinct triples added.
	Len() int
}

// AddHook is called once for every distinct triple added to a graph.
type AddHook func(message.Triple)

// Option configures a graph.
type Option func(*options)

type options struct {
	source       string
	skolemPrefix string
	skolemize    bool
	clock        func() time.Time
	hook         AddHook
	logger       *slog.Logger
}

func newOptions(opts []Option) options {
	o := options{
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSource stamps the ingest source name on every triple.
func WithSource(name string) Option {
	return func(o *options) { o.source = name }
}

// WithSkolemize rewrites "_:" ids into CURIEs under prefix as they are added.
func WithSkolemize(prefix string) Option {
	return func(o *options) {
		o.skolemize = true
		o.skolemPrefix = prefix
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithAddHook registers a callback for each distinct triple.
func WithAddHook(h AddHook) Option {
	return func(o *options) { o.hook = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// build validates the parts and returns the triple as it will be stored.
func (o *options) build(subject, predicate string, object any) (message.Triple, error) {
	if subject == "" || predicate == "" {
		return message.Triple{}, fmt.Errorf("%w: subject=%q predicate=%q", ErrInvalidTriple, subject, predicate)
	}
	switch v := object.(type) {
	case nil:
		return message.Triple{}, fmt.Errorf("%w: nil object for %s %s", ErrInvalidTriple, subject, predicate)
	case string:
		if v == "" {
			return message.Triple{}, fmt.Errorf("%w: empty object for %s %s", ErrInvalidTriple, subject, predicate)
		}
		if o.skolemize {
			object = identifier.Skolemize(v, o.skolemPrefix)
		}
	case Literal, int, int64, float64, bool, time.Time:
	default:
		return message.Triple{}, fmt.Errorf("%w: unsupported object type %T", ErrInvalidTriple, object)
	}
	if o.skolemize {
		subject = identifier.Skolemize(subject, o.skolemPrefix)
	}
	return message.Triple{
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		Source:     o.source,
		Timestamp:  o.clock(),
		Confidence: 1.0,
	}, nil
}

type tripleKey struct {
	subject, predicate, object string
}

func keyOf(t message.Triple) tripleKey {
	return tripleKey{t.Subject, t.Predicate, ObjectKey(t.Object)}
}

// ObjectKey returns a string that identifies an object value, distinguishing
// node references from literals with the same text.
func ObjectKey(o any) string {
	switch v := o.(type) {
	case string:
		return "n|" + v
	case Literal:
		return "l|" + v.Datatype + "|" + v.Value
	case time.Time:
		return "t|" + v.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%T|%v", o, o)
	}
}

func (p Pattern) matches(t message.Triple) bool {
	if p.Subject != "" && p.Subject != t.Subject {
		return false
	}
	if p.Predicate != "" && p.Predicate != t.Predicate {
		return false
	}
	if p.Object != nil && ObjectKey(p.Object) != ObjectKey(t.Object) {
		return false
	}
	return true
}
