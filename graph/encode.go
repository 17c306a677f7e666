package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/c360studio/semingest/curie"
	"github.com/c360studio/semingest/identifier"
	"github.com/c360studio/semstreams/message"
	"gonum.org/v1/gonum/graph/formats/rdf"
)

// Encoder turns graph triples into RDF terms with full IRIs.
type Encoder struct {
	curies curie.Map
}

// NewEncoder returns an Encoder expanding CURIEs with m.
func NewEncoder(m curie.Map) Encoder {
	return Encoder{curies: m}
}

// Node encodes a subject, predicate or node object.
func (e Encoder) Node(id string) (rdf.Term, error) {
	if identifier.IsBlank(id) {
		return rdf.Term{Value: id}, nil
	}
	iri, err := e.curies.Expand(id)
	if err != nil {
		return rdf.Term{}, err
	}
	return rdf.NewIRITerm(iri)
}

// Object encodes any value accepted by Graph.AddTriple.
func (e Encoder) Object(o any) (rdf.Term, error) {
	switch v := o.(type) {
	case string:
		return e.Node(v)
	case Literal:
		return e.literal(v)
	case int:
		return e.literal(Literal{Value: strconv.Itoa(v), Datatype: XSDInteger})
	case int64:
		return e.literal(Literal{Value: strconv.FormatInt(v, 10), Datatype: XSDInteger})
	case float64:
		return e.literal(Literal{Value: strconv.FormatFloat(v, 'f', -1, 64), Datatype: XSDDecimal})
	case bool:
		return e.literal(Literal{Value: strconv.FormatBool(v), Datatype: XSDBoolean})
	case time.Time:
		return e.literal(Literal{Value: v.Format(time.RFC3339), Datatype: XSDDateTime})
	default:
		return rdf.Term{}, fmt.Errorf("%w: unsupported object type %T", ErrInvalidTriple, o)
	}
}

func (e Encoder) literal(l Literal) (rdf.Term, error) {
	text := `"` + EscapeLiteral(l.Value) + `"`
	if l.Datatype == "" {
		return rdf.Term{Value: text}, nil
	}
	dt, err := e.Node(l.Datatype)
	if err != nil {
		return rdf.Term{}, fmt.Errorf("literal datatype: %w", err)
	}
	return rdf.Term{Value: text + "^^" + dt.Value}, nil
}

// Statement encodes a whole triple.
func (e Encoder) Statement(t message.Triple) (*rdf.Statement, error) {
	s, err := e.Node(t.Subject)
	if err != nil {
		return nil, fmt.Errorf("subject %q: %w", t.Subject, err)
	}
	p, err := e.Node(t.Predicate)
	if err != nil {
		return nil, fmt.Errorf("predicate %q: %w", t.Predicate, err)
	}
	o, err := e.Object(t.Object)
	if err != nil {
		return nil, fmt.Errorf("object of %s %s: %w", t.Subject, t.Predicate, err)
	}
	return &rdf.Statement{Subject: s, Predicate: p, Object: o}, nil
}

// EscapeLiteral escapes the characters N-Triples and Turtle forbid inside
// a quoted literal.
func EscapeLiteral(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
