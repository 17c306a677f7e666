package export

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/semingest/curie"
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semstreams/message"
	"gonum.org/v1/gonum/graph/formats/rdf"
)

// rdfTypeIRI is written as "a" in Turtle.
const rdfTypeIRI = "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>"

// localName matches the local parts that may follow a Turtle prefix unescaped.
var localName = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_\-]*[A-Za-z0-9_])?$`)

// Write serializes triples in the given format, expanding CURIEs with m.
func Write(w io.Writer, triples []message.Triple, format Format, m curie.Map) error {
	enc := graph.NewEncoder(m)
	stmts := make([]*rdf.Statement, 0, len(triples))
	for _, t := range triples {
		s, err := enc.Statement(t)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		stmts = append(stmts, s)
	}

	bw := bufio.NewWriter(w)
	var err error
	switch format {
	case FormatNTriples:
		err = writeNTriples(bw, stmts)
	case FormatTurtle:
		err = newTurtleWriter(m).write(bw, stmts)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeNTriples(w io.Writer, stmts []*rdf.Statement) error {
	for _, s := range stmts {
		if _, err := fmt.Fprintln(w, s.String()); err != nil {
			return err
		}
	}
	return nil
}

// turtleWriter groups statements by subject and abbreviates IRIs with the
// prefixes actually used.
type turtleWriter struct {
	curies curie.Map
	used   map[string]string
}

func newTurtleWriter(m curie.Map) *turtleWriter {
	return &turtleWriter{curies: m, used: make(map[string]string)}
}

func (t *turtleWriter) write(w io.Writer, stmts []*rdf.Statement) error {
	var order []string
	groups := make(map[string][]*rdf.Statement)
	for _, s := range stmts {
		key := s.Subject.Value
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}

	// Render the body first so the prefix block only lists what it needs.
	var body strings.Builder
	for _, subject := range order {
		group := groups[subject]
		body.WriteString(t.term(subject))
		body.WriteString("\n")
		for i, s := range group {
			pred := t.term(s.Predicate.Value)
			if s.Predicate.Value == rdfTypeIRI {
				pred = "a"
			}
			terminator := " ;"
			if i == len(group)-1 {
				terminator = " ."
			}
			fmt.Fprintf(&body, "    %s %s%s\n", pred, t.term(s.Object.Value), terminator)
		}
		body.WriteString("\n")
	}

	prefixes := make([]string, 0, len(t.used))
	for p := range t.used {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		if _, err := fmt.Fprintf(w, "@prefix %s: <%s> .\n", p, t.used[p]); err != nil {
			return err
		}
	}
	if len(prefixes) > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, body.String())
	return err
}

// term rewrites an N-Triples term into its Turtle form.
func (t *turtleWriter) term(v string) string {
	switch {
	case strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">"):
		return t.iri(v[1 : len(v)-1])
	case strings.HasPrefix(v, `"`):
		if i := strings.LastIndex(v, `"^^<`); i >= 0 && strings.HasSuffix(v, ">") {
			return v[:i+3] + t.iri(v[i+4:len(v)-1])
		}
		return v
	default:
		return v
	}
}

func (t *turtleWriter) iri(iri string) string {
	c := t.curies.Contract(iri)
	if c == iri {
		return "<" + iri + ">"
	}
	prefix, local, _ := strings.Cut(c, ":")
	if local != "" && !localName.MatchString(local) {
		return "<" + iri + ">"
	}
	base, _ := t.curies.Base(prefix)
	t.used[prefix] = base
	return prefix + ":" + local
}
