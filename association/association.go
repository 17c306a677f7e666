package association

import (
	"errors"
	"fmt"
	"strings"

	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/translation"
	"github.com/c360studio/semingest/vocabulary/biolink"
	"github.com/c360studio/semingest/vocabulary/hcls"
	"github.com/c360studio/semingest/vocabulary/oban"
)

// ErrIncompleteAssociation is returned when an association is emitted before
// its subject, object and relationship are all set.
var ErrIncompleteAssociation = errors.New("incomplete association")

// IncompleteAssociationError names the missing parts.
type IncompleteAssociationError struct {
	Missing []string
}

func (e *IncompleteAssociationError) Error() string {
	return "incomplete association: missing " + strings.Join(e.Missing, ", ")
}

// Is lets errors.Is match ErrIncompleteAssociation.
func (e *IncompleteAssociationError) Is(target error) bool {
	return target == ErrIncompleteAssociation
}

// Association is a reified relationship under construction.
type Association struct {
	graph     graph.Graph
	resolver  *translation.Resolver
	definedBy string

	subject      string
	object       string
	relationship string
	id           string

	evidence    []string
	sources     []string
	description string

	subjectCategory biolink.Category
	objectCategory  biolink.Category
}

// New starts an association asserted by definedBy.
func New(g graph.Graph, r *translation.Resolver, definedBy string) *Association {
	return &Association{graph: g, resolver: r, definedBy: definedBy}
}

func (a *Association) SetSubject(id string) { a.subject = id }
func (a *Association) SetObject(id string) { a.object = id }
func (a *Association) SetRelationship(rel string) { a.relationship = rel }
func (a *Association) SetDescription(text string) { a.description = text }

// SetAssociationID overrides the derived id.
func (a *Association) SetAssociationID(id string) { a.id = id }

func (a *Association) Subject() string { return a.subject }
func (a *Association) Object() string { return a.object }
func (a *Association) Relationship() string { return a.relationship }
func (a *Association) DefinedBy() string { return a.definedBy }

// SetSubjectCategory records a biolink category for the subject node.
func (a *Association) SetSubjectCategory(c biolink.Category) { a.subjectCategory = c }

// SetObjectCategory records a biolink category for the object node.
func (a *Association) SetObjectCategory(c biolink.Category) { a.objectCategory = c }

// AddEvidence attaches an evidence code. Blank ids are ignored.
func (a *Association) AddEvidence(id string) {
	if strings.TrimSpace(id) != "" {
		a.evidence = append(a.evidence, id)
	}
}

// AddSource attaches a publication or record. Blank ids are ignored.
func (a *Association) AddSource(id string) {
	if strings.TrimSpace(id) != "" {
		a.sources = append(a.sources, id)
	}
}

// ID returns the association id, deriving it from the defining tuple when
// none was set explicitly.
func (a *Association) ID() string {
	if a.id != "" {
		return a.id
	}
	return MakeAssociationID(a.definedBy, a.subject, a.relationship, a.object)
}

func (a *Association) missing() []string {
	var m []string
	if a.subject == "" {
		m = append(m, "subject")
	}
	if a.object == "" {
		m = append(m, "object")
	}
	if a.relationship == "" {
		m = append(m, "relationship")
	}
	return m
}

// AddAssociationToGraph emits the direct edge, the reified node and any
// evidence, sources, description and categories.
func (a *Association) AddAssociationToGraph() error {
	return a.emit(a.ID())
}

func (a *Association) emit(id string) error {
	if m := a.missing(); len(m) > 0 {
		return &IncompleteAssociationError{Missing: m}
	}

	w := &writer{a: a, subject: id}
	if err := a.graph.AddTriple(a.subject, a.relationship, a.object); err != nil {
		return fmt.Errorf("association edge: %w", err)
	}
	w.typed(oban.Association.Label).
		add(oban.HasSubject.Label, a.subject).
		add(oban.HasPredicate.Label, a.relationship).
		add(oban.HasObject.Label, a.object)
	for _, e := range a.evidence {
		w.add(oban.HasEvidence.Label, e)
	}
	for _, s := range a.sources {
		w.add(oban.Source.Label, s)
	}
	if a.description != "" {
		w.add(hcls.Description.Label, graph.Text(a.description))
	}
	if w.err != nil {
		return w.err
	}

	if a.subjectCategory != "" {
		if err := a.graph.AddTriple(a.subject, biolink.HasCategory.CURIE, string(a.subjectCategory)); err != nil {
			return err
		}
	}
	if a.objectCategory != "" {
		if err := a.graph.AddTriple(a.object, biolink.HasCategory.CURIE, string(a.objectCategory)); err != nil {
			return err
		}
	}
	return nil
}

// writer resolves labels and writes triples about one subject, keeping the
// first error.
type writer struct {
	a       *Association
	subject string
	err     error
}

func (w *writer) add(label string, object any) *writer {
	if w.err != nil {
		return w
	}
	p, err := w.a.resolver.Term(label)
	if err != nil {
		w.err = fmt.Errorf("association predicate %q: %w", label, err)
		return w
	}
	if err := w.a.graph.AddTriple(w.subject, p, object); err != nil {
		w.err = fmt.Errorf("association triple: %w", err)
	}
	return w
}

func (w *writer) typed(classLabel string) *writer {
	if w.err != nil {
		return w
	}
	class, err := w.a.resolver.Term(classLabel)
	if err != nil {
		w.err = fmt.Errorf("association class %q: %w", classLabel, err)
		return w
	}
	if err := w.a.graph.AddType(w.subject, class); err != nil {
		w.err = fmt.Errorf("association type: %w", err)
	}
	return w
}
