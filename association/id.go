// Package association builds reified relationships between graph nodes.
//
// An association promotes subject-relationship-object to a node of its own
// so that evidence, sources and qualifiers can be stated about the
// relationship. Its id is content-addressed: the same defining tuple always
// yields the same node, so repeated records collapse instead of duplicating.
package association

import (
	"strings"

	"github.com/c360studio/semingest/identifier"
)

// IDDelimiter joins the parts of an association tuple before hashing.
const IDDelimiter = "+"

// MakeAssociationID returns a MONARCH CURIE for the tuple. The four core
// parts always keep their positions, so an empty part is still part of the
// identity. Empty qualifiers are dropped; the remaining qualifiers keep the
// caller's order, which is part of the identity.
func MakeAssociationID(definedBy, subject, relationship, object string, qualifiers ...string) string {
	parts := make([]string, 0, 4+len(qualifiers))
	parts = append(parts, definedBy, subject, relationship, object)
	for _, q := range qualifiers {
		if q != "" {
			parts = append(parts, q)
		}
	}
	return identifier.MakeID(strings.Join(parts, IDDelimiter))
}

// Qualifiers are the optional attributes that refine a phenotypic
// association.
type Qualifiers struct {
	Environment string
	StartStage  string
	EndStage    string
}

// Ordered returns the qualifiers in their fixed identity order:
// environment, start stage, end stage.
func (q Qualifiers) Ordered() []string {
	return []string{q.Environment, q.StartStage, q.EndStage}
}
