package association

import (
	"fmt"
	"strings"

	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/translation"
	"github.com/c360studio/semingest/vocabulary/oban"
)

// G2PAssoc associates a genotype, gene or other feature with a phenotype.
// The relationship defaults to has_phenotype.
type G2PAssoc struct {
	*Association
	qualifiers Qualifiers
}

// NewG2P creates a G2P association. An empty rel selects has_phenotype.
func NewG2P(g graph.Graph, r *translation.Resolver, definedBy, entityID, phenotypeID, rel string) (*G2PAssoc, error) {
	if rel == "" {
		var err error
		if rel, err = r.Term(oban.HasPhenotype.Label); err != nil {
			return nil, fmt.Errorf("default g2p relationship: %w", err)
		}
	}
	a := New(g, r, definedBy)
	a.SetSubject(entityID)
	a.SetObject(phenotypeID)
	a.SetRelationship(rel)
	return &G2PAssoc{Association: a}, nil
}

// SetStage sets the stage range. Blank values leave the bound unset.
func (a *G2PAssoc) SetStage(start, end string) {
	if strings.TrimSpace(start) != "" {
		a.qualifiers.StartStage = start
	}
	if strings.TrimSpace(end) != "" {
		a.qualifiers.EndStage = end
	}
}

// SetEnvironment sets the environment. A blank value is ignored.
func (a *G2PAssoc) SetEnvironment(env string) {
	if strings.TrimSpace(env) != "" {
		a.qualifiers.Environment = env
	}
}

// Qualifiers returns the current qualifiers.
func (a *G2PAssoc) Qualifiers() Qualifiers {
	return a.qualifiers
}

// ID derives the id from the defining tuple and the ordered qualifiers
// unless one was set explicitly.
func (a *G2PAssoc) ID() string {
	if a.id != "" {
		return a.id
	}
	return MakeAssociationID(a.definedBy, a.subject, a.relationship, a.object, a.qualifiers.Ordered()...)
}

// AddAssociationToGraph emits the association and its qualifier triples.
func (a *G2PAssoc) AddAssociationToGraph() error {
	id := a.ID()
	if err := a.emit(id); err != nil {
		return err
	}
	w := &writer{a: a.Association, subject: id}
	if a.qualifiers.StartStage != "" {
		w.add(oban.BeginStage.Label, a.qualifiers.StartStage)
	}
	if a.qualifiers.EndStage != "" {
		w.add(oban.EndStage.Label, a.qualifiers.EndStage)
	}
	if a.qualifiers.Environment != "" {
		w.add(oban.Environment.Label, a.qualifiers.Environment)
	}
	return w.err
}
