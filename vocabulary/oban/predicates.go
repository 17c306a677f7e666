// Package oban provides the reified association vocabulary (OBAN) together
// with the relation and qualifier terms attached to associations.
//
// An association node carries its subject, predicate and object through the
// association_has_* properties so that evidence and qualifiers can be stated
// about the relationship itself.
package oban

import "github.com/c360studio/semingest/vocabulary/term"

const (
	Namespace    = "http://purl.org/oban/"
	OboNamespace = "http://purl.obolibrary.org/obo/"
	DcNamespace  = "http://purl.org/dc/elements/1.1/"
)

// Association structure.
var (
	Association  = term.Term{Predicate: "oban.class.association", Label: "association", CURIE: "OBAN:association", IRI: Namespace + "association"}
	HasSubject   = term.Term{Predicate: "oban.association.subject", Label: "association has subject", CURIE: "OBAN:association_has_subject", IRI: Namespace + "association_has_subject"}
	HasPredicate = term.Term{Predicate: "oban.association.predicate", Label: "association has predicate", CURIE: "OBAN:association_has_predicate", IRI: Namespace + "association_has_predicate"}
	HasObject    = term.Term{Predicate: "oban.association.object", Label: "association has object", CURIE: "OBAN:association_has_object", IRI: Namespace + "association_has_object"}
	HasEvidence  = term.Term{Predicate: "oban.association.evidence", Label: "has evidence", CURIE: "RO:0002558", IRI: OboNamespace + "RO_0002558"}
	Source       = term.Term{Predicate: "oban.association.source", Label: "Source", CURIE: "dc:source", IRI: DcNamespace + "source"}
	BeginStage   = term.Term{Predicate: "oban.qualifier.begin_stage", Label: "has_begin_stage_qualifier", CURIE: "GENO:0000630", IRI: OboNamespace + "GENO_0000630"}
	EndStage     = term.Term{Predicate: "oban.qualifier.end_stage", Label: "has_end_stage_qualifier", CURIE: "GENO:0000631", IRI: OboNamespace + "GENO_0000631"}
	Environment  = term.Term{Predicate: "oban.qualifier.environment", Label: "has_environment_qualifier", CURIE: "GENO:0000580", IRI: OboNamespace + "GENO_0000580"}
)

// Relations used as association predicates.
var (
	HasPhenotype       = term.Term{Predicate: "oban.relation.has_phenotype", Label: "has_phenotype", CURIE: "RO:0002200", IRI: OboNamespace + "RO_0002200"}
	CausesCondition    = term.Term{Predicate: "oban.relation.causes_condition", Label: "causes condition", CURIE: "RO:0003303", IRI: OboNamespace + "RO_0003303"}
	ContributesTo      = term.Term{Predicate: "oban.relation.contributes_to", Label: "contributes to", CURIE: "RO:0002326", IRI: OboNamespace + "RO_0002326"}
	IsMarkerFor        = term.Term{Predicate: "oban.relation.is_marker_for", Label: "is marker for", CURIE: "RO:0002607", IRI: OboNamespace + "RO_0002607"}
	HasAffectedFeature = term.Term{Predicate: "oban.relation.has_affected_feature", Label: "has_affected_feature", CURIE: "GENO:0000418", IRI: OboNamespace + "GENO_0000418"}
)

func init() {
	term.Define(Association, "Reified association class", "entity_id")
	term.Define(HasSubject, "Subject of the reified association", "entity_id")
	term.Define(HasPredicate, "Relation of the reified association", "entity_id")
	term.Define(HasObject, "Object of the reified association", "entity_id")
	term.Define(HasEvidence, "Evidence code supporting the association", "entity_id")
	term.Define(Source, "Publication or record the association was asserted in", "entity_id")
	term.Define(BeginStage, "Developmental stage at which the association begins", "entity_id")
	term.Define(EndStage, "Developmental stage at which the association ends", "entity_id")
	term.Define(Environment, "Environment in which the association holds", "entity_id")

	term.Define(HasPhenotype, "Entity has the phenotype", "entity_id")
	term.Define(CausesCondition, "Gene causes the condition", "entity_id")
	term.Define(ContributesTo, "Gene contributes to the condition", "entity_id")
	term.Define(IsMarkerFor, "Feature is a marker for the condition", "entity_id")
	term.Define(HasAffectedFeature, "Condition has the affected feature", "entity_id")
}
