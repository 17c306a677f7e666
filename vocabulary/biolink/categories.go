// Package biolink lists the Biolink Model categories attached to nodes.
package biolink

import "github.com/c360studio/semingest/vocabulary/term"

// Namespace is the Biolink vocabulary base IRI.
const Namespace = "https://w3id.org/biolink/vocab/"

// Category is a Biolink class CURIE.
type Category string

// Categories used by ingests.
const (
	NamedThing                      Category = "biolink:NamedThing"
	Gene                            Category = "biolink:Gene"
	GeneFamily                      Category = "biolink:GeneFamily"
	Genotype                        Category = "biolink:Genotype"
	Disease                         Category = "biolink:Disease"
	PhenotypicFeature               Category = "biolink:PhenotypicFeature"
	SequenceVariant                 Category = "biolink:SequenceVariant"
	Publication                     Category = "biolink:Publication"
	InformationContentEntity        Category = "biolink:InformationContentEntity"
	PopulationOfIndividualOrganisms Category = "biolink:PopulationOfIndividualOrganisms"
	Zygosity                        Category = "biolink:Zygosity"
	BiologicalSex                   Category = "biolink:BiologicalSex"
	OrganismTaxon                   Category = "biolink:OrganismTaxon"
	MolecularEntity                 Category = "biolink:MolecularEntity"
	Case                            Category = "biolink:Case"
	OntologyClass                   Category = "biolink:OntologyClass"
)

// HasCategory is the node property that carries a category.
var HasCategory = term.Term{
	Predicate: "biolink.node.category",
	Label:     "category",
	CURIE:     "biolink:category",
	IRI:       Namespace + "category",
}

// IRI expands the category into its full IRI.
func (c Category) IRI() string {
	return Namespace + string(c)[len("biolink:"):]
}

func init() {
	term.Define(HasCategory, "Biolink category of a node", "entity_id")
}
