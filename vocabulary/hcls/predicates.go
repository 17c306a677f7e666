package hcls

import (
	"github.com/c360studio/semingest/vocabulary/term"
	"github.com/c360studio/semstreams/vocabulary"
)

// Namespaces for the terms below.
const (
	DctermsNamespace = "http://purl.org/dc/terms/"
	DctypesNamespace = "http://purl.org/dc/dcmitype/"
	DcatNamespace    = "http://www.w3.org/ns/dcat#"
	PavNamespace     = "http://purl.org/pav/"
	CitoNamespace    = "http://purl.org/spar/cito/"
	SchemaNamespace  = "http://schema.org/"
	VoidNamespace    = "http://rdfs.org/ns/void#"
	OwlNamespace     = "http://www.w3.org/2002/07/owl#"
	RdfNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// Classes.
var (
	Dataset      = term.Term{Predicate: "hcls.class.dataset", Label: "Dataset", CURIE: "dctypes:Dataset", IRI: DctypesNamespace + "Dataset"}
	Distribution = term.Term{Predicate: "hcls.class.distribution", Label: "Distribution", CURIE: "dcat:Distribution", IRI: DcatNamespace + "Distribution"}
	Ontology     = term.Term{Predicate: "hcls.class.ontology", Label: "Ontology", CURIE: "owl:Ontology", IRI: OwlNamespace + "Ontology"}
)

// Dataset description predicates.
var (
	Type             = term.Term{Predicate: "hcls.resource.type", Label: "type", CURIE: "rdf:type", IRI: RdfNamespace + "type"}
	Title            = term.Term{Predicate: "hcls.dataset.title", Label: "title", CURIE: "dcterms:title", IRI: vocabulary.DcTitle}
	Description      = term.Term{Predicate: "hcls.dataset.description", Label: "description", CURIE: "dcterms:description", IRI: DctermsNamespace + "description"}
	Identifier       = term.Term{Predicate: "hcls.dataset.identifier", Label: "identifier", CURIE: "dcterms:identifier", IRI: vocabulary.DcIdentifier}
	Publisher        = term.Term{Predicate: "hcls.dataset.publisher", Label: "Publisher", CURIE: "dcterms:Publisher", IRI: DctermsNamespace + "Publisher"}
	Logo             = term.Term{Predicate: "hcls.dataset.logo", Label: "logo", CURIE: "schemaorg:logo", IRI: SchemaNamespace + "logo"}
	SourceDct        = term.Term{Predicate: "hcls.dataset.source", Label: "Source (dct)", CURIE: "dcterms:source", IRI: vocabulary.DcSource}
	Created          = term.Term{Predicate: "hcls.version.created", Label: "created", CURIE: "dcterms:created", IRI: DctermsNamespace + "created"}
	Version          = term.Term{Predicate: "hcls.version.version", Label: "version", CURIE: "pav:version", IRI: PavNamespace + "version"}
	Creator          = term.Term{Predicate: "hcls.version.creator", Label: "creator", CURIE: "dcterms:creator", IRI: DctermsNamespace + "creator"}
	IsVersionOf      = term.Term{Predicate: "hcls.version.is_version_of", Label: "isVersionOf", CURIE: "dcterms:isVersionOf", IRI: DctermsNamespace + "isVersionOf"}
	HasDistribution  = term.Term{Predicate: "hcls.version.distribution", Label: "distribution", CURIE: "dcat:distribution", IRI: DcatNamespace + "distribution"}
	CitesAsAuthority = term.Term{Predicate: "hcls.version.cites_as_authority", Label: "citesAsAuthority", CURIE: "cito:citesAsAuthority", IRI: CitoNamespace + "citesAsAuthority"}
	CreatedWith      = term.Term{Predicate: "hcls.distribution.created_with", Label: "created_with", CURIE: "pav:createdWith", IRI: PavNamespace + "createdWith"}
	Format           = term.Term{Predicate: "hcls.distribution.format", Label: "format", CURIE: "dcterms:format", IRI: DctermsNamespace + "format"}
	DownloadURL      = term.Term{Predicate: "hcls.distribution.download_url", Label: "downloadURL", CURIE: "dcat:downloadURL", IRI: DcatNamespace + "downloadURL"}
	License          = term.Term{Predicate: "hcls.distribution.license", Label: "license", CURIE: "dcterms:license", IRI: DctermsNamespace + "license"}
	Rights           = term.Term{Predicate: "hcls.distribution.rights", Label: "rights", CURIE: "dcterms:rights", IRI: DctermsNamespace + "rights"}
	RetrievedOn      = term.Term{Predicate: "hcls.file.retrieved_on", Label: "retrieved_on", CURIE: "pav:retrievedOn", IRI: PavNamespace + "retrievedOn"}
	VersionIRI       = term.Term{Predicate: "hcls.ontology.version_iri", Label: "version_iri", CURIE: "owl:versionIRI", IRI: OwlNamespace + "versionIRI"}
	VersionInfo      = term.Term{Predicate: "hcls.ontology.version_info", Label: "version_info", CURIE: "owl:versionInfo", IRI: OwlNamespace + "versionInfo"}
)

// VoID statistics.
var (
	Triples          = term.Term{Predicate: "hcls.statistics.triples", Label: "triples", CURIE: "void:triples", IRI: VoidNamespace + "triples"}
	Entities         = term.Term{Predicate: "hcls.statistics.entities", Label: "entities", CURIE: "void:entities", IRI: VoidNamespace + "entities"}
	DistinctSubjects = term.Term{Predicate: "hcls.statistics.distinct_subjects", Label: "distinctSubjects", CURIE: "void:distinctSubjects", IRI: VoidNamespace + "distinctSubjects"}
	DistinctObjects  = term.Term{Predicate: "hcls.statistics.distinct_objects", Label: "distinctObjects", CURIE: "void:distinctObjects", IRI: VoidNamespace + "distinctObjects"}
	Properties       = term.Term{Predicate: "hcls.statistics.properties", Label: "properties", CURIE: "void:properties", IRI: VoidNamespace + "properties"}
)

// UnknownLicense marks a distribution whose license was not supplied.
const UnknownLicense = "https://project-open-data.cio.gov/unknown-license/"

// Format IRIs for dcterms:format.
const (
	FormatTurtle   = "https://www.w3.org/TR/turtle/"
	FormatNTriples = "https://www.w3.org/TR/n-triples/"
)

func init() {
	term.Define(Dataset, "Dataset class, applied at every tier", "entity_id")
	term.Define(Distribution, "Concrete file distribution of a dataset version", "entity_id")
	term.Define(Ontology, "Ontology artifact class", "entity_id")

	term.Define(Type, "Resource type", "entity_id")
	term.Define(Title, "Dataset title", "string")
	term.Define(Description, "Free text dataset description", "string")
	term.Define(Identifier, "Dataset identifier", "string")
	term.Define(Publisher, "Publishing organisation", "entity_id")
	term.Define(Logo, "Logo of the upstream source", "entity_id")
	term.Define(SourceDct, "Upstream location the data was taken from", "entity_id")
	term.Define(Created, "Creation date of a version or distribution", "date")
	term.Define(Version, "Version string of a dataset or source file", "string")
	term.Define(Creator, "Creator of the dataset", "entity_id")
	term.Define(IsVersionOf, "Summary level this version belongs to", "entity_id")
	term.Define(HasDistribution, "Distribution emitted for this version", "entity_id")
	term.Define(CitesAsAuthority, "Citation supporting the dataset", "entity_id")
	term.Define(CreatedWith, "Tool that produced the distribution", "entity_id")
	term.Define(Format, "Serialization format of the distribution", "entity_id")
	term.Define(DownloadURL, "Where the distribution can be downloaded", "entity_id")
	term.Define(License, "License of the distribution", "entity_id")
	term.Define(Rights, "Data rights statement", "entity_id")
	term.Define(RetrievedOn, "Date an upstream file was retrieved", "date")
	term.Define(VersionIRI, "Version IRI of the ontology artifact", "entity_id")
	term.Define(VersionInfo, "Version info of the ontology artifact", "string")

	term.Define(Triples, "Number of triples in the distribution", "int")
	term.Define(Entities, "Number of entities in the distribution", "int")
	term.Define(DistinctSubjects, "Number of distinct subjects", "int")
	term.Define(DistinctObjects, "Number of distinct objects", "int")
	term.Define(Properties, "Number of distinct properties", "int")
}
