// Package hcls provides the dataset description vocabulary used for
// tiered dataset metadata, following the W3C HCLS dataset description
// profile.
//
// # Tiers
//
// Every ingest run describes its output at three levels:
//
//	Summary       <prefix>:#<id>                    source independent
//	Version       <prefix>:<release>/#<id>          one per ingest run
//	Distribution  <prefix>:<release>/rdf/<id>.<ext> one per emitted file
//
// Version points at Summary through dcterms:isVersionOf and at the
// Distribution through dcat:distribution. Version and Distribution share a
// byte-identical dcterms:created literal.
//
// # Usage
//
// Import the package to register predicates. Graph code writes the CURIE
// form of each term; the dotted predicate names are used when triples are
// published to semstreams:
//
//	import "github.com/c360studio/semingest/vocabulary/hcls"
//
//	hcls.Title.CURIE     // "dcterms:title"
//	hcls.Title.Predicate // "hcls.dataset.title"
package hcls
