package dataset

import (
	"fmt"

	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/vocabulary/hcls"
)

// SetIngestSourceFileVersionNum records the upstream version string of a
// file used by the ingest as an untyped literal.
func (d *Dataset) SetIngestSourceFileVersionNum(fileIRI, version string) error {
	return d.about(fileIRI).add(hcls.Version.Label, graph.Text(version)).err
}

// SetIngestSourceFileVersionDate records a dated upstream version. An empty
// datatype means xsd:date.
func (d *Dataset) SetIngestSourceFileVersionDate(fileIRI, date, datatype string) error {
	if datatype == "" {
		datatype = graph.XSDDate
	}
	return d.about(fileIRI).add(hcls.Version.Label, graph.Literal{Value: date, Datatype: datatype}).err
}

// SetIngestSourceFileRetrievedOn records when an upstream file was fetched.
// An empty datatype means xsd:date.
func (d *Dataset) SetIngestSourceFileRetrievedOn(fileIRI, date, datatype string) error {
	if datatype == "" {
		datatype = graph.XSDDate
	}
	return d.about(fileIRI).add(hcls.RetrievedOn.Label, graph.Literal{Value: date, Datatype: datatype}).err
}

// SetIngestSource states that the version level used url. The predicate
// defaults to dcterms:source; pass a CURIE such as prov:wasDerivedFrom to
// state a modified derivation instead.
func (d *Dataset) SetIngestSource(url, predicate string) error {
	if url == "" {
		return fmt.Errorf("%w: empty source url", ErrInvalidConfig)
	}
	if predicate == "" {
		return d.about(d.version).add(hcls.SourceDct.Label, url).err
	}
	if err := d.graph.AddTriple(d.version, predicate, url); err != nil {
		return fmt.Errorf("dataset source: %w", err)
	}
	return nil
}

// SetFileAccessURL records a landing page for the upstream data on the
// summary level.
func (d *Dataset) SetFileAccessURL(url string) error {
	return d.about(d.summary).add(hcls.SourceDct.Label, url).err
}

// SetCitation adds id to the citation set and states it on the version
// level. Repeated ids are stored once.
func (d *Dataset) SetCitation(id string) error {
	d.mu.Lock()
	_, dup := d.citations[id]
	d.citations[id] = struct{}{}
	d.mu.Unlock()
	if dup {
		return nil
	}
	return d.about(d.version).add(hcls.CitesAsAuthority.Label, id).err
}

// SetVersionInfo adds owl:versionInfo to the distribution.
func (d *Dataset) SetVersionInfo(info string) error {
	return d.about(d.distribution).add(hcls.VersionInfo.Label, graph.Text(info)).err
}
