package dataset

import (
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/vocabulary/hcls"
	"github.com/c360studio/semstreams/message"
)

// Statistics are the VoID counts stated on a distribution.
type Statistics struct {
	Triples          int `json:"triples"`
	Entities         int `json:"entities"`
	DistinctSubjects int `json:"distinct_subjects"`
	DistinctObjects  int `json:"distinct_objects"`
	Properties       int `json:"properties"`
}

// ComputeStatistics counts triples. Entities are the distinct subjects that
// carry an rdf:type.
func ComputeStatistics(triples []message.Triple) Statistics {
	subjects := make(map[string]struct{})
	objects := make(map[string]struct{})
	properties := make(map[string]struct{})
	typed := make(map[string]struct{})

	for _, t := range triples {
		subjects[t.Subject] = struct{}{}
		objects[graph.ObjectKey(t.Object)] = struct{}{}
		properties[t.Predicate] = struct{}{}
		if t.Predicate == graph.RDFType {
			typed[t.Subject] = struct{}{}
		}
	}

	return Statistics{
		Triples:          len(triples),
		Entities:         len(typed),
		DistinctSubjects: len(subjects),
		DistinctObjects:  len(objects),
		Properties:       len(properties),
	}
}

// SetStatistics writes the VoID counts onto the distribution level.
func (d *Dataset) SetStatistics(s Statistics) error {
	return d.about(d.distribution).
		add(hcls.Triples.Label, s.Triples).
		add(hcls.Entities.Label, s.Entities).
		add(hcls.DistinctSubjects.Label, s.DistinctSubjects).
		add(hcls.DistinctObjects.Label, s.DistinctObjects).
		add(hcls.Properties.Label, s.Properties).
		err
}
