package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "ingest",
		Category:    "entity",
		Version:     "v1",
		Description: "Ingested entity with the triples one run emitted about it",
		Factory:     func() any { return &EntityPayload{} },
	})
	if err != nil {
		panic("failed to register EntityPayload: " + err.Error())
	}
}

// EntityType is the message type for ingested entity payloads.
var EntityType = message.Type{Domain: "ingest", Category: "entity", Version: "v1"}

// EntityPayload carries one subject and its triples. Predicates use the
// dotted semstreams names and literal objects are flattened to their text.
type EntityPayload struct {
	EntityID_  string           `json:"id"`
	TripleData []message.Triple `json:"triples"`
	Source     string           `json:"source,omitempty"`
	RunID      string           `json:"run_id,omitempty"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (e *EntityPayload) EntityID() string          { return e.EntityID_ }
func (e *EntityPayload) Triples() []message.Triple { return e.TripleData }
func (e *EntityPayload) Schema() message.Type      { return EntityType }

func (e *EntityPayload) Validate() error {
	if e.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	if len(e.TripleData) == 0 {
		return errors.New("entity has no triples")
	}
	return nil
}

func (e *EntityPayload) MarshalJSON() ([]byte, error) {
	type Alias EntityPayload
	return json.Marshal((*Alias)(e))
}

func (e *EntityPayload) UnmarshalJSON(data []byte) error {
	type Alias EntityPayload
	return json.Unmarshal(data, (*Alias)(e))
}
