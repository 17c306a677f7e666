package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/c360studio/semingest/vocabulary/biolink"
	_ "github.com/c360studio/semingest/vocabulary/hcls"
	_ "github.com/c360studio/semingest/vocabulary/oban"
	"github.com/c360studio/semingest/vocabulary/term"
	"github.com/c360studio/semstreams/message"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// GraphIngestSubject is the subject entity payloads are published on.
const GraphIngestSubject = "graph.ingest.entity"

// StreamPublisher publishes raw bytes to a stream subject.
// *natsclient.Client from semstreams satisfies it.
type StreamPublisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// JetStreamPublisher adapts a JetStream context to StreamPublisher.
type JetStreamPublisher struct {
	JS jetstream.JetStream
}

// PublishToStream implements StreamPublisher.
func (p JetStreamPublisher) PublishToStream(ctx context.Context, subject string, data []byte) error {
	_, err := p.JS.Publish(ctx, subject, data)
	return err
}

// Publisher sends ingested entities to the knowledge graph.
type Publisher struct {
	pub     StreamPublisher
	subject string
	source  string
	runID   string
	logger  *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithSubject overrides GraphIngestSubject.
func WithSubject(subject string) PublisherOption {
	return func(p *Publisher) {
		if subject != "" {
			p.subject = subject
		}
	}
}

// WithRunID sets the ingest run id stamped on every payload.
func WithRunID(id string) PublisherOption {
	return func(p *Publisher) { p.runID = id }
}

// WithPublisherLogger sets the logger.
func WithPublisherLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPublisher creates a Publisher for one ingest source. A nil pub yields a
// Publisher whose methods do nothing.
func NewPublisher(pub StreamPublisher, source string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		pub:     pub,
		subject: GraphIngestSubject,
		source:  source,
		runID:   uuid.New().String(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunID returns the run id stamped on payloads.
func (p *Publisher) RunID() string {
	return p.runID
}

// PublishEntity publishes one subject and its triples.
func (p *Publisher) PublishEntity(ctx context.Context, id string, triples []message.Triple) error {
	if p.pub == nil {
		return nil
	}

	payload := &EntityPayload{
		EntityID_:  id,
		TripleData: make([]message.Triple, 0, len(triples)),
		Source:     p.source,
		RunID:      p.runID,
		UpdatedAt:  time.Now(),
	}
	for _, t := range triples {
		payload.TripleData = append(payload.TripleData, ToStreamTriple(t))
	}
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("entity %s: %w", id, err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal entity %s: %w", id, err)
	}
	if err := p.pub.PublishToStream(ctx, p.subject, data); err != nil {
		return fmt.Errorf("publish entity %s: %w", id, err)
	}
	return nil
}

// PublishGraph publishes every subject of g as one entity and returns the
// number of entities sent.
func (p *Publisher) PublishGraph(ctx context.Context, g *MemoryGraph) (int, error) {
	if p.pub == nil {
		return 0, nil
	}
	subjects, groups := g.BySubject()
	for i, s := range subjects {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := p.PublishEntity(ctx, s, groups[s]); err != nil {
			return i, err
		}
	}
	p.logger.Info("Published ingest graph",
		"source", p.source,
		"run_id", p.runID,
		"entities", len(subjects))
	return len(subjects), nil
}

// ToStreamTriple converts an ingest triple into semstreams form: the
// predicate becomes its dotted vocabulary name and literals become text.
func ToStreamTriple(t message.Triple) message.Triple {
	out := t
	out.Predicate = term.PredicateFor(t.Predicate)
	if l, ok := t.Object.(Literal); ok {
		out.Object = l.Value
	}
	return out
}
