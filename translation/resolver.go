package translation

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrMappingRequired is returned when a mandatory lookup finds no entry.
	ErrMappingRequired = errors.New("mapping required")

	// ErrInvalidArgument is returned for an empty word.
	ErrInvalidArgument = errors.New("invalid argument")
)

// MappingRequiredError carries the word that could not be translated.
type MappingRequiredError struct {
	Word string
}

func (e *MappingRequiredError) Error() string {
	return fmt.Sprintf("mapping required for: %q", e.Word)
}

// Is lets errors.Is match ErrMappingRequired.
func (e *MappingRequiredError) Is(target error) bool {
	return target == ErrMappingRequired
}

// Outcome names the branch a resolution took.
type Outcome string

const (
	OutcomeLocalGlobal Outcome = "local_global"
	OutcomeLocalOnly   Outcome = "local_only"
	OutcomeGlobal      Outcome = "global"
	OutcomePassthrough Outcome = "passthrough"
	OutcomeMissing     Outcome = "missing"
)

// Observer is notified after every resolution.
type Observer func(source string, outcome Outcome)

// Resolver resolves words against one Table.
type Resolver struct {
	table    *Table
	source   string
	logger   *slog.Logger
	observer Observer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSource tags diagnostics with the ingest source name.
func WithSource(name string) Option {
	return func(r *Resolver) { r.source = name }
}

// WithObserver registers a callback for resolution outcomes.
func WithObserver(o Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// NewResolver binds a Resolver to t.
func NewResolver(t *Table, opts ...Option) *Resolver {
	r := &Resolver{table: t, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	for _, c := range t.conflicts {
		r.logger.Warn("Local translation table is not invertible",
			"source", r.source,
			"label", c.Label,
			"keys", c.Keys)
	}
	return r
}

// Table returns the table the resolver reads.
func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve maps word to a term id, preferring in order:
// global(local(word)), local(word), global(word), then word itself
// when mandatory is false.
func (r *Resolver) Resolve(word string, mandatory bool) (string, error) {
	if word == "" {
		return "", fmt.Errorf("%w: empty word", ErrInvalidArgument)
	}

	if label, ok := r.table.Local(word); ok {
		if term, ok := r.table.Global(label); ok {
			r.observe(OutcomeLocalGlobal)
			return term, nil
		}
		r.logger.Info("Translated but no global term id",
			"source", r.source,
			"word", word,
			"label", label)
		r.observe(OutcomeLocalOnly)
		return label, nil
	}

	if term, ok := r.table.Global(word); ok {
		r.observe(OutcomeGlobal)
		return term, nil
	}

	if mandatory {
		r.observe(OutcomeMissing)
		return "", &MappingRequiredError{Word: word}
	}

	r.logger.Warn("No translation", "source", r.source, "word", word)
	r.observe(OutcomePassthrough)
	return word, nil
}

// MustResolve is Resolve with mandatory set, panicking on failure.
// It is meant for labels known to be present in the global table.
func (r *Resolver) MustResolve(word string) string {
	term, err := r.Resolve(word, true)
	if err != nil {
		panic(err)
	}
	return term
}

// Term looks label up in the global table only.
func (r *Resolver) Term(label string) (string, error) {
	if label == "" {
		return "", fmt.Errorf("%w: empty label", ErrInvalidArgument)
	}
	term, ok := r.table.Global(label)
	if !ok {
		return "", &MappingRequiredError{Word: label}
	}
	return term, nil
}

// Inverse returns the source label for a canonical label, or the label
// itself when the local table has no entry for it.
func (r *Resolver) Inverse(label string) string {
	if k, ok := r.table.Inverse(label); ok {
		return k
	}
	return label
}

func (r *Resolver) observe(o Outcome) {
	if r.observer != nil {
		r.observer(r.source, o)
	}
}
