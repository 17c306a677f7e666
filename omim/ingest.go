package omim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/semingest/association"
	"github.com/c360studio/semingest/graph"
	"github.com/c360studio/semingest/metric"
	"github.com/c360studio/semingest/source"
	"github.com/c360studio/semingest/storage"
	"github.com/c360studio/semingest/translation"
)

// Ingest turns OMIM records into graph statements. It owns the id caches
// of one run: entry types and the OMIM to NCBIGene map.
type Ingest struct {
	graph    graph.Graph
	resolver *translation.Resolver
	types    storage.Cache
	genes    storage.Cache
	metrics  *metric.Metrics
	logger   *slog.Logger
}

// Option configures an Ingest.
type Option func(*Ingest)

// WithLogger sets the logger used for data warnings.
func WithLogger(l *slog.Logger) Option {
	return func(in *Ingest) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithMetrics counts associations and cache conflicts.
func WithMetrics(m *metric.Metrics) Option {
	return func(in *Ingest) { in.metrics = m }
}

// WithGeneMap replaces the in-process OMIM to NCBIGene map.
func WithGeneMap(c storage.Cache) Option {
	return func(in *Ingest) {
		if c != nil {
			in.genes = c
		}
	}
}

// NewIngest writes into g, resolving vocabulary with r and recording entry
// types in types.
func NewIngest(g graph.Graph, r *translation.Resolver, types storage.Cache, opts ...Option) *Ingest {
	in := &Ingest{
		graph:    g,
		resolver: r,
		types:    types,
		genes:    storage.NewMemoryStore(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// RecordEntryType stores the type label of an entry from mim2gene. Unknown
// types are logged and returned as given without being stored. A different
// type already held for the entry yields storage.ErrConflict.
func (in *Ingest) RecordEntryType(ctx context.Context, num, mimType string) (string, error) {
	label, ok := EntryTypeLabel(mimType)
	if !ok {
		in.logger.Warn("Unknown OMIM type", "source", Name, "mim", num, "type", mimType)
		return label, nil
	}
	return label, in.recordType(ctx, CURIE(num), label)
}

func (in *Ingest) recordType(ctx context.Context, id, label string) error {
	err := in.types.SetIfAbsent(ctx, id, label)
	if errors.Is(err, storage.ErrConflict) {
		in.metrics.CacheConflict(Name)
	}
	if err != nil {
		return fmt.Errorf("record type of %s: %w", id, err)
	}
	return nil
}

// EntryType returns the type label recorded for an entry.
func (in *Ingest) EntryType(ctx context.Context, num string) (string, error) {
	return in.types.Get(ctx, CURIE(num))
}

// RecordGene maps an OMIM gene entry to its NCBIGene id.
func (in *Ingest) RecordGene(ctx context.Context, num, ncbiGene string) error {
	if strings.TrimSpace(ncbiGene) == "" {
		return nil
	}
	if !strings.Contains(ncbiGene, ":") {
		ncbiGene = "NCBIGene:" + strings.TrimSpace(ncbiGene)
	}
	if err := in.genes.SetIfAbsent(ctx, CURIE(num), ncbiGene); err != nil {
		return fmt.Errorf("record gene of %s: %w", CURIE(num), err)
	}
	return nil
}

// Feature returns the feature a disorder maps to when morbidmap names no
// gene: the NCBIGene id mapped for num, or an anonymous feature added to
// the graph.
func (in *Ingest) Feature(ctx context.Context, num string) (string, error) {
	gene, err := in.genes.Get(ctx, CURIE(num))
	if err == nil {
		return gene, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	id := AnonymousFeature(num)
	if err := in.describe(id, LabelSequenceFeature, "unspecified feature of "+CURIE(num)); err != nil {
		return "", err
	}
	return id, nil
}

func (in *Ingest) describe(id, typeLabel, label string) error {
	class, err := in.resolver.Term(typeLabel)
	if err != nil {
		return fmt.Errorf("type of %s: %w", id, err)
	}
	if err := in.graph.AddType(id, class); err != nil {
		return err
	}
	return in.about(id, "label", label)
}

// MakePhenoAssoc links a gene to an OMIM disorder. The relationship follows
// the morbidmap label convention: "[" marks a non-disease trait, "{" a
// susceptibility and "?" a provisional mapping. The phene mapping key is
// added as evidence when the translation table knows it.
func (in *Ingest) MakePhenoAssoc(geneID, disorderNum, disorderLabel, pheneKey string) (string, error) {
	relLabel := LabelCausesCondition
	switch {
	case strings.HasPrefix(disorderLabel, "["):
		relLabel = LabelIsMarkerFor
	case strings.HasPrefix(disorderLabel, "{"), strings.HasPrefix(disorderLabel, "?"):
		relLabel = LabelContributesTo
	}
	rel, err := in.resolver.Term(relLabel)
	if err != nil {
		return "", err
	}

	assoc, err := association.NewG2P(in.graph, in.resolver, Name, geneID, CURIE(disorderNum), rel)
	if err != nil {
		return "", err
	}
	if pheneKey = strings.TrimSpace(pheneKey); pheneKey != "" {
		evidence, err := in.resolver.Resolve(pheneKey, false)
		if err != nil {
			return "", err
		}
		if evidence != pheneKey {
			assoc.AddEvidence(evidence)
		}
	}
	if err := assoc.AddAssociationToGraph(); err != nil {
		return "", err
	}
	in.metrics.AssociationEmitted(Name)
	return assoc.ID(), nil
}

type entryResponse struct {
	OMIM struct {
		EntryList []struct {
			Entry entry `json:"entry"`
		} `json:"entryList"`
	} `json:"omim"`
}

type entry struct {
	MimNumber json.Number     `json:"mimNumber"`
	Prefix    string          `json:"prefix"`
	Status    string          `json:"status"`
	MovedTo   json.RawMessage `json:"movedTo"`
	Titles    struct {
		PreferredTitle string `json:"preferredTitle"`
	} `json:"titles"`
}

// ProcessEntries types and labels the entries of API batches. The entry
// prefix decides the type when it carries one; otherwise the type recorded
// from mim2gene is used. Removed entries become deprecated classes and moved
// ones are deprecated in favour of their new entries. It returns the number
// of entries written.
func (in *Ingest) ProcessEntries(ctx context.Context, batches []source.Batch) (int, error) {
	n := 0
	for _, b := range batches {
		var resp entryResponse
		if err := json.Unmarshal(b.Body, &resp); err != nil {
			return n, fmt.Errorf("decode batch at %d: %w", b.Offset, err)
		}
		for _, item := range resp.OMIM.EntryList {
			if err := in.processEntry(ctx, item.Entry); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}

func (in *Ingest) processEntry(ctx context.Context, e entry) error {
	num := e.MimNumber.String()
	id := CURIE(num)

	if e.Status == StatusRemoved {
		return in.deprecate(id, nil)
	}

	typeLabel, ok := PrefixTypeLabel(e.Prefix)
	if ok {
		if err := in.recordType(ctx, id, typeLabel); errors.Is(err, storage.ErrConflict) {
			in.logger.Warn("OMIM entry prefix disagrees with mim2gene", "id", id, "error", err)
			typeLabel, ok = "", false
		} else if err != nil {
			return err
		}
	}
	if !ok {
		var err error
		typeLabel, err = in.types.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			in.logger.Warn("OMIM entry has no type", "id", id, "prefix", e.Prefix, "status", e.Status)
		} else if err != nil {
			return err
		}
	}

	if err := in.label(id, typeLabel, e.Titles.PreferredTitle); err != nil {
		return err
	}
	if e.Status == StatusMoved {
		return in.deprecate(id, MovedTo(string(e.MovedTo)))
	}
	return nil
}

// label names an entry. Genes and phenotypic loci are known by their
// abbreviation, keeping the full title as description; the abbreviation is
// a related synonym either way.
func (in *Ingest) label(id, typeLabel, title string) error {
	label, abbrev := SplitTitle(title)
	nodeLabel := label
	if abbrev != "" && (typeLabel == LabelGene || typeLabel == LabelHeritableMarker) {
		nodeLabel = abbrev
	}

	if typeLabel == "" {
		if err := in.about(id, "label", nodeLabel); err != nil {
			return err
		}
	} else if err := in.describe(id, typeLabel, nodeLabel); err != nil {
		return err
	}
	if nodeLabel != label {
		if err := in.about(id, "description", label); err != nil {
			return err
		}
	}
	return in.about(id, "has_related_synonym", abbrev)
}

// about adds a text triple; blank text is skipped.
func (in *Ingest) about(id, predicateLabel, text string) error {
	if text == "" {
		return nil
	}
	p, err := in.resolver.Term(predicateLabel)
	if err != nil {
		return err
	}
	return in.graph.AddTriple(id, p, graph.Text(text))
}

// deprecate marks id as a deprecated class, pointing at replacements.
func (in *Ingest) deprecate(id string, consider []string) error {
	class, err := in.resolver.Term("Class")
	if err != nil {
		return err
	}
	if err := in.graph.AddType(id, class); err != nil {
		return err
	}
	p, err := in.resolver.Term("deprecated")
	if err != nil {
		return err
	}
	if err := in.graph.AddTriple(id, p, true); err != nil {
		return err
	}
	if len(consider) == 0 {
		return nil
	}
	p, err = in.resolver.Term("consider")
	if err != nil {
		return err
	}
	for _, c := range consider {
		if err := in.graph.AddTriple(id, p, c); err != nil {
			return err
		}
	}
	return nil
}
