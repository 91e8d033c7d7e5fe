// Package aggregate merges the outputs of several independent span-labeling
// taggers over one input text into a single coherent, non-overlapping,
// category-attributed entity set.
//
// For each model the engine normalizes sub-word fragments into whole-entity
// spans, assigns each span a sensitivity category from the label table, and
// drops spans below their category's confidence threshold (and, unless
// configured otherwise, spans whose label the table does not know). The
// surviving
// spans of all models are pooled and run through the conflict resolver; the
// result is the final entity list plus per-category token-coverage
// statistics.
//
// The engine is a pure computation: it performs no I/O, holds no state
// across calls, and produces identical output for any iteration order of
// the per-model input map. All methods are safe for concurrent use by
// multiple goroutines.
package aggregate

import (
	"slices"

	"github.com/klassify/sensispan/config"
	"github.com/klassify/sensispan/label"
	"github.com/klassify/sensispan/normalize"
	"github.com/klassify/sensispan/resolve"
	"github.com/klassify/sensispan/span"
)

// Engine aggregates per-model span predictions under one fixed
// configuration.
type Engine struct {
	table        *label.Table
	thresholds   config.Thresholds
	resolver     *resolve.Resolver
	allowUnknown bool
}

// New creates an Engine from a validated configuration.
func New(cfg *config.Config) *Engine {
	return &Engine{
		table:        cfg.Table,
		thresholds:   cfg.Thresholds,
		resolver:     resolve.New(cfg.Policy, cfg.Priority),
		allowUnknown: cfg.AllowUnknown,
	}
}

// Policy returns the active conflict-resolution policy.
func (e *Engine) Policy() resolve.Policy {
	return e.resolver.Policy()
}

// Aggregate merges raw per-model span predictions over text into a resolved
// entity list and coverage statistics.
//
// Every raw span is validated first; a malformed span fails the whole call
// with a *span.ValidationError naming the span and its model — no partial
// result is returned and no span is silently dropped. Zero models or zero
// surviving spans is a normal outcome: an empty entity list with all
// coverage under "others".
func (e *Engine) Aggregate(text string, predictions map[string][]span.Span) ([]span.Entity, Stats, error) {
	// Model order must not influence the result; iterate sorted keys so
	// even error selection is deterministic.
	models := make([]string, 0, len(predictions))
	for m := range predictions {
		models = append(models, m)
	}
	slices.Sort(models)

	for _, m := range models {
		for _, s := range predictions[m] {
			if err := span.Validate(m, s, len(text)); err != nil {
				return nil, nil, err
			}
			if len(normalize.CleanText(s.Text)) > s.End-s.Start {
				return nil, nil, &span.ValidationError{
					Model: m, Span: s, Reason: "text longer than span range after marker stripping",
				}
			}
		}
	}

	var pool []span.Entity
	for _, m := range models {
		merged := normalize.Fragments(predictions[m])
		ents := make([]span.Entity, 0, len(merged))
		for _, s := range merged {
			s.Model = m
			cat := e.table.Classify(s.RawLabel)
			if cat == span.Unknown && !e.allowUnknown {
				continue
			}
			ents = append(ents, span.Entity{Span: s, Category: cat})
		}
		pool = append(pool, FilterByConfidence(ents, e.thresholds)...)
	}

	entities := e.resolver.Resolve(pool)
	return entities, Coverage(text, entities), nil
}

// FilterByConfidence retains entities whose confidence is at or above their
// category's threshold. The boundary is inclusive and input order is
// preserved; this is a filter, not a ranking.
func FilterByConfidence(ents []span.Entity, thresholds config.Thresholds) []span.Entity {
	out := make([]span.Entity, 0, len(ents))
	for _, e := range ents {
		if e.Confidence >= thresholds.For(e.Category) {
			out = append(out, e)
		}
	}
	return out
}
