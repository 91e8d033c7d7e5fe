// Package tagger defines the collaborator boundary between the aggregation
// engine and the external span-labeling models.
//
// A Tagger wraps one model-serving backend: given the input text it returns
// the model's raw span predictions. The Registry holds the configured
// taggers and fans a text out to all of them concurrently; results are
// keyed by tagger id, exactly the shape aggregate.Engine.Aggregate expects.
// Because the engine is order-independent over that map, taggers may finish
// in any order.
//
// The registry replaces ad hoc per-model pipeline singletons: taggers are
// registered once at startup and the populated registry is injected into
// whatever surface drives aggregation. Registry is not safe for concurrent
// registration; register everything before calling TagAll.
package tagger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/klassify/sensispan/span"
)

// Tagger is one external span-labeling model.
type Tagger interface {
	// ID identifies the model; it becomes the Model field of every span
	// the tagger contributes. IDs are unique within a registry.
	ID() string

	// Tag returns the model's raw span predictions for text. Blocking
	// calls to a serving backend belong here, bounded by ctx.
	Tag(ctx context.Context, text string) ([]span.Span, error)
}

// Registry holds the configured taggers and runs them as a group.
type Registry struct {
	taggers     []Tagger
	ids         map[string]bool
	concurrency int
	logger      *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithConcurrency caps the number of taggers running at once.
// Default is 4.
func WithConcurrency(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger used for per-tagger progress.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		ids:         make(map[string]bool),
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tagger. A duplicate id is a wiring mistake and returns an
// error.
func (r *Registry) Register(t Tagger) error {
	if r.ids[t.ID()] {
		return fmt.Errorf("tagger %q already registered", t.ID())
	}
	r.ids[t.ID()] = true
	r.taggers = append(r.taggers, t)
	return nil
}

// Len returns the number of registered taggers.
func (r *Registry) Len() int {
	return len(r.taggers)
}

// TagAll runs every registered tagger against text concurrently and returns
// their predictions keyed by tagger id. The first tagger failure cancels
// the remaining calls and fails TagAll, wrapped with the tagger's id; the
// engine deliberately gets all results or none, since a silently missing
// model would skew conflict resolution.
func (r *Registry) TagAll(ctx context.Context, text string) (map[string][]span.Span, error) {
	results := make(map[string][]span.Span, len(r.taggers))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, t := range r.taggers {
		g.Go(func() error {
			spans, err := t.Tag(ctx, text)
			if err != nil {
				return fmt.Errorf("tagger %q: %w", t.ID(), err)
			}
			r.logger.Debug("tagger finished", "tagger", t.ID(), "spans", len(spans))
			mu.Lock()
			results[t.ID()] = spans
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
