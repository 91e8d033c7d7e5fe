//go:build ignore

// e2e_pipeline exercises the full aggregation pipeline — tagger registry,
// normalization, classification, thresholding, and both conflict policies —
// against a synthetic three-model setup and prints the results as JSON.
// Run from the project root:
//
//	go run e2e/e2e_pipeline.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/klassify/sensispan/aggregate"
	"github.com/klassify/sensispan/config"
	"github.com/klassify/sensispan/resolve"
	"github.com/klassify/sensispan/span"
	"github.com/klassify/sensispan/tagger"
)

const text = "Patient John Smith paid 4111111111111111 for insulin, policy HP-88231, call 0501234567."

// staticTagger replays canned predictions, standing in for a model backend.
type staticTagger struct {
	id    string
	spans []span.Span
}

func (s staticTagger) ID() string { return s.id }

func (s staticTagger) Tag(ctx context.Context, _ string) ([]span.Span, error) {
	return s.spans, nil
}

func main() {
	reg := tagger.NewRegistry(tagger.WithConcurrency(3))

	taggers := []staticTagger{
		{id: "pii-base", spans: []span.Span{
			{Start: 8, End: 12, RawLabel: "B-PER", Text: "John", Confidence: 0.93},
			{Start: 12, End: 18, RawLabel: "I-PER", Text: "##_Smith", Confidence: 0.77},
			{Start: 76, End: 86, RawLabel: "B-PHONE", Text: "0501234567", Confidence: 0.85},
		}},
		{id: "pci-cards", spans: []span.Span{
			{Start: 24, End: 40, RawLabel: "B-CREDITCARDNUMBER", Text: "4111111111111111", Confidence: 0.96},
			{Start: 8, End: 18, RawLabel: "B-PER", Text: "John Smith", Confidence: 0.35},
		}},
		{id: "phi-clinical", spans: []span.Span{
			{Start: 45, End: 52, RawLabel: "B-MEDICATION", Text: "insulin", Confidence: 0.81},
			{Start: 61, End: 69, RawLabel: "B-POLICYNUM", Text: "HP-88231", Confidence: 0.72},
		}},
	}
	for _, tg := range taggers {
		if err := reg.Register(tg); err != nil {
			log.Fatalf("register: %v", err)
		}
	}

	predictions, err := reg.TagAll(context.Background(), text)
	if err != nil {
		log.Fatalf("tagging: %v", err)
	}

	cfg, err := config.Default()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	for _, policy := range []resolve.Policy{resolve.FirstWins, resolve.CategoryPriority} {
		cfg.Policy = policy
		entities, stats, err := aggregate.New(cfg).Aggregate(text, predictions)
		if err != nil {
			log.Fatalf("aggregate (%s): %v", policy, err)
		}

		fmt.Printf("--- policy: %s ---\n", policy)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Entities []span.Entity   `json:"entities"`
			Stats    aggregate.Stats `json:"stats"`
		}{entities, stats}); err != nil {
			log.Fatalf("encode: %v", err)
		}
	}
}
