// Package main provides the sensispan CLI.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/klassify/sensispan/aggregate"
	"github.com/klassify/sensispan/config"
	"github.com/klassify/sensispan/resolve"
	"github.com/klassify/sensispan/span"
)

// result is the JSON shape written to stdout.
type result struct {
	Entities []span.Entity   `json:"entities"`
	Stats    aggregate.Stats `json:"stats"`
}

// NewAggregateCmd creates the aggregate command.
func NewAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate [predictions.json]",
		Short: "Merge per-model span predictions into one entity list",
		Long: `Aggregate reads raw span predictions keyed by model id from a JSON file
(or stdin when the argument is "-" or omitted), merges them over the input
text, and writes the resolved entities and coverage statistics as JSON.

The predictions file maps model ids to span lists:

  {"pii-base": [{"start":0,"end":6,"raw_label":"B-PER","text":"John","confidence":0.93}]}`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAggregate,
	}

	cmd.Flags().StringP("text", "t", "", "Path to the analyzed text file (required)")
	cmd.Flags().StringP("config", "c", "", "Path to a YAML configuration file (default: embedded)")
	cmd.Flags().String("policy", "", "Override the conflict policy: first-wins or category-priority")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

// runAggregate executes the aggregate command.
func runAggregate(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	setupLogger(verbose)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	textPath, _ := cmd.Flags().GetString("text")
	text, err := os.ReadFile(textPath)
	if err != nil {
		return fmt.Errorf("reading text: %w", err)
	}

	predictions, err := readPredictions(args)
	if err != nil {
		return err
	}
	slog.Debug("loaded predictions", "models", len(predictions), "policy", cfg.Policy)

	engine := aggregate.New(cfg)
	entities, stats, err := engine.Aggregate(string(text), predictions)
	if err != nil {
		return err
	}
	if entities == nil {
		entities = []span.Entity{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result{Entities: entities, Stats: stats})
}

// loadConfig resolves the engine configuration from flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(path)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("configuration file %q does not exist", path)
		}
	}
	if err != nil {
		return nil, err
	}

	if name, _ := cmd.Flags().GetString("policy"); name != "" {
		policy, ok := resolve.PolicyFromName(name)
		if !ok {
			return nil, fmt.Errorf("unknown policy %q", name)
		}
		cfg.Policy = policy
	}
	return cfg, nil
}

// readPredictions decodes the per-model span map from a file or stdin.
func readPredictions(args []string) (map[string][]span.Span, error) {
	var r io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("reading predictions: %w", err)
		}
		defer f.Close()
		r = f
	}

	var predictions map[string][]span.Span
	if err := json.NewDecoder(r).Decode(&predictions); err != nil {
		return nil, fmt.Errorf("decoding predictions: %w", err)
	}
	return predictions, nil
}
