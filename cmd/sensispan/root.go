// Package main provides the sensispan CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sensispan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensispan",
		Short: "Aggregate multi-model sensitive-data span predictions",
		Long: `sensispan merges the outputs of several independent span-labeling models
(personal, payment, health, clinical data) over the same text into one
coherent, non-overlapping, confidence-ranked annotation.

The taggers themselves are external; sensispan consumes their raw span
predictions as JSON and emits the resolved entity list plus per-category
coverage statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAggregateCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogger configures the default slog logger from the verbose flag.
func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
