// Package main provides the sensispan CLI.
//
// sensispan aggregates the span predictions of several independent
// sensitive-data taggers over one text into a single non-overlapping,
// category-attributed entity list with coverage statistics.
//
// Usage:
//
//	sensispan aggregate --text report.txt predictions.json
//	sensispan aggregate --text report.txt --policy category-priority predictions.json
//
// See --help for all available options.
package main

// main is the entry point for sensispan.
func main() {
	Execute()
}
