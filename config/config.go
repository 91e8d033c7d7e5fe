// Package config loads and validates the process-wide aggregation
// configuration: the label→category table, per-category confidence
// thresholds, and the active conflict-resolution policy.
//
// Configuration is read from a YAML file (see data/categories.yaml for the
// embedded default) and validated once at load time; invalid entries are
// reported as *ConfigurationError then, never during an aggregation call.
// A loaded Config is read-only. Operators that hot-reload configuration
// should load a fresh Config and swap the pointer atomically so in-flight
// aggregations never observe a mix of old and new values.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/klassify/sensispan/data"
	"github.com/klassify/sensispan/label"
	"github.com/klassify/sensispan/resolve"
	"github.com/klassify/sensispan/span"
)

// DefaultThreshold is the global fallback confidence threshold applied to
// categories without an explicit entry.
const DefaultThreshold = 0.5

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ConfigurationError reports an invalid configuration entry. It is raised
// at load time only.
type ConfigurationError struct {
	Field  string // YAML field that is invalid, e.g. "thresholds.paymnt"
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// File is the YAML shape of a configuration file.
type File struct {
	Policy           string              `yaml:"policy"`
	AllowUnknown     bool                `yaml:"allow_unknown"`
	DefaultThreshold *float64            `yaml:"default_threshold"`
	Thresholds       map[string]float64  `yaml:"thresholds"`
	Priority         []string            `yaml:"priority"`
	Categories       map[string][]string `yaml:"categories"`
}

// Thresholds holds per-category acceptance thresholds with a global
// fallback for categories without an explicit entry.
type Thresholds struct {
	PerCategory map[span.Category]float64
	Default     float64
}

// For returns the threshold for a category, falling back to the default.
func (t Thresholds) For(c span.Category) float64 {
	if v, ok := t.PerCategory[c]; ok {
		return v
	}
	return t.Default
}

// Config is a validated, read-only aggregation configuration.
type Config struct {
	Table      *label.Table
	Thresholds Thresholds
	Policy     resolve.Policy
	Priority   []span.Category // used by the category-priority policy

	// AllowUnknown lets spans whose label is absent from the table survive
	// as unknown-category candidates. Off by default: an unmapped label
	// usually means a tagger vocabulary the table was never taught.
	AllowUnknown bool
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	return Parse(data.DefaultConfig)
}

// Load reads and validates a configuration file. A missing file returns
// ErrConfigNotFound so callers can distinguish "not configured" from
// "misconfigured".
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML configuration bytes.
func Parse(raw []byte) (*Config, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return build(&f)
}

// build validates the decoded file and assembles a Config.
func build(f *File) (*Config, error) {
	cfg := &Config{}

	policyName := f.Policy
	if policyName == "" {
		policyName = resolve.FirstWins.String()
	}
	policy, ok := resolve.PolicyFromName(policyName)
	if !ok {
		return nil, &ConfigurationError{Field: "policy", Reason: fmt.Sprintf("unknown policy %q", f.Policy)}
	}
	cfg.Policy = policy
	cfg.AllowUnknown = f.AllowUnknown

	cfg.Thresholds = Thresholds{
		PerCategory: make(map[span.Category]float64, len(f.Thresholds)),
		Default:     DefaultThreshold,
	}
	if f.DefaultThreshold != nil {
		if *f.DefaultThreshold < 0 || *f.DefaultThreshold > 1 {
			return nil, &ConfigurationError{Field: "default_threshold", Reason: "must be in [0,1]"}
		}
		cfg.Thresholds.Default = *f.DefaultThreshold
	}
	for name, v := range f.Thresholds {
		cat, ok := span.CategoryFromName(name)
		if !ok {
			return nil, &ConfigurationError{Field: "thresholds." + name, Reason: "unknown category"}
		}
		if v < 0 || v > 1 {
			return nil, &ConfigurationError{Field: "thresholds." + name, Reason: "must be in [0,1]"}
		}
		cfg.Thresholds.PerCategory[cat] = v
	}

	if len(f.Priority) == 0 {
		cfg.Priority = resolve.DefaultPriority()
	} else {
		seen := make(map[span.Category]bool, len(f.Priority))
		for _, name := range f.Priority {
			cat, ok := span.CategoryFromName(name)
			if !ok {
				return nil, &ConfigurationError{Field: "priority", Reason: fmt.Sprintf("unknown category %q", name)}
			}
			if seen[cat] {
				return nil, &ConfigurationError{Field: "priority", Reason: fmt.Sprintf("category %q listed twice", name)}
			}
			seen[cat] = true
			cfg.Priority = append(cfg.Priority, cat)
		}
	}

	entries := make(map[span.Category][]string, len(f.Categories))
	for name, labels := range f.Categories {
		cat, ok := span.CategoryFromName(name)
		if !ok {
			return nil, &ConfigurationError{Field: "categories." + name, Reason: "unknown category"}
		}
		entries[cat] = labels
	}
	table, err := label.NewTable(entries)
	if err != nil {
		return nil, &ConfigurationError{Field: "categories", Reason: err.Error()}
	}
	cfg.Table = table

	return cfg, nil
}
