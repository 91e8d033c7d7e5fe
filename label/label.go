// Package label maps tagger-native label strings to sensitivity categories.
//
// Taggers emit labels in their own vocabularies ("PER", "EMAIL_ADDRESS",
// "CREDIT_CARD", ...), often prefixed with BIO boundary markers ("B-PER",
// "I-PER"). A Table holds the static bare-label → category mapping; Classify
// strips the BIO prefix when the remainder is a known bare label and looks
// the result up, returning span.Unknown for anything absent from the table.
//
// Tables are built once and read-only afterwards; all methods are safe for
// concurrent use by multiple goroutines.
package label

import (
	"fmt"
	"strings"

	"github.com/klassify/sensispan/span"
)

// Table is a static mapping from bare label strings to categories.
type Table struct {
	byLabel map[string]span.Category
}

// NewTable builds a Table from category → label-list entries. Label lookup
// is case-insensitive (labels are folded to upper case). A label listed
// under two categories is a configuration mistake and returns an error.
func NewTable(entries map[span.Category][]string) (*Table, error) {
	byLabel := make(map[string]span.Category)
	for cat, labels := range entries {
		for _, l := range labels {
			key := strings.ToUpper(strings.TrimSpace(l))
			if key == "" {
				return nil, fmt.Errorf("empty label under category %s", cat)
			}
			if prev, ok := byLabel[key]; ok && prev != cat {
				return nil, fmt.Errorf("label %q mapped to both %s and %s", key, prev, cat)
			}
			byLabel[key] = cat
		}
	}
	return &Table{byLabel: byLabel}, nil
}

// Len returns the number of bare labels in the table.
func (t *Table) Len() int {
	return len(t.byLabel)
}

// Classify maps a raw tagger label to its category.
//
// A BIO-style prefix (anything up to and including the last '-') is stripped
// only when the remainder is a known bare label; otherwise the whole string
// is treated as the bare label. This keeps labels that legitimately contain
// a dash ("CREDIT-CARD") intact while still handling "B-PER" and "I-PER".
// Labels absent from the table map to span.Unknown.
func (t *Table) Classify(rawLabel string) span.Category {
	key := strings.ToUpper(strings.TrimSpace(rawLabel))
	if i := strings.LastIndexByte(key, '-'); i >= 0 && i+1 < len(key) {
		if cat, ok := t.byLabel[key[i+1:]]; ok {
			return cat
		}
	}
	if cat, ok := t.byLabel[key]; ok {
		return cat
	}
	return span.Unknown
}

// StripBIO removes a leading "B-" or "I-" boundary marker from a raw label.
// Labels without the marker are returned unchanged. Unlike Table.Classify,
// this is table-independent: the normalizer uses it to compare fragment
// labels for identity before any category assignment happens.
func StripBIO(rawLabel string) string {
	if len(rawLabel) > 2 && rawLabel[1] == '-' {
		switch rawLabel[0] {
		case 'B', 'I', 'b', 'i':
			return rawLabel[2:]
		}
	}
	return rawLabel
}
