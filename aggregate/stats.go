package aggregate

import (
	"unicode"
	"unicode/utf8"

	"github.com/klassify/sensispan/span"
)

// OthersKey is the Stats key for tokens not covered by any accepted entity.
const OthersKey = "others"

// Stats maps category names (plus OthersKey) to the percentage of
// whitespace-delimited tokens of the input text covered by accepted
// entities of that category. Every token is counted in exactly one bucket,
// so the values sum to 100 up to floating rounding.
type Stats map[string]float64

// Coverage computes token-coverage statistics for a resolved entity set.
// A token is attributed to the first accepted entity (in start order) whose
// character range intersects it; uncovered tokens are tallied under
// OthersKey. A text with no tokens reports others: 100.
func Coverage(text string, entities []span.Entity) Stats {
	toks := tokenRanges(text)
	if len(toks) == 0 {
		return Stats{OthersKey: 100.0}
	}

	counts := make(map[string]int)
	others := 0

	// Entities arrive sorted by start and pairwise non-overlapping, so a
	// single cursor over them suffices.
	i := 0
	for _, tok := range toks {
		for i < len(entities) && entities[i].End <= tok.start {
			i++
		}
		if i < len(entities) && entities[i].Start < tok.end {
			counts[entities[i].Category.String()]++
		} else {
			others++
		}
	}

	stats := make(Stats, len(counts)+1)
	total := float64(len(toks))
	for name, n := range counts {
		stats[name] = float64(n) / total * 100.0
	}
	if others > 0 || len(counts) == 0 {
		stats[OthersKey] = float64(others) / total * 100.0
	}
	return stats
}

// tokenRange is a whitespace-delimited token's byte range in the text.
type tokenRange struct {
	start, end int
}

// tokenRanges splits text on Unicode whitespace, keeping byte offsets.
func tokenRanges(text string) []tokenRange {
	var toks []tokenRange
	start := -1
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			if start >= 0 {
				toks = append(toks, tokenRange{start: start, end: i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
		i += size
	}
	if start >= 0 {
		toks = append(toks, tokenRange{start: start, end: len(text)})
	}
	return toks
}
