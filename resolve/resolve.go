// Package resolve selects a maximal non-overlapping subset from a pool of
// candidate entity spans.
//
// Candidates are sorted by an explicit, total comparator and then walked
// with a coverage frontier: a candidate is accepted iff it starts at or
// after the end of the last accepted span, and the frontier advances to its
// end. A candidate that overlaps anything already accepted is discarded
// outright; the resolver never re-admits a higher-confidence loser. The
// comparator, not insertion order, decides every conflict, so the result is
// deterministic for any permutation of the input.
//
// Two policies are provided, selected by explicit configuration:
//
//   - FirstWins: sort by start ascending, then end descending. At any text
//     position the longest candidate wins; everything it overlaps loses.
//   - CategoryPriority: sort by a fixed category priority order, then by
//     confidence descending. A high-priority category claims its range
//     first even against earlier-starting lower-priority candidates.
//
// Resolve is idempotent: resolving an already non-overlapping set returns
// it unchanged (modulo canonical start order).
//
// All methods are safe for concurrent use by multiple goroutines.
package resolve

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/klassify/sensispan/span"
)

// Policy selects the conflict-resolution strategy.
type Policy int

const (
	FirstWins        Policy = iota // longest-at-position wins, start-order walk
	CategoryPriority               // fixed category ranking, then confidence
)

// policyNames maps Policy values to their string names.
var policyNames = [...]string{
	FirstWins:        "first-wins",
	CategoryPriority: "category-priority",
}

// policyFromName maps string names back to Policy values.
var policyFromName = map[string]Policy{
	"first-wins":        FirstWins,
	"category-priority": CategoryPriority,
}

// PolicyFromName returns the Policy with the given name.
// The second return value reports whether the name is known.
func PolicyFromName(name string) (Policy, bool) {
	p, ok := policyFromName[name]
	return p, ok
}

// String returns the name of the policy.
func (p Policy) String() string {
	if int(p) >= 0 && int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// MarshalJSON encodes the policy as a JSON string (e.g. "first-wins").
func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a JSON string (e.g. "first-wins") into a Policy.
func (p *Policy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pol, ok := policyFromName[s]
	if !ok {
		return fmt.Errorf("unknown policy: %q", s)
	}
	*p = pol
	return nil
}

// DefaultPriority is the category precedence used by CategoryPriority when
// no explicit order is configured: payment data out-ranks personal data,
// which out-ranks health and clinical data.
func DefaultPriority() []span.Category {
	return []span.Category{span.Payment, span.Personal, span.Health, span.Clinical, span.Unknown}
}

// Resolver applies one policy to candidate pools.
type Resolver struct {
	policy Policy
	rank   map[span.Category]int // lower rank sorts first; CategoryPriority only
}

// New creates a Resolver for the given policy. The priority order is used
// only by CategoryPriority; pass nil to use DefaultPriority. Categories
// missing from a partial order rank below every listed one.
func New(policy Policy, priority []span.Category) *Resolver {
	if priority == nil {
		priority = DefaultPriority()
	}
	rank := make(map[span.Category]int, len(priority))
	for i, c := range priority {
		rank[c] = i
	}
	return &Resolver{policy: policy, rank: rank}
}

// Policy returns the active conflict-resolution policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolve selects a non-overlapping subset of the candidates and returns it
// sorted by start offset. The input slice is not modified.
func (r *Resolver) Resolve(candidates []span.Entity) []span.Entity {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]span.Entity, len(candidates))
	copy(sorted, candidates)

	accepted := make([]span.Entity, 0, len(sorted))

	switch r.policy {
	case CategoryPriority:
		// The walk is not in start order here, so the frontier shortcut
		// only proves non-overlap for candidates starting at or past it;
		// anything earlier is checked against the full accepted set.
		slices.SortFunc(sorted, r.comparePriority)
		frontier := 0
		for _, e := range sorted {
			if e.Start >= frontier {
				accepted = append(accepted, e)
				frontier = e.End
				continue
			}
			if !overlapsAny(accepted, e) {
				accepted = append(accepted, e)
				if e.End > frontier {
					frontier = e.End
				}
			}
		}
	default:
		slices.SortFunc(sorted, compareFirstWins)
		frontier := 0
		for _, e := range sorted {
			if e.Start >= frontier {
				accepted = append(accepted, e)
				frontier = e.End
			}
		}
	}

	slices.SortFunc(accepted, func(a, b span.Entity) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return accepted
}

// compareFirstWins sorts by start ascending, then end descending (longer
// span first among equal starts). Remaining fields are determinism
// tiebreaks only: category, confidence descending, model.
func compareFirstWins(a, b span.Entity) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(b.End, a.End); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Category, b.Category); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	return cmp.Compare(a.Model, b.Model)
}

// comparePriority sorts by category rank ascending, then confidence
// descending, then falls back to the first-wins order for determinism.
func (r *Resolver) comparePriority(a, b span.Entity) int {
	if c := cmp.Compare(r.rankOf(a.Category), r.rankOf(b.Category)); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	return compareFirstWins(a, b)
}

// rankOf returns the configured rank of a category; categories absent from
// the priority order rank after every configured one.
func (r *Resolver) rankOf(c span.Category) int {
	if rank, ok := r.rank[c]; ok {
		return rank
	}
	return len(r.rank)
}

// overlapsAny reports whether e overlaps any accepted entity.
func overlapsAny(accepted []span.Entity, e span.Entity) bool {
	for _, a := range accepted {
		if a.Overlaps(e.Span) {
			return true
		}
	}
	return false
}
