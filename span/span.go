// Package span defines the data model shared by the aggregation pipeline:
// labeled character ranges produced by taggers, resolved entities, and the
// fixed set of sensitivity categories.
//
// A Span is the atomic unit emitted by one tagger: a half-open byte range
// [Start, End) into the source text, the tagger's native label string, the
// covered text, a confidence score in [0, 1], and the id of the model that
// produced it. An Entity is a Span that survived conflict resolution and
// carries its assigned Category.
//
// Spans are immutable once produced; Entities live only for the duration of
// one aggregation call. All functions are safe for concurrent use by
// multiple goroutines.
package span

import (
	"encoding/json"
	"fmt"
)

// Category classifies a resolved entity into one of the fixed sensitivity
// classes.
type Category int

const (
	Unknown  Category = iota // label absent from the category table
	Personal                 // personally identifiable data (names, emails, phones)
	Payment                  // payment-card and financial account data
	Health                   // health-insurance and coverage data
	Clinical                 // clinical/medical record data
)

// categoryNames maps Category values to their string names.
var categoryNames = [...]string{
	Unknown:  "unknown",
	Personal: "personal",
	Payment:  "payment",
	Health:   "health",
	Clinical: "clinical",
}

// categoryFromName maps string names back to Category values.
var categoryFromName = map[string]Category{
	"unknown":  Unknown,
	"personal": Personal,
	"payment":  Payment,
	"health":   Health,
	"clinical": Clinical,
}

// Categories returns all known categories in declaration order, Unknown
// first.
func Categories() []Category {
	return []Category{Unknown, Personal, Payment, Health, Clinical}
}

// CategoryFromName returns the Category with the given name.
// The second return value reports whether the name is known.
func CategoryFromName(name string) (Category, bool) {
	c, ok := categoryFromName[name]
	return c, ok
}

// String returns the name of the category.
func (c Category) String() string {
	if int(c) >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// MarshalJSON encodes the category as a JSON string (e.g. "payment").
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a JSON string (e.g. "payment") into a Category.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	cat, ok := categoryFromName[s]
	if !ok {
		const maxErrLen = 50
		if len(s) > maxErrLen {
			s = s[:maxErrLen] + "..."
		}
		return fmt.Errorf("unknown category: %q", s)
	}
	*c = cat
	return nil
}

// Span is a labeled character range produced by one tagger.
type Span struct {
	Start      int     `json:"start"`      // Byte offset in the source text (inclusive)
	End        int     `json:"end"`        // Byte offset in the source text (exclusive)
	RawLabel   string  `json:"raw_label"`  // Tagger-native label, possibly BIO-prefixed
	Text       string  `json:"text"`       // Covered substring after fragment cleanup
	Confidence float64 `json:"confidence"` // Score in [0, 1] from the source tagger
	Model      string  `json:"model"`      // Id of the tagger that produced the span
}

// Len returns the width of the span's character range.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether the two spans' [Start, End) ranges intersect.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// String returns a debug representation, e.g. B-PER("John")[0:6,0.92,ner-a].
func (s Span) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d,%.2f,%s]",
		s.RawLabel, s.Text, s.Start, s.End, s.Confidence, s.Model)
}

// Entity is a resolved, category-tagged span surviving conflict resolution.
type Entity struct {
	Span
	Category Category `json:"category"`
}

// String returns a debug representation, e.g. payment("4111...")[10:29].
func (e Entity) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", e.Category, e.Text, e.Start, e.End)
}

// ValidationError reports a malformed span received from a tagger. The
// aggregation call that encountered it fails as a whole: silently dropping a
// malformed span could mask a tagger integration bug.
type ValidationError struct {
	Model  string // tagger that produced the span
	Span   Span   // the offending span
	Reason string // what is wrong with it
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid span from model %q: %s: %s", e.Model, e.Reason, e.Span)
}

// Validate checks a raw span against the source text it claims to cover.
// It returns a *ValidationError when offsets are out of range, the range is
// empty or inverted, or the confidence is outside [0, 1].
//
// Fragment text length is deliberately not required to equal End-Start:
// sub-word tokenizers emit marker glyphs and rune-level ranges that make the
// two diverge before normalization. A fragment whose text is longer than its
// range once markers are stripped is still rejected, by the engine.
func Validate(model string, s Span, textLen int) error {
	switch {
	case s.Start < 0:
		return &ValidationError{Model: model, Span: s, Reason: "start < 0"}
	case s.End <= s.Start:
		return &ValidationError{Model: model, Span: s, Reason: "end <= start"}
	case s.End > textLen:
		return &ValidationError{Model: model, Span: s, Reason: fmt.Sprintf("end > len(text)=%d", textLen)}
	case s.Confidence < 0 || s.Confidence > 1:
		return &ValidationError{Model: model, Span: s, Reason: "confidence outside [0,1]"}
	}
	return nil
}
