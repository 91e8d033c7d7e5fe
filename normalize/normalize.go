// Package normalize cleans raw sub-word fragments emitted by a single
// tagger and merges them into whole-entity spans.
//
// Transformer-style taggers label sub-word pieces, not words: "Johnson"
// may arrive as "John" + "##son" (WordPiece), "▁John" + "son"
// (SentencePiece), or "ĠJohn" + "son" (byte-level BPE). Fragments carries
// two responsibilities:
//
//   - Strip tokenizer continuation/whitespace marker glyphs from each
//     fragment's text without touching its offsets.
//   - Merge runs of contiguous fragments that share a BIO-stripped label
//     into one span, concatenating text, extending the end offset, and
//     propagating the maximum confidence of the run (a low-confidence
//     continuation piece never drags down an otherwise strong entity).
//
// Fragments are merged only when strictly adjacent: the second fragment's
// start must equal the running span's end. A gap or a label change starts
// a new span.
//
// All functions are safe for concurrent use by multiple goroutines.
package normalize

import (
	"strings"

	"github.com/klassify/sensispan/label"
	"github.com/klassify/sensispan/span"
)

// markerReplacer strips sub-word continuation markers in a single pass.
// Covers WordPiece (##), SentencePiece (▁ U+2581), and byte-level BPE
// (Ġ U+0120, Ċ U+010A) vocabularies.
var markerReplacer = strings.NewReplacer(
	"##", "",
	"▁", "",
	"Ġ", "",
	"Ċ", "",
)

// CleanText returns the fragment text with tokenizer marker glyphs removed.
func CleanText(text string) string {
	return markerReplacer.Replace(text)
}

// Fragments merges an ordered sequence of raw fragments from one tagger
// into whole-entity spans. Offsets are preserved: a merged span covers
// [first.Start, last.End) of its run. An empty input yields nil; a single
// fragment yields a one-element result.
//
// The input order is trusted to be the tagger's emission order (ascending
// offsets); Fragments does not re-sort.
func Fragments(frags []span.Span) []span.Span {
	if len(frags) == 0 {
		return nil
	}

	out := make([]span.Span, 0, len(frags))
	cur := clean(frags[0])

	for _, f := range frags[1:] {
		f = clean(f)
		if f.Start == cur.End && label.StripBIO(f.RawLabel) == label.StripBIO(cur.RawLabel) {
			cur.Text += f.Text
			cur.End = f.End
			cur.Confidence = max(cur.Confidence, f.Confidence)
			continue
		}
		out = append(out, cur)
		cur = f
	}

	return append(out, cur)
}

// clean returns the fragment with marker glyphs stripped from its text.
func clean(f span.Span) span.Span {
	f.Text = CleanText(f.Text)
	return f
}
