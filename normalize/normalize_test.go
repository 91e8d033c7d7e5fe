package normalize

import (
	"testing"

	"github.com/klassify/sensispan/span"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "John", "John"},
		{"wordpiece marker", "##son", "son"},
		{"sentencepiece marker", "▁John", "John"},
		{"bpe space marker", "ĠJohn", "John"},
		{"bpe newline marker", "ĊJohn", "John"},
		{"marker only", "##", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFragments(t *testing.T) {
	tests := []struct {
		name string
		in   []span.Span
		want []span.Span
	}{
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
		{
			name: "single fragment",
			in:   []span.Span{{Start: 0, End: 4, RawLabel: "B-PER", Text: "John", Confidence: 0.9}},
			want: []span.Span{{Start: 0, End: 4, RawLabel: "B-PER", Text: "John", Confidence: 0.9}},
		},
		{
			name: "contiguous same label merges",
			in: []span.Span{
				{Start: 0, End: 3, RawLabel: "B-PER", Text: "Jo", Confidence: 0.8},
				{Start: 3, End: 6, RawLabel: "I-PER", Text: "hn", Confidence: 0.95},
			},
			want: []span.Span{
				{Start: 0, End: 6, RawLabel: "B-PER", Text: "John", Confidence: 0.95},
			},
		},
		{
			name: "merged confidence is the maximum of the run",
			in: []span.Span{
				{Start: 0, End: 2, RawLabel: "B-PER", Text: "Jo", Confidence: 0.97},
				{Start: 2, End: 4, RawLabel: "I-PER", Text: "##hn", Confidence: 0.41},
			},
			want: []span.Span{
				{Start: 0, End: 4, RawLabel: "B-PER", Text: "John", Confidence: 0.97},
			},
		},
		{
			name: "gap starts a new span",
			in: []span.Span{
				{Start: 0, End: 4, RawLabel: "B-PER", Text: "John", Confidence: 0.9},
				{Start: 5, End: 10, RawLabel: "I-PER", Text: "Smith", Confidence: 0.8},
			},
			want: []span.Span{
				{Start: 0, End: 4, RawLabel: "B-PER", Text: "John", Confidence: 0.9},
				{Start: 5, End: 10, RawLabel: "I-PER", Text: "Smith", Confidence: 0.8},
			},
		},
		{
			name: "different label starts a new span",
			in: []span.Span{
				{Start: 0, End: 4, RawLabel: "B-PER", Text: "John", Confidence: 0.9},
				{Start: 4, End: 9, RawLabel: "B-EMAIL", Text: "@x.az", Confidence: 0.7},
			},
			want: []span.Span{
				{Start: 0, End: 4, RawLabel: "B-PER", Text: "John", Confidence: 0.9},
				{Start: 4, End: 9, RawLabel: "B-EMAIL", Text: "@x.az", Confidence: 0.7},
			},
		},
		{
			name: "three-piece run",
			in: []span.Span{
				{Start: 10, End: 14, RawLabel: "B-CREDITCARDNUMBER", Text: "4111", Confidence: 0.6},
				{Start: 14, End: 18, RawLabel: "I-CREDITCARDNUMBER", Text: "##1111", Confidence: 0.9},
				{Start: 18, End: 22, RawLabel: "I-CREDITCARDNUMBER", Text: "##1111", Confidence: 0.7},
			},
			want: []span.Span{
				{Start: 10, End: 22, RawLabel: "B-CREDITCARDNUMBER", Text: "411111111111", Confidence: 0.9},
			},
		},
		{
			name: "markers stripped without offset change",
			in:   []span.Span{{Start: 3, End: 6, RawLabel: "B-PER", Text: "##son", Confidence: 0.5}},
			want: []span.Span{{Start: 3, End: 6, RawLabel: "B-PER", Text: "son", Confidence: 0.5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fragments(tt.in)
			compareSpans(t, tt.want, got)
		})
	}
}

func compareSpans(t *testing.T, want, got []span.Span) {
	t.Helper()

	if len(got) != len(want) {
		t.Errorf("got %d spans, want %d\n  got:  %v\n  want: %v", len(got), len(want), got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] got %v, want %v", i, got[i], want[i])
		}
	}
}
