package span

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{Unknown, "unknown"},
		{Personal, "personal"},
		{Payment, "payment"},
		{Health, "health"},
		{Clinical, "clinical"},
		{Category(99), "Category(99)"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", int(tt.cat), got, tt.want)
		}
	}
}

func TestCategoryFromName(t *testing.T) {
	for _, c := range Categories() {
		got, ok := CategoryFromName(c.String())
		if !ok || got != c {
			t.Errorf("CategoryFromName(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := CategoryFromName("financial"); ok {
		t.Error("CategoryFromName accepted an unknown name")
	}
}

func TestCategoryJSONRoundtrip(t *testing.T) {
	data, err := json.Marshal(Payment)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"payment"` {
		t.Errorf("marshal = %s, want \"payment\"", data)
	}

	var c Category
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != Payment {
		t.Errorf("roundtrip = %v, want Payment", c)
	}

	if err := json.Unmarshal([]byte(`"nope"`), &c); err == nil {
		t.Error("unmarshal accepted an unknown category")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{Start: 0, End: 5}, Span{Start: 5, End: 10}, false},
		{"adjacent touch is not overlap", Span{Start: 0, End: 5}, Span{Start: 5, End: 6}, false},
		{"partial", Span{Start: 0, End: 10}, Span{Start: 5, End: 15}, true},
		{"contained", Span{Start: 0, End: 10}, Span{Start: 3, End: 7}, true},
		{"identical", Span{Start: 2, End: 4}, Span{Start: 2, End: 4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	const textLen = 20
	tests := []struct {
		name   string
		s      Span
		wantOK bool
	}{
		{"valid", Span{Start: 0, End: 5, Text: "aaaaa", Confidence: 0.9}, true},
		{"valid at text end", Span{Start: 15, End: 20, Confidence: 1}, true},
		{"negative start", Span{Start: -1, End: 5}, false},
		{"empty range", Span{Start: 5, End: 5}, false},
		{"inverted range", Span{Start: 8, End: 3}, false},
		{"end past text", Span{Start: 15, End: 21}, false},
		{"confidence above one", Span{Start: 0, End: 5, Confidence: 1.1}, false},
		{"confidence below zero", Span{Start: 0, End: 5, Confidence: -0.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("m1", tt.s, textLen)
			if tt.wantOK {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate = %v, want *ValidationError", err)
			}
			if verr.Model != "m1" {
				t.Errorf("ValidationError.Model = %q, want %q", verr.Model, "m1")
			}
		})
	}
}
