package label

import (
	"testing"

	"github.com/klassify/sensispan/span"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(map[span.Category][]string{
		span.Personal: {"PER", "EMAIL", "PHONE"},
		span.Payment:  {"CREDITCARDNUMBER", "CREDIT-CARD", "IBAN"},
		span.Clinical: {"DIAGNOSIS"},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func TestClassify(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		name     string
		rawLabel string
		want     span.Category
	}{
		{"bare label", "PER", span.Personal},
		{"B prefix", "B-PER", span.Personal},
		{"I prefix", "I-PER", span.Personal},
		{"lowercase input", "b-per", span.Personal},
		{"surrounding space", " EMAIL ", span.Personal},
		{"payment label", "B-CREDITCARDNUMBER", span.Payment},
		{"dash inside bare label", "CREDIT-CARD", span.Payment},
		{"clinical label", "I-DIAGNOSIS", span.Clinical},
		{"unknown label", "ORG", span.Unknown},
		{"unknown with prefix", "B-ORG", span.Unknown},
		{"empty label", "", span.Unknown},
		{"lone dash", "-", span.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Classify(tt.rawLabel); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.rawLabel, got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	table := testTable(t)
	for range 100 {
		if got := table.Classify("B-IBAN"); got != span.Payment {
			t.Fatalf("Classify(B-IBAN) = %v, want payment", got)
		}
	}
}

func TestNewTableRejectsConflicts(t *testing.T) {
	_, err := NewTable(map[span.Category][]string{
		span.Personal: {"SSN"},
		span.Payment:  {"SSN"},
	})
	if err == nil {
		t.Error("NewTable accepted a label mapped to two categories")
	}
}

func TestNewTableRejectsEmptyLabel(t *testing.T) {
	_, err := NewTable(map[span.Category][]string{
		span.Personal: {"  "},
	})
	if err == nil {
		t.Error("NewTable accepted a blank label")
	}
}

func TestStripBIO(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"B-PER", "PER"},
		{"I-PER", "PER"},
		{"b-per", "per"},
		{"PER", "PER"},
		{"O", "O"},
		{"CREDIT-CARD", "CREDIT-CARD"}, // only B-/I- markers are stripped
		{"B-", "B-"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripBIO(tt.in); got != tt.want {
			t.Errorf("StripBIO(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
