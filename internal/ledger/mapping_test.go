package ledger

import (
	"errors"
	"testing"
)

func TestMappingRuleIsGeneric(t *testing.T) {
	tests := []struct {
		counterparty string
		want         bool
	}{
		{"generic", true},
		{"  GENERIC ", true},
		{"Diversos", true},
		{"", true},
		{"AWS", false},
		{"generic services ltda", false},
	}
	for _, tt := range tests {
		r := MappingRule{CostCenter: "x", Counterparty: tt.counterparty}
		if got := r.IsGeneric(); got != tt.want {
			t.Errorf("IsGeneric(%q) = %v, want %v", tt.counterparty, got, tt.want)
		}
	}
}

func TestMappingRuleValidate(t *testing.T) {
	valid := MappingRule{CostCenter: "Wages Expenses", Counterparty: "generic", TargetLine: LineWages, Kind: KindExpense, Active: true}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid rule rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*MappingRule)
	}{
		{"empty cost center", func(r *MappingRule) { r.CostCenter = "  " }},
		{"zero line", func(r *MappingRule) { r.TargetLine = 0 }},
		{"derived line", func(r *MappingRule) { r.TargetLine = LineEBITDA }},
		{"out of grid", func(r *MappingRule) { r.TargetLine = 500 }},
		{"bad kind", func(r *MappingRule) { r.Kind = "Asset" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if !errors.Is(err, ErrInvalidMapping) {
				t.Fatalf("expected ErrInvalidMapping, got %v", err)
			}
		})
	}
}

func TestDefaultMappingsValid(t *testing.T) {
	if err := ValidateRules(DefaultMappings); err != nil {
		t.Fatalf("default mappings invalid: %v", err)
	}
	rules := DefaultRules()
	rules[0].CostCenter = "changed"
	if DefaultMappings[0].CostCenter == "changed" {
		t.Fatal("DefaultRules must return a copy")
	}
}

func TestStatementRowsBindValidLines(t *testing.T) {
	seen := map[RowNumber]bool{}
	for _, r := range Statement {
		if seen[r.Number] {
			t.Errorf("row %d listed twice", r.Number)
		}
		seen[r.Number] = true
		if r.Line != 0 && !r.Line.IsDerived() {
			t.Errorf("row %d displays non-derived line %d", r.Number, r.Line)
		}
		for _, l := range r.RawLines {
			if !l.IsRaw() {
				t.Errorf("row %d drills into non-raw line %d", r.Number, l)
			}
		}
	}
	if err := ValidateRow(RowMarketing); err != nil {
		t.Errorf("ValidateRow(9): %v", err)
	}
	if err := ValidateRow(99); !errors.Is(err, ErrUnknownRow) {
		t.Errorf("ValidateRow(99) = %v, want ErrUnknownRow", err)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-03")
	if err != nil || p != "2024-03" {
		t.Fatalf("ParsePeriod(2024-03) = %q, %v", p, err)
	}
	for _, in := range []string{"", "2024-3-1", "2024-13", "03/2024"} {
		if _, err := ParsePeriod(in); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("ParsePeriod(%q) = %v, want ErrInvalidPeriod", in, err)
		}
	}
}
