package ledger

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindRevenue Kind = "Revenue"
	KindCost    Kind = "Cost"
	KindExpense Kind = "Expense"
)

var AllKinds = []Kind{KindRevenue, KindCost, KindExpense}

// GenericCounterparty marks a rule keyed by cost center alone.
const GenericCounterparty = "generic"

// legacyGenericCounterparty is the sentinel used by exports that predate
// the "generic" keyword.
const legacyGenericCounterparty = "diversos"

// MappingRule binds a (cost center, counterparty) pattern to a raw line.
type MappingRule struct {
	GroupLabel   string `json:"group_label"`
	CostCenter   string `json:"cost_center"`
	Counterparty string `json:"counterparty"`
	TargetLine   Line   `json:"target_line"`
	Kind         Kind   `json:"kind"`
	Active       bool   `json:"active"`
	Note         string `json:"note,omitempty"`
}

// Normalize trims and lower-cases a label for rule matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsGeneric reports whether the rule falls back on cost center only.
func (m MappingRule) IsGeneric() bool {
	cp := Normalize(m.Counterparty)
	return cp == "" || cp == GenericCounterparty || cp == legacyGenericCounterparty
}

// Validate checks rule invariants.
func (m *MappingRule) Validate() error {
	if strings.TrimSpace(m.CostCenter) == "" {
		return fmt.Errorf("%w: cost center is required", ErrInvalidMapping)
	}
	if err := m.TargetLine.ValidateRaw(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	if !ValidKind(m.Kind) {
		return fmt.Errorf("%w: kind %q must be one of %v", ErrInvalidMapping, m.Kind, AllKinds)
	}
	return nil
}

// ValidKind checks if a kind string is valid.
func ValidKind(k Kind) bool {
	for _, v := range AllKinds {
		if v == k {
			return true
		}
	}
	return false
}

// ValidateRules validates every rule, reporting the first failure by position.
func ValidateRules(rules []MappingRule) error {
	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}
