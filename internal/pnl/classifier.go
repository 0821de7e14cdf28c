package pnl

import (
	"strings"

	"github.com/simonvc/minipnl/internal/ledger"
)

type compiledRule struct {
	rule         ledger.MappingRule
	costCenter   string
	counterparty string
}

// Classifier resolves a transaction to at most one mapping rule.
// Specific rules are tried in declaration order and the first match wins;
// otherwise the generic rule for the cost center applies.
type Classifier struct {
	specific []compiledRule
	generic  map[string]ledger.MappingRule
}

// NewClassifier compiles the active rules. When several generic rules share
// a cost center the last declared one is kept.
func NewClassifier(rules []ledger.MappingRule) *Classifier {
	c := &Classifier{generic: make(map[string]ledger.MappingRule)}
	for _, r := range rules {
		if !r.Active {
			continue
		}
		cc := ledger.Normalize(r.CostCenter)
		if r.IsGeneric() {
			c.generic[cc] = r
			continue
		}
		c.specific = append(c.specific, compiledRule{
			rule:         r,
			costCenter:   cc,
			counterparty: ledger.Normalize(r.Counterparty),
		})
	}
	return c
}

// Match returns the rule tx resolves to.
func (c *Classifier) Match(tx ledger.Transaction) (ledger.MappingRule, bool) {
	cc := ledger.Normalize(tx.CostCenter)
	cp := ledger.Normalize(tx.Counterparty)
	for _, sr := range c.specific {
		if sr.costCenter == cc && strings.Contains(cp, sr.counterparty) {
			return sr.rule, true
		}
	}
	r, ok := c.generic[cc]
	return r, ok
}

// ruleMatches applies one rule on its own, without precedence.
func ruleMatches(r ledger.MappingRule, tx ledger.Transaction) bool {
	if ledger.Normalize(r.CostCenter) != ledger.Normalize(tx.CostCenter) {
		return false
	}
	if r.IsGeneric() {
		return true
	}
	return strings.Contains(ledger.Normalize(tx.Counterparty), ledger.Normalize(r.Counterparty))
}

// Line returns the raw line tx is routed to, or 0 when unmatched.
func (c *Classifier) Line(tx ledger.Transaction) ledger.Line {
	r, ok := c.Match(tx)
	if !ok {
		return 0
	}
	return r.TargetLine
}
