package pnl

import (
	"fmt"
	"sort"

	"github.com/simonvc/minipnl/internal/ledger"
)

// DrillDownLines lists the transactions matched by any active rule that
// targets one of lines, optionally restricted to one period. Each rule is
// applied on its own: a specific rule matches on cost center and
// counterparty substring, a generic rule on cost center alone. Rules that
// first-match-wins shadows still list their matches, so the total can
// differ from the grid cells; a transaction matched by several rules is
// listed once.
func DrillDownLines(txs []ledger.Transaction, rules []ledger.MappingRule, lines []ledger.Line, period ledger.Period) ledger.DrillDown {
	want := make(map[ledger.Line]bool, len(lines))
	for _, l := range lines {
		want[l] = true
	}
	var targeted []ledger.MappingRule
	for _, r := range rules {
		if r.Active && want[r.TargetLine] {
			targeted = append(targeted, r)
		}
	}
	return collect(txs, period, lines, func(tx ledger.Transaction) bool {
		for _, r := range targeted {
			if ruleMatches(r, tx) {
				return true
			}
		}
		return false
	})
}

// DrillDownRow resolves a display row to its raw lines. Rows without raw
// lines (headers, totals, margins, payment processing) yield no transactions.
func DrillDownRow(txs []ledger.Transaction, rules []ledger.MappingRule, row ledger.RowNumber, period ledger.Period) (ledger.DrillDown, error) {
	def, ok := ledger.LookupRow(row)
	if !ok {
		return ledger.DrillDown{}, fmt.Errorf("%w: %d", ledger.ErrUnknownRow, row)
	}
	dd := DrillDownLines(txs, rules, def.RawLines, period)
	dd.Row = row
	return dd, nil
}

// DrillDownLine drills into a single raw line.
func DrillDownLine(txs []ledger.Transaction, rules []ledger.MappingRule, line ledger.Line, period ledger.Period) (ledger.DrillDown, error) {
	if err := line.ValidateRaw(); err != nil {
		return ledger.DrillDown{}, err
	}
	return DrillDownLines(txs, rules, []ledger.Line{line}, period), nil
}

// Unmatched lists the transactions no active rule classifies.
func Unmatched(txs []ledger.Transaction, rules []ledger.MappingRule, period ledger.Period) ledger.DrillDown {
	c := NewClassifier(rules)
	return collect(txs, period, nil, func(tx ledger.Transaction) bool {
		_, ok := c.Match(tx)
		return !ok
	})
}

func collect(txs []ledger.Transaction, period ledger.Period, lines []ledger.Line, keep func(ledger.Transaction) bool) ledger.DrillDown {
	dd := ledger.DrillDown{
		Lines:        append([]ledger.Line{}, lines...),
		Period:       period,
		Transactions: []ledger.Transaction{},
	}
	for _, tx := range txs {
		if period != "" && tx.Period() != period {
			continue
		}
		if !keep(tx) {
			continue
		}
		dd.Transactions = append(dd.Transactions, tx)
		dd.Total += tx.Amount
	}
	sort.SliceStable(dd.Transactions, func(i, j int) bool {
		return dd.Transactions[i].Date.Before(dd.Transactions[j].Date)
	})
	return dd
}
