package pnl

import "github.com/simonvc/minipnl/internal/ledger"

// groupSum describes a header row displayed as the sum of grid lines and
// sibling rows. Sibling rows contribute their displayed (overridden) value.
type groupSum struct {
	lines []ledger.Line
	rows  []ledger.RowNumber
}

// groupSums is the only recomputation done after overrides, and it is one
// level deep: overriding Marketing moves neither the operating expenses
// header (which reads SG&A from the grid) nor EBITDA.
var groupSums = map[ledger.RowNumber]groupSum{
	ledger.RowDirectCosts:      {rows: []ledger.RowNumber{ledger.RowProcessing, ledger.RowCOGS}},
	ledger.RowOperatingExpense: {lines: []ledger.Line{ledger.LineSGATotal}, rows: []ledger.RowNumber{ledger.RowOtherExpenses}},
}

// overlay resolves displayed values from a computed grid and an override set.
type overlay struct {
	grid      *Grid
	overrides ledger.OverrideSet
}

// value returns the displayed value of row for p. An override on the row
// itself always wins, including on group rows.
func (o overlay) value(def ledger.RowDef, p ledger.Period) float64 {
	if v, ok := o.overrides.Get(def.Number, p); ok {
		return v
	}
	if gs, ok := groupSums[def.Number]; ok {
		total := o.grid.Sum(p, gs.lines...)
		for _, n := range gs.rows {
			child, ok := ledger.LookupRow(n)
			if !ok {
				continue
			}
			total += o.siblingValue(child, p)
		}
		return total
	}
	return o.grid.Get(def.Line, p)
}

// siblingValue is value without group recursion.
func (o overlay) siblingValue(def ledger.RowDef, p ledger.Period) float64 {
	if v, ok := o.overrides.Get(def.Number, p); ok {
		return v
	}
	return o.grid.Get(def.Line, p)
}
