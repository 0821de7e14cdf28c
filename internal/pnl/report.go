package pnl

import "github.com/simonvc/minipnl/internal/ledger"

// Input is everything one computation reads. Callers hand in a consistent
// snapshot; the engine never mutates it.
type Input struct {
	Transactions []ledger.Transaction
	Rules        []ledger.MappingRule
	Overrides    ledger.OverrideSet
	Window       Window
}

// Result carries the report together with the grid it was read from.
type Result struct {
	Report ledger.Report
	Grid   *Grid
	Stats  Stats
}

// Build classifies, aggregates, derives and lays out the statement.
// An input with no transactions in the window yields an empty report.
func Build(in Input) *Result {
	txs := in.Window.Filter(in.Transactions)
	periods := ResolvePeriods(txs)
	g := NewGrid(periods)

	st := Aggregate(g, NewClassifier(in.Rules), txs)
	ComputeDerived(g)

	return &Result{
		Report: Layout(g, in.Overrides),
		Grid:   g,
		Stats:  st,
	}
}

// BuildReport is Build without the intermediate grid.
func BuildReport(in Input) ledger.Report {
	return Build(in).Report
}

// Layout reads the statement rows from a computed grid with overrides applied.
func Layout(g *Grid, overrides ledger.OverrideSet) ledger.Report {
	periods := g.Periods()
	if len(periods) == 0 {
		return ledger.Report{Headers: []ledger.Period{}, Rows: []ledger.Row{}}
	}

	ov := overlay{grid: g, overrides: overrides}
	rows := make([]ledger.Row, 0, len(ledger.Statement))
	for _, def := range ledger.Statement {
		values := make(map[ledger.Period]float64, len(periods))
		for _, p := range periods {
			values[p] = ov.value(def, p)
		}
		rows = append(rows, ledger.Row{
			LineNumber:  def.Number,
			Description: def.Description,
			Values:      values,
			IsHeader:    def.Header,
			IsTotal:     def.Total,
		})
	}

	headers := make([]ledger.Period, len(periods))
	copy(headers, periods)
	return ledger.Report{Headers: headers, Rows: rows}
}
