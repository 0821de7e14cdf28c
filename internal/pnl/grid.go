package pnl

import "github.com/simonvc/minipnl/internal/ledger"

// Grid is a dense (line, period) table over every line of the grid and
// every period of the reporting window. Unwritten cells read 0.
type Grid struct {
	periods []ledger.Period
	index   map[ledger.Period]int
	cells   [][]float64
}

func NewGrid(periods []ledger.Period) *Grid {
	g := &Grid{
		periods: periods,
		index:   make(map[ledger.Period]int, len(periods)),
		cells:   make([][]float64, ledger.LastDerivedLine+1),
	}
	for i, p := range periods {
		g.index[p] = i
	}
	for l := ledger.FirstRawLine; l <= ledger.LastDerivedLine; l++ {
		g.cells[l] = make([]float64, len(periods))
	}
	return g
}

func (g *Grid) Periods() []ledger.Period { return g.periods }

// Has reports whether p is a column of the grid.
func (g *Grid) Has(p ledger.Period) bool {
	_, ok := g.index[p]
	return ok
}

func (g *Grid) Get(l ledger.Line, p ledger.Period) float64 {
	i, ok := g.index[p]
	if !ok || !l.Valid() {
		return 0
	}
	return g.cells[l][i]
}

// Sum adds the cells of lines for p.
func (g *Grid) Sum(p ledger.Period, lines ...ledger.Line) float64 {
	var total float64
	for _, l := range lines {
		total += g.Get(l, p)
	}
	return total
}

// add accumulates into a raw cell. Out-of-window periods and non-raw lines are ignored.
func (g *Grid) add(l ledger.Line, p ledger.Period, v float64) bool {
	i, ok := g.index[p]
	if !ok || !l.IsRaw() {
		return false
	}
	g.cells[l][i] += v
	return true
}

// set writes a derived cell.
func (g *Grid) set(l ledger.Line, p ledger.Period, v float64) {
	i, ok := g.index[p]
	if !ok || !l.IsDerived() {
		return
	}
	g.cells[l][i] = v
}
