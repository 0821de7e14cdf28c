package pnl

import "github.com/simonvc/minipnl/internal/ledger"

// Stats counts how the window's transactions were routed.
type Stats struct {
	Transactions int `json:"transactions"`
	Classified   int `json:"classified"`
	Unmatched    int `json:"unmatched"`
}

// Aggregate routes each transaction's signed amount into the raw cell of the
// line its rule targets. Each transaction lands in at most one cell;
// unmatched and out-of-window rows land nowhere.
func Aggregate(g *Grid, c *Classifier, txs []ledger.Transaction) Stats {
	var st Stats
	for _, tx := range txs {
		p := tx.Period()
		if !g.Has(p) {
			continue
		}
		st.Transactions++
		r, ok := c.Match(tx)
		if !ok {
			st.Unmatched++
			continue
		}
		if g.add(r.TargetLine, p, tx.Amount) {
			st.Classified++
		} else {
			st.Unmatched++
		}
	}
	return st
}
