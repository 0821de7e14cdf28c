package pnl

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/simonvc/minipnl/internal/ledger"
)

// Window is an inclusive date filter. A zero bound is open.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses optional YYYY-MM-DD bounds.
func ParseWindow(start, end string) (Window, error) {
	var w Window
	var err error
	if s := strings.TrimSpace(start); s != "" {
		if w.Start, err = time.Parse(ledger.DateLayout, s); err != nil {
			return Window{}, fmt.Errorf("%w: start_date %q (want YYYY-MM-DD)", ledger.ErrInvalidDateRange, start)
		}
	}
	if s := strings.TrimSpace(end); s != "" {
		if w.End, err = time.Parse(ledger.DateLayout, s); err != nil {
			return Window{}, fmt.Errorf("%w: end_date %q (want YYYY-MM-DD)", ledger.ErrInvalidDateRange, end)
		}
	}
	if !w.Start.IsZero() && !w.End.IsZero() && w.Start.After(w.End) {
		return Window{}, fmt.Errorf("%w: start_date %s is after end_date %s", ledger.ErrInvalidDateRange, start, end)
	}
	return w, nil
}

// Contains reports whether t falls on or between the bounds, by calendar day.
func (w Window) Contains(t time.Time) bool {
	day := t.Format(ledger.DateLayout)
	if !w.Start.IsZero() && day < w.Start.Format(ledger.DateLayout) {
		return false
	}
	if !w.End.IsZero() && day > w.End.Format(ledger.DateLayout) {
		return false
	}
	return true
}

// Filter returns the transactions inside the window, preserving order.
func (w Window) Filter(txs []ledger.Transaction) []ledger.Transaction {
	if w.Start.IsZero() && w.End.IsZero() {
		return txs
	}
	out := make([]ledger.Transaction, 0, len(txs))
	for _, tx := range txs {
		if w.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// ResolvePeriods returns the sorted, distinct months present in txs.
func ResolvePeriods(txs []ledger.Transaction) []ledger.Period {
	seen := make(map[ledger.Period]struct{})
	for _, tx := range txs {
		seen[tx.Period()] = struct{}{}
	}
	periods := make([]ledger.Period, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	return periods
}
