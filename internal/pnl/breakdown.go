package pnl

import (
	"fmt"
	"math"

	"github.com/simonvc/minipnl/internal/ledger"
)

// Breakdown lays out the terms behind metric for period, read from the
// displayed report values. An empty period means the dashboard anchor.
func Breakdown(r *ledger.Report, metric ledger.Metric, period ledger.Period) (ledger.Breakdown, error) {
	if r.Empty() {
		return ledger.Breakdown{}, ledger.ErrNoTransactions
	}
	if period == "" {
		period = AnchorPeriod(r)
	}
	if !hasPeriod(r, period) {
		return ledger.Breakdown{}, fmt.Errorf("%w: %s is not in the report", ledger.ErrInvalidPeriod, period)
	}

	val := func(n ledger.RowNumber) float64 { return r.Value(n, period) }
	abs := func(n ledger.RowNumber) float64 { return math.Abs(val(n)) }
	step := func(label string, v float64, symbol string) ledger.BreakdownStep {
		return ledger.BreakdownStep{Label: label, Value: v, Symbol: symbol}
	}
	sub := func(label string, v float64, symbol string) ledger.BreakdownStep {
		return ledger.BreakdownStep{Label: label, Value: v, Symbol: symbol, Sub: true}
	}

	b := ledger.Breakdown{Metric: metric, Period: period}
	switch metric {
	case ledger.MetricTotalRevenue:
		b.Result = val(ledger.RowGrossRevenue)
		b.Steps = []ledger.BreakdownStep{
			step("Google Revenue", val(ledger.RowGoogleRevenue), "+"),
			step("Apple Revenue", val(ledger.RowAppleRevenue), "+"),
			step("Investment Income", val(ledger.RowInvestIncome), "+"),
			step("Total", b.Result, "="),
		}
	case ledger.MetricGrossProfit:
		b.Result = val(ledger.RowGrossProfit)
		b.Steps = []ledger.BreakdownStep{
			step("Total Revenue", val(ledger.RowGrossRevenue), ""),
			step("Cost of Revenue", abs(ledger.RowDirectCosts), "-"),
			sub(fmt.Sprintf("Payment Processing (%.2f%%)", ProcessingFeeRate*100), abs(ledger.RowProcessing), "-"),
			sub("COGS (Web Services)", abs(ledger.RowCOGS), "-"),
			step("Total", b.Result, "="),
		}
	case ledger.MetricEBITDA:
		b.Result = val(ledger.RowEBITDA)
		sga := abs(ledger.RowMarketing) + abs(ledger.RowWages) + abs(ledger.RowTechSupport)
		b.Steps = []ledger.BreakdownStep{
			step("Gross Profit", val(ledger.RowGrossProfit), ""),
			step("Operating Expenses", abs(ledger.RowOperatingExpense), "-"),
			sub("SG&A", sga, "-"),
			sub("Marketing", abs(ledger.RowMarketing), "+"),
			sub("Wages", abs(ledger.RowWages), "+"),
			sub("Tech Support & Services", abs(ledger.RowTechSupport), "+"),
			sub("Other Expenses", abs(ledger.RowOtherExpenses), "-"),
			step("Total", b.Result, "="),
		}
	case ledger.MetricNetResult:
		b.Result = val(ledger.RowNetResult)
		b.Steps = []ledger.BreakdownStep{
			step("EBITDA", val(ledger.RowEBITDA), ""),
			step("Interest, Tax, Depreciation", 0, "-"),
			step("Total", b.Result, "="),
		}
	case ledger.MetricEBITDAMargin:
		b.Result = val(ledger.RowEBITDAMargin)
		b.Steps = []ledger.BreakdownStep{
			step("EBITDA", val(ledger.RowEBITDA), ""),
			step("Total Revenue", val(ledger.RowGrossRevenue), "/"),
			step("Margin %", b.Result, "="),
		}
	case ledger.MetricGrossMargin:
		b.Result = val(ledger.RowGrossMargin)
		b.Steps = []ledger.BreakdownStep{
			step("Gross Profit", val(ledger.RowGrossProfit), ""),
			step("Total Revenue", val(ledger.RowGrossRevenue), "/"),
			step("Margin %", b.Result, "="),
		}
	default:
		return ledger.Breakdown{}, fmt.Errorf("%w: %q", ledger.ErrUnknownMetric, metric)
	}
	return b, nil
}

func hasPeriod(r *ledger.Report, p ledger.Period) bool {
	for _, h := range r.Headers {
		if h == p {
			return true
		}
	}
	return false
}
