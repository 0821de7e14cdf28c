package pnl

import (
	"math"

	"github.com/simonvc/minipnl/internal/ledger"
)

// AnchorPeriod is the latest period with positive gross revenue, falling
// back to the last period. It is empty for an empty report.
func AnchorPeriod(r *ledger.Report) ledger.Period {
	if len(r.Headers) == 0 {
		return ""
	}
	for i := len(r.Headers) - 1; i >= 0; i-- {
		p := r.Headers[i]
		if r.Value(ledger.RowGrossRevenue, p) > 0 {
			return p
		}
	}
	return r.Headers[len(r.Headers)-1]
}

// Dashboard extracts KPIs, the monthly series and the anchor-month cost
// structure from a built report. Rows are read by number.
func Dashboard(r *ledger.Report) ledger.Dashboard {
	d := ledger.Dashboard{MonthlyData: []ledger.MonthlyPoint{}}
	anchor := AnchorPeriod(r)
	if anchor == "" {
		return d
	}
	d.AnchorPeriod = anchor

	revenue := r.Value(ledger.RowGrossRevenue, anchor)
	ebitda := r.Value(ledger.RowEBITDA, anchor)
	gross := r.Value(ledger.RowGrossProfit, anchor)
	d.KPIs = ledger.KPIs{
		TotalRevenue:  revenue,
		NetResult:     r.Value(ledger.RowNetResult, anchor),
		EBITDA:        ebitda,
		EBITDAMargin:  fractionOf(ebitda, revenue),
		GrossMargin:   fractionOf(gross, revenue),
		GoogleRevenue: r.Value(ledger.RowGoogleRevenue, anchor),
		AppleRevenue:  r.Value(ledger.RowAppleRevenue, anchor),
	}

	for _, p := range r.Headers {
		d.MonthlyData = append(d.MonthlyData, ledger.MonthlyPoint{
			Period:   p,
			Revenue:  r.Value(ledger.RowGrossRevenue, p),
			EBITDA:   r.Value(ledger.RowEBITDA, p),
			Costs:    math.Abs(r.Value(ledger.RowDirectCosts, p)),
			Expenses: math.Abs(r.Value(ledger.RowOperatingExpense, p)),
		})
	}

	d.CostStructure = ledger.CostStructure{
		PaymentProcessing: math.Abs(r.Value(ledger.RowProcessing, anchor)),
		COGS:              math.Abs(r.Value(ledger.RowCOGS, anchor)),
		Marketing:         math.Abs(r.Value(ledger.RowMarketing, anchor)),
		Wages:             math.Abs(r.Value(ledger.RowWages, anchor)),
		Tech:              math.Abs(r.Value(ledger.RowTechSupport, anchor)),
		Other:             math.Abs(r.Value(ledger.RowOtherExpenses, anchor)),
	}
	return d
}

func fractionOf(v, total float64) float64 {
	if total == 0 {
		return 0
	}
	return v / total
}
