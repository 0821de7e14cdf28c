package pnl

import (
	"math"

	"github.com/simonvc/minipnl/internal/ledger"
)

// ProcessingFeeRate is the app-store commission applied to store revenue.
const ProcessingFeeRate = 0.1765

// Figures are the derived values of one period, costs as positive magnitudes.
type Figures struct {
	Google       float64
	Apple        float64
	Invest       float64
	RevenueFee   float64
	TotalRevenue float64
	Processing   float64
	COGS         float64
	GrossProfit  float64
	Marketing    float64
	Wages        float64
	Tech         float64
	Other        float64
	SGA          float64
	OpEx         float64
	EBITDA       float64
	NetResult    float64
	EBITDAMargin float64
	GrossMargin  float64
}

// ComputeFigures evaluates the formula chain for p from raw cells only.
func ComputeFigures(g *Grid, p ledger.Period) Figures {
	var f Figures
	f.Google = g.Sum(p, ledger.GoogleLines...)
	f.Apple = g.Sum(p, ledger.AppleLines...)
	f.Invest = g.Get(ledger.LineInvestIncome, p)
	f.RevenueFee = f.Google + f.Apple
	f.TotalRevenue = f.RevenueFee + f.Invest

	f.Processing = f.RevenueFee * ProcessingFeeRate
	for _, l := range ledger.COGSLines {
		f.COGS += math.Abs(g.Get(l, p))
	}
	f.GrossProfit = f.TotalRevenue - f.Processing - f.COGS

	f.Marketing = math.Abs(g.Get(ledger.LineMarketing, p))
	f.Wages = math.Abs(g.Get(ledger.LineWages, p))
	for _, l := range ledger.TechLines {
		f.Tech += math.Abs(g.Get(l, p))
	}
	f.Other = math.Abs(g.Get(ledger.LineOtherExpenses, p))
	f.SGA = f.Marketing + f.Wages + f.Tech
	f.OpEx = f.SGA + f.Other

	f.EBITDA = f.GrossProfit - f.OpEx
	// Interest, tax and depreciation are not modelled.
	f.NetResult = f.EBITDA

	f.EBITDAMargin = percentOf(f.EBITDA, f.TotalRevenue)
	f.GrossMargin = percentOf(f.GrossProfit, f.TotalRevenue)
	return f
}

func percentOf(v, total float64) float64 {
	if total == 0 {
		return 0
	}
	return v / total * 100
}

// ComputeDerived writes every derived line for every period of g.
// Costs are stored negated for display.
func ComputeDerived(g *Grid) {
	for _, p := range g.Periods() {
		f := ComputeFigures(g, p)
		g.set(ledger.LineGoogleTotal, p, f.Google)
		g.set(ledger.LineAppleTotal, p, f.Apple)
		g.set(ledger.LineInvestTotal, p, f.Invest)
		g.set(ledger.LineRevenueSubjectFee, p, f.RevenueFee)
		g.set(ledger.LineTotalRevenue, p, f.TotalRevenue)
		g.set(ledger.LineProcessingCost, p, -f.Processing)
		g.set(ledger.LineCOGSTotal, p, -f.COGS)
		g.set(ledger.LineGrossProfit, p, f.GrossProfit)
		g.set(ledger.LineMarketingTotal, p, -f.Marketing)
		g.set(ledger.LineWagesTotal, p, -f.Wages)
		g.set(ledger.LineTechTotal, p, -f.Tech)
		g.set(ledger.LineOtherTotal, p, -f.Other)
		g.set(ledger.LineSGATotal, p, -f.SGA)
		g.set(ledger.LineOpExTotal, p, -f.OpEx)
		g.set(ledger.LineEBITDA, p, f.EBITDA)
		g.set(ledger.LineNetResult, p, f.NetResult)
		g.set(ledger.LineEBITDAMargin, p, f.EBITDAMargin)
		g.set(ledger.LineGrossMargin, p, f.GrossMargin)
	}
}
