package insights

import (
	"fmt"
	"strings"

	"github.com/simonvc/minipnl/internal/ledger"
)

const systemInstruction = "You are a helpful and critical financial assistant for a small app business."

// BuildPrompt renders the dashboard as the analyst prompt. Margins are sent
// as percentages.
func BuildPrompt(d ledger.Dashboard) string {
	var b strings.Builder
	b.WriteString("You are an expert financial analyst. Analyze the following monthly P&L figures ")
	b.WriteString("for a mobile app company and give candid, actionable insights.\n\n")

	fmt.Fprintf(&b, "KPIs for %s:\n", d.AnchorPeriod)
	fmt.Fprintf(&b, "- Total Revenue: %.2f\n", d.KPIs.TotalRevenue)
	fmt.Fprintf(&b, "- Google Play Revenue: %.2f\n", d.KPIs.GoogleRevenue)
	fmt.Fprintf(&b, "- App Store Revenue: %.2f\n", d.KPIs.AppleRevenue)
	fmt.Fprintf(&b, "- EBITDA: %.2f\n", d.KPIs.EBITDA)
	fmt.Fprintf(&b, "- Net Result: %.2f\n", d.KPIs.NetResult)
	fmt.Fprintf(&b, "- EBITDA Margin: %.1f%%\n", d.KPIs.EBITDAMargin*100)
	fmt.Fprintf(&b, "- Gross Margin: %.1f%%\n", d.KPIs.GrossMargin*100)

	b.WriteString("\nMonthly trend (revenue, direct costs, operating expenses, EBITDA):\n")
	for _, m := range d.MonthlyData {
		fmt.Fprintf(&b, "- %s: revenue=%.2f costs=%.2f expenses=%.2f ebitda=%.2f\n",
			m.Period, m.Revenue, m.Costs, m.Expenses, m.EBITDA)
	}

	cs := d.CostStructure
	fmt.Fprintf(&b, "\nCost structure for %s:\n", d.AnchorPeriod)
	fmt.Fprintf(&b, "- Payment processing: %.2f\n", cs.PaymentProcessing)
	fmt.Fprintf(&b, "- COGS (web services): %.2f\n", cs.COGS)
	fmt.Fprintf(&b, "- Marketing: %.2f\n", cs.Marketing)
	fmt.Fprintf(&b, "- Wages: %.2f\n", cs.Wages)
	fmt.Fprintf(&b, "- Tech support: %.2f\n", cs.Tech)
	fmt.Fprintf(&b, "- Other: %.2f\n", cs.Other)

	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. An honest opinion on the current financial situation.\n")
	b.WriteString("2. Three to five specific recommendations to improve profitability or reduce costs.\n")
	b.WriteString("3. Any worrying trends.\n\n")
	b.WriteString("Format the answer in Markdown. Be professional but direct.\n")
	return b.String()
}
