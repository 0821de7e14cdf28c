package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonvc/minipnl/internal/client"
	"github.com/simonvc/minipnl/internal/ledger"
)

type dashboardLoadedMsg struct {
	dash *ledger.Dashboard
	err  error
}

type dashboardModel struct {
	dash    *ledger.Dashboard
	loading bool
	err     error
	width   int
	height  int
}

func (m *dashboardModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		d, err := c.Dashboard(context.Background(), "", "")
		return dashboardLoadedMsg{dash: d, err: err}
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.dash = msg.dash
		m.err = msg.err
	}
	return m, nil
}

var (
	revenueBar = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	costBar    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ebitdaBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// bar draws value as a share of scale across width cells.
func bar(value, scale float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := 0
	if scale > 0 {
		filled = int(value / scale * float64(width))
	}
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m *dashboardModel) view() string {
	if m.loading {
		return "Loading dashboard..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.dash == nil || m.dash.Empty() {
		return dimStyle.Render("No transactions loaded. Run `minipnl upload <file.csv>` first.")
	}

	d := m.dash
	var b strings.Builder

	b.WriteString(titleStyle.Render("Dashboard"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  Anchor month " + string(d.AnchorPeriod)))
	b.WriteString("\n\n")

	kpi := func(label string, v float64) {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(label), amountStyle(v).Render(ledger.FormatCurrency(v))))
	}
	pct := func(label string, v float64) {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(label), amountStyle(v).Render(ledger.FormatPercent(v*100))))
	}
	kpi("Total revenue", d.KPIs.TotalRevenue)
	kpi("  Google Play", d.KPIs.GoogleRevenue)
	kpi("  App Store", d.KPIs.AppleRevenue)
	kpi("EBITDA", d.KPIs.EBITDA)
	kpi("Net result", d.KPIs.NetResult)
	pct("EBITDA margin", d.KPIs.EBITDAMargin)
	pct("Gross margin", d.KPIs.GrossMargin)

	barW := 30
	if m.width > 100 {
		barW = min(m.width-70, 60)
	}

	var scale float64
	for _, p := range d.MonthlyData {
		scale = max(scale, p.Revenue, p.Costs+p.Expenses)
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("  Monthly"))
	b.WriteString("\n")
	for _, p := range d.MonthlyData {
		b.WriteString(fmt.Sprintf("  %-8s %s %15s\n", p.Period, revenueBar.Render(bar(p.Revenue, scale, barW)), ledger.FormatAmount(p.Revenue)))
		b.WriteString(fmt.Sprintf("  %-8s %s %15s\n", "", costBar.Render(bar(p.Costs+p.Expenses, scale, barW)), ledger.FormatAmount(-(p.Costs+p.Expenses))))
		b.WriteString(fmt.Sprintf("  %-8s %s %15s\n", "", ebitdaBar.Render(bar(p.EBITDA, scale, barW)), amountStyle(p.EBITDA).Render(ledger.FormatAmount(p.EBITDA))))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s revenue  %s costs + expenses  %s EBITDA",
		revenueBar.Render("█"), costBar.Render("█"), ebitdaBar.Render("█"))))
	b.WriteString("\n\n")

	cs := d.CostStructure
	total := cs.Total()
	b.WriteString(headerStyle.Render("  Cost structure, " + string(d.AnchorPeriod)))
	b.WriteString("\n")
	for _, part := range []struct {
		label string
		v     float64
	}{
		{"Payment processing", cs.PaymentProcessing},
		{"COGS", cs.COGS},
		{"Marketing", cs.Marketing},
		{"Wages", cs.Wages},
		{"Tech", cs.Tech},
		{"Other", cs.Other},
	} {
		share := 0.0
		if total > 0 {
			share = part.v / total
		}
		b.WriteString(fmt.Sprintf("  %s %s %15s %7s\n",
			labelStyle.Render(part.label),
			costBar.Render(bar(part.v, total, 20)),
			ledger.FormatAmount(part.v),
			ledger.FormatPercent(share*100)))
	}
	b.WriteString(fmt.Sprintf("  %s %s %15s\n", labelStyle.Render("Total"), strings.Repeat(" ", 20), ledger.FormatAmount(total)))

	return b.String()
}
