package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/minipnl/internal/ledger"
)

func sampleReport() *ledger.Report {
	return &ledger.Report{
		Headers: []ledger.Period{"2024-01", "2024-02"},
		Rows: []ledger.Row{
			{LineNumber: ledger.RowGrossRevenue, Description: "GROSS OPERATING REVENUE", IsHeader: true,
				Values: map[ledger.Period]float64{"2024-01": 1000, "2024-02": 1200}},
			{LineNumber: ledger.RowCOGS, Description: "COGS (Web Services)",
				Values: map[ledger.Period]float64{"2024-01": -200, "2024-02": -150}},
			{LineNumber: ledger.RowEBITDAMargin, Description: "EBITDA Margin %",
				Values: map[ledger.Period]float64{"2024-01": 62.4, "2024-02": 70}},
		},
	}
}

func press(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStatementNavigation(t *testing.T) {
	var m statementModel
	m, _ = m.update(statementLoadedMsg{
		report:    sampleReport(),
		overrides: []ledger.Override{{Row: ledger.RowCOGS, Period: "2024-02", Value: -150}},
	})

	row, period, ok := m.selected()
	if !ok || row.LineNumber != ledger.RowGrossRevenue || period != "2024-02" {
		t.Fatalf("initial selection = %d %s %v", row.LineNumber, period, ok)
	}

	for _, k := range []string{"down", "down", "down", "left", "left"} {
		m, _ = m.update(press(k))
	}
	row, period, _ = m.selected()
	if row.LineNumber != ledger.RowEBITDAMargin || period != "2024-01" {
		t.Fatalf("selection = %d %s", row.LineNumber, period)
	}
	if !m.isOverridden(ledger.RowCOGS, "2024-02") || m.isOverridden(ledger.RowCOGS, "2024-01") {
		t.Error("override markers wrong")
	}

	out := m.view()
	for _, want := range []string{"Profit & Loss", "1.000,00", "62.4%", "1 overridden cells"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStatementEmpty(t *testing.T) {
	var m statementModel
	m, _ = m.update(statementLoadedMsg{report: &ledger.Report{}})
	if _, _, ok := m.selected(); ok {
		t.Error("empty report has a selection")
	}
	if !strings.Contains(m.view(), "No transactions loaded") {
		t.Error("empty view")
	}
}

func TestMappingsToggle(t *testing.T) {
	var m mappingListModel
	m, _ = m.update(mappingsLoadedMsg{rules: ledger.DefaultRules()})
	m, _ = m.update(press("down"))

	m, cmd := m.update(press(" "))
	if cmd == nil {
		t.Fatal("toggle produced no command")
	}
	change, ok := cmd().(mappingsChangeMsg)
	if !ok {
		t.Fatalf("toggle message = %T", cmd())
	}
	if change.rules[1].Active || !change.rules[0].Active {
		t.Error("toggle changed the wrong rule")
	}
	if !m.rules[1].Active {
		t.Error("toggle mutated the loaded rules before saving")
	}
}

func TestMappingsResetConfirm(t *testing.T) {
	var m mappingListModel
	m, _ = m.update(mappingsLoadedMsg{rules: ledger.DefaultRules()})

	m, _ = m.update(press("R"))
	if !m.confirmReset {
		t.Fatal("reset did not ask for confirmation")
	}
	m, cmd := m.update(press("n"))
	if cmd != nil || m.confirmReset {
		t.Fatal("declined reset still pending")
	}

	m, _ = m.update(press("R"))
	_, cmd = m.update(press("y"))
	if cmd == nil {
		t.Fatal("confirmed reset produced no command")
	}
	if _, ok := cmd().(mappingsResetConfirmedMsg); !ok {
		t.Error("confirmed reset message type")
	}
}

func TestOverrideEdit(t *testing.T) {
	r := sampleReport()
	m := newOverrideEdit(r.Rows[1], "2024-01", false)
	if got := m.input.Value(); got != "-200,00" {
		t.Fatalf("prefilled value = %q", got)
	}

	m.input.SetValue("lots")
	m, cmd := m.update(press("enter"), nil)
	if cmd != nil || m.err == nil {
		t.Fatal("bad value accepted")
	}

	m.input.SetValue("-1.500,00")
	m, cmd = m.update(press("enter"), nil)
	if cmd == nil || !m.saving || m.err != nil {
		t.Fatalf("valid value not submitted: err=%v", m.err)
	}

	m, _ = m.update(overrideSavedMsg{row: ledger.RowCOGS, period: "2024-01", err: errors.New("boom")}, nil)
	if m.done || m.err == nil || m.saving {
		t.Fatal("failed save treated as done")
	}
	m, _ = m.update(overrideSavedMsg{row: ledger.RowCOGS, period: "2024-01"}, nil)
	if !m.done || !strings.Contains(m.statusMsg, "Row 6") {
		t.Fatalf("done=%v status=%q", m.done, m.statusMsg)
	}

	m = newOverrideEdit(r.Rows[1], "2024-01", true)
	m, _ = m.update(press("esc"), nil)
	if !m.cancelled {
		t.Error("esc did not cancel")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, scale float64
		width, full  int
	}{
		{50, 100, 10, 5},
		{150, 100, 10, 10},
		{-5, 100, 10, 0},
		{5, 0, 4, 0},
	}
	for _, tt := range tests {
		got := bar(tt.value, tt.scale, tt.width)
		if n := strings.Count(got, "█"); n != tt.full {
			t.Errorf("bar(%v, %v, %d) filled %d, want %d", tt.value, tt.scale, tt.width, n, tt.full)
		}
		if n := len([]rune(got)); n != tt.width {
			t.Errorf("bar width %d, want %d", n, tt.width)
		}
	}
}

func TestDashboardView(t *testing.T) {
	var m dashboardModel
	m, _ = m.update(dashboardLoadedMsg{dash: &ledger.Dashboard{
		AnchorPeriod: "2024-02",
		KPIs:         ledger.KPIs{TotalRevenue: 1200, EBITDA: 300, EBITDAMargin: 0.25},
		MonthlyData:  []ledger.MonthlyPoint{{Period: "2024-02", Revenue: 1200, EBITDA: 300, Costs: 500, Expenses: 400}},
		CostStructure: ledger.CostStructure{COGS: 150, Wages: 250},
	}})
	out := m.view()
	for _, want := range []string{"Anchor month 2024-02", "R$ 1.200,00", "25.0%", "Cost structure", "37.5%"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard view missing %q", want)
		}
	}
}
