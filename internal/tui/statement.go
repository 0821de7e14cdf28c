package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/minipnl/internal/client"
	"github.com/simonvc/minipnl/internal/ledger"
)

type statementLoadedMsg struct {
	report    *ledger.Report
	overrides []ledger.Override
	err       error
}

type cellKey struct {
	row    ledger.RowNumber
	period ledger.Period
}

type statementModel struct {
	report     *ledger.Report
	overridden map[cellKey]bool
	row, col   int
	loading    bool
	err        error
	width      int
	height     int
}

func (m *statementModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		ctx := context.Background()
		r, err := c.PnL(ctx, "", "")
		if err != nil {
			return statementLoadedMsg{err: err}
		}
		ov, err := c.Overrides(ctx)
		return statementLoadedMsg{report: r, overrides: ov, err: err}
	}
}

func (m statementModel) update(msg tea.Msg) (statementModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statementLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.report = msg.report
		m.overridden = make(map[cellKey]bool, len(msg.overrides))
		for _, o := range msg.overrides {
			m.overridden[cellKey{o.Row, o.Period}] = true
		}
		m.clamp()
		// Start on the latest month.
		if m.col == 0 && len(m.report.Headers) > 0 {
			m.col = len(m.report.Headers) - 1
		}

	case tea.KeyMsg:
		if m.report == nil {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if m.row > 0 {
				m.row--
			}
		case key.Matches(msg, keys.Down):
			if m.row < len(m.report.Rows)-1 {
				m.row++
			}
		case key.Matches(msg, keys.Left):
			if m.col > 0 {
				m.col--
			}
		case key.Matches(msg, keys.Right):
			if m.col < len(m.report.Headers)-1 {
				m.col++
			}
		}
	}
	return m, nil
}

func (m *statementModel) clamp() {
	if m.report == nil {
		return
	}
	if m.row >= len(m.report.Rows) {
		m.row = max(len(m.report.Rows)-1, 0)
	}
	if m.col >= len(m.report.Headers) {
		m.col = max(len(m.report.Headers)-1, 0)
	}
}

// selected returns the focused cell.
func (m *statementModel) selected() (ledger.Row, ledger.Period, bool) {
	if m.report == nil || m.report.Empty() {
		return ledger.Row{}, "", false
	}
	return m.report.Rows[m.row], m.report.Headers[m.col], true
}

func (m *statementModel) isOverridden(row ledger.RowNumber, p ledger.Period) bool {
	return m.overridden[cellKey{row, p}]
}

const (
	stmtLabelW = 34
	stmtCellW  = 14
)

func (m *statementModel) view() string {
	if m.loading {
		return "Loading statement..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.report == nil || m.report.Empty() {
		return dimStyle.Render("No transactions loaded. Run `minipnl upload <file.csv>` first.")
	}

	w := m.width
	if w < 60 {
		w = 100
	}
	visible := (w - stmtLabelW - 6) / stmtCellW
	if visible < 1 {
		visible = 1
	}
	first := 0
	if m.col >= visible {
		first = m.col - visible + 1
	}
	last := min(first+visible, len(m.report.Headers))
	periods := m.report.Headers[first:last]

	var b strings.Builder
	b.WriteString(titleStyle.Render("Profit & Loss"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %3s %-*s", "#", stmtLabelW, "")
	for _, p := range periods {
		header += fmt.Sprintf("%*s", stmtCellW, p)
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, row := range m.report.Rows {
		label := row.Description
		if len([]rune(label)) > stmtLabelW {
			label = string([]rune(label)[:stmtLabelW-2]) + ".."
		}
		prefix := "  "
		if i == m.row {
			prefix = "> "
		}
		lineText := fmt.Sprintf("%s%3d %-*s", prefix, row.LineNumber, stmtLabelW, label)
		switch {
		case i == m.row:
			lineText = selectedStyle.Render(lineText)
		case row.IsHeader, row.IsTotal:
			lineText = totalStyle.Render(lineText)
		}
		b.WriteString(lineText)

		for j, p := range periods {
			v := row.Values[p]
			text := fmt.Sprintf("%*s", stmtCellW, formatStatementCell(row.LineNumber, v))
			switch {
			case i == m.row && first+j == m.col:
				text = selectedCellStyle.Render(text)
			case m.isOverridden(row.LineNumber, p):
				text = overrideStyle.Render(text)
			case v < 0:
				text = negativeStyle.Render(text)
			}
			b.WriteString(text)
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d of %d months shown", len(periods), len(m.report.Headers))))
	if len(m.overridden) > 0 {
		b.WriteString("  " + overrideStyle.Render(fmt.Sprintf("%d overridden cells", len(m.overridden))))
	}
	return b.String()
}

func formatStatementCell(n ledger.RowNumber, v float64) string {
	if n == ledger.RowEBITDAMargin || n == ledger.RowGrossMargin {
		return ledger.FormatPercent(v)
	}
	return ledger.FormatAmount(v)
}
