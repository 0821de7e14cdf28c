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

type drillDownLoadedMsg struct {
	dd  *ledger.DrillDown
	err error
}

type drillDownModel struct {
	title   string
	dd      *ledger.DrillDown
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

// initRow loads the transactions behind a statement row in one period.
func (m *drillDownModel) initRow(c *client.Client, row ledger.Row, period ledger.Period) tea.Cmd {
	m.reset(fmt.Sprintf("%s, %s", row.Description, period))
	n := row.LineNumber
	return func() tea.Msg {
		dd, err := c.DrillDownRow(context.Background(), n, period)
		return drillDownLoadedMsg{dd: dd, err: err}
	}
}

func (m *drillDownModel) initUnmatched(c *client.Client) tea.Cmd {
	m.reset("Unmatched transactions")
	return func() tea.Msg {
		dd, err := c.Unmatched(context.Background(), "")
		return drillDownLoadedMsg{dd: dd, err: err}
	}
}

func (m *drillDownModel) reset(title string) {
	m.title = title
	m.dd = nil
	m.cursor = 0
	m.err = nil
	m.loading = true
}

func (m drillDownModel) update(msg tea.Msg) (drillDownModel, tea.Cmd) {
	switch msg := msg.(type) {
	case drillDownLoadedMsg:
		m.loading = false
		m.dd = msg.dd
		m.err = msg.err

	case tea.KeyMsg:
		if m.dd == nil {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.dd.Transactions)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *drillDownModel) view() string {
	if m.loading {
		return "Loading transactions..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	if m.dd == nil || len(m.dd.Transactions) == 0 {
		b.WriteString(dimStyle.Render("  No transactions. Headers, totals, margins and payment processing are computed rows."))
		return b.String()
	}

	if len(m.dd.Lines) > 0 {
		lines := make([]string, len(m.dd.Lines))
		for i, l := range m.dd.Lines {
			lines[i] = fmt.Sprint(int(l))
		}
		b.WriteString(subtitleStyle.Render("  Raw lines " + strings.Join(lines, ", ")))
		b.WriteString("\n\n")
	}

	header := fmt.Sprintf("  %-10s %15s  %-30s %s", "DATE", "AMOUNT", "COST CENTER", "COUNTERPARTY")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 8
	if maxRows < 1 {
		maxRows = 10
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	txs := m.dd.Transactions
	for i := start; i < len(txs) && i < start+maxRows; i++ {
		t := txs[i]
		cc := t.CostCenter
		if len([]rune(cc)) > 30 {
			cc = string([]rune(cc)[:28]) + ".."
		}
		amount := amountStyle(t.Amount).Render(fmt.Sprintf("%15s", ledger.FormatAmount(t.Amount)))
		line := fmt.Sprintf("  %-10s %s  %-30s %s", t.Date.Format(ledger.DateLayout), amount, cc, t.Counterparty)
		if i == m.cursor {
			line = selectedStyle.Render(">") + line[1:]
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d transactions, total %s", len(txs), ledger.FormatCurrency(m.dd.Total)))
	return b.String()
}
