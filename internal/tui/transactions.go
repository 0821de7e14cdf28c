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

type txnsLoadedMsg struct {
	batch *ledger.Batch
	txns  []ledger.Transaction
	err   error
}

type txnListModel struct {
	batch   *ledger.Batch
	txns    []ledger.Transaction
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *txnListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		ctx := context.Background()
		batch, err := c.CurrentBatch(ctx)
		if client.NotFound(err) {
			return txnsLoadedMsg{}
		}
		if err != nil {
			return txnsLoadedMsg{err: err}
		}
		txns, err := c.ListTransactions(ctx, client.TxnQuery{})
		return txnsLoadedMsg{batch: batch, txns: txns, err: err}
	}
}

func (m txnListModel) update(msg tea.Msg) (txnListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case txnsLoadedMsg:
		m.loading = false
		m.batch = msg.batch
		m.txns = msg.txns
		m.err = msg.err
		if m.cursor >= len(m.txns) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.txns)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m *txnListModel) view() string {
	if m.loading {
		return "Loading transactions..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.txns) == 0 {
		return dimStyle.Render("No transactions loaded. Run `minipnl upload <file.csv>` first.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Transactions"))
	b.WriteString("\n")
	if m.batch != nil {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  %s, uploaded %s",
			m.batch.Filename, m.batch.UploadedAt.Local().Format("2006-01-02 15:04"))))
		b.WriteString("\n\n")
	}

	header := fmt.Sprintf("  %-10s %15s  %-32s %s", "DATE", "AMOUNT", "COST CENTER", "COUNTERPARTY")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 6
	if maxRows < 1 {
		maxRows = 10
	}

	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.txns) && i < start+maxRows; i++ {
		t := m.txns[i]
		cc := t.CostCenter
		if len([]rune(cc)) > 32 {
			cc = string([]rune(cc)[:30]) + ".."
		}

		line := fmt.Sprintf("  %-10s %15s  %-32s %s",
			t.Date.Format(ledger.DateLayout),
			ledger.FormatAmount(t.Amount),
			cc,
			t.Counterparty,
		)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d transactions", len(m.txns)))
	return b.String()
}
