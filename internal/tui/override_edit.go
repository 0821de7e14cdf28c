package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/minipnl/internal/client"
	"github.com/simonvc/minipnl/internal/ledger"
)

// overrideSavedMsg is sent after an override is stored or cleared.
type overrideSavedMsg struct {
	row     ledger.RowNumber
	period  ledger.Period
	cleared bool
	err     error
}

type overrideEditModel struct {
	row       ledger.Row
	period    ledger.Period
	current   float64
	had       bool
	input     textinput.Model
	saving    bool
	err       error
	done      bool
	cancelled bool
	statusMsg string
	width     int
}

func newOverrideEdit(row ledger.Row, period ledger.Period, overridden bool) overrideEditModel {
	in := textinput.New()
	in.Placeholder = "e.g. -1.500,00 or -1500"
	in.CharLimit = 24
	in.SetValue(ledger.FormatAmount(row.Values[period]))
	in.CursorEnd()
	in.Focus()

	return overrideEditModel{
		row:     row,
		period:  period,
		current: row.Values[period],
		had:     overridden,
		input:   in,
	}
}

func (m overrideEditModel) update(msg tea.Msg, c *client.Client) (overrideEditModel, tea.Cmd) {
	switch msg := msg.(type) {
	case overrideSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.done = true
		m.statusMsg = fmt.Sprintf("Row %d, %s overridden", msg.row, msg.period)
		return m, nil

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Escape):
			m.cancelled = true
			return m, nil
		case key.Matches(msg, keys.Enter):
			v, err := ledger.ParseOverrideValue(m.input.Value())
			if err == nil {
				err = ledger.ValidateOverride(m.row.LineNumber, m.period, v)
			}
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.saving = true
			row, period := m.row.LineNumber, m.period
			return m, func() tea.Msg {
				_, err := c.SetOverride(context.Background(), row, period, v)
				return overrideSavedMsg{row: row, period: period, err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m overrideEditModel) view() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Override Cell"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %d  %s\n", labelStyle.Render("Row"), m.row.LineNumber, m.row.Description))
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Month"), m.period))
	current := formatStatementCell(m.row.LineNumber, m.current)
	if m.had {
		current += "  " + overrideStyle.Render("(overridden)")
	}
	b.WriteString(fmt.Sprintf("  %s %s\n\n", labelStyle.Render("Current value"), current))
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("New value"), m.input.View()))

	switch {
	case m.saving:
		b.WriteString("\n  Saving...")
	case m.err != nil:
		b.WriteString("\n" + errorStyle.Render("  "+m.err.Error()))
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  enter:save  esc:cancel  the entered value replaces the computed one"))
	return boxStyle.Render(b.String())
}
