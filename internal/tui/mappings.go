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

type mappingsLoadedMsg struct {
	rules []ledger.MappingRule
	err   error
}

// mappingsChangeMsg asks the app to store a new rule set.
type mappingsChangeMsg struct {
	rules  []ledger.MappingRule
	status string
}

// mappingsResetConfirmedMsg is sent when the user confirms a reset to the defaults.
type mappingsResetConfirmedMsg struct{}

// mappingsSavedMsg is sent after the server stores or resets the rules.
type mappingsSavedMsg struct {
	rules  []ledger.MappingRule
	status string
	err    error
}

type mappingListModel struct {
	rules        []ledger.MappingRule
	cursor       int
	loading      bool
	err          error
	width        int
	height       int
	confirmReset bool
}

func (m *mappingListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		rules, err := c.Mappings(context.Background())
		return mappingsLoadedMsg{rules: rules, err: err}
	}
}

func (m mappingListModel) update(msg tea.Msg) (mappingListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case mappingsLoadedMsg:
		m.loading = false
		m.rules = msg.rules
		m.err = msg.err
		if m.cursor >= len(m.rules) {
			m.cursor = max(len(m.rules)-1, 0)
		}

	case mappingsSavedMsg:
		m.confirmReset = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.rules = msg.rules
		if m.cursor >= len(m.rules) {
			m.cursor = max(len(m.rules)-1, 0)
		}

	case tea.KeyMsg:
		if m.confirmReset {
			m.confirmReset = false
			switch msg.String() {
			case "y", "Y":
				return m, func() tea.Msg { return mappingsResetConfirmedMsg{} }
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rules)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			if m.cursor < len(m.rules) {
				next := make([]ledger.MappingRule, len(m.rules))
				copy(next, m.rules)
				next[m.cursor].Active = !next[m.cursor].Active
				state := "disabled"
				if next[m.cursor].Active {
					state = "enabled"
				}
				status := fmt.Sprintf("Rule %s / %s %s", next[m.cursor].CostCenter, next[m.cursor].Counterparty, state)
				return m, func() tea.Msg { return mappingsChangeMsg{rules: next, status: status} }
			}
		case key.Matches(msg, keys.Reset):
			m.confirmReset = true
			m.err = nil
		}
	}
	return m, nil
}

func (m *mappingListModel) view() string {
	if m.loading {
		return "Loading mapping rules..."
	}
	if m.err != nil && len(m.rules) == 0 {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Mapping Rules"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-3s %-18s %-30s %-28s %5s %-8s", "ON", "GROUP", "COST CENTER", "COUNTERPARTY", "LINE", "KIND")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 5
	if maxRows < 1 {
		maxRows = 10
	}

	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.rules) && i < start+maxRows; i++ {
		r := m.rules[i]
		on := "[ ]"
		if r.Active {
			on = "[x]"
		}
		line := fmt.Sprintf("  %-3s %-18s %-30s %-28s %5d %-8s",
			on, clip(r.GroupLabel, 18), clip(r.CostCenter, 30), clip(r.Counterparty, 28), int(r.TargetLine), r.Kind)
		switch {
		case i == m.cursor:
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		case !r.Active:
			b.WriteString(dimStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	switch {
	case m.confirmReset:
		b.WriteString("\n" + errorStyle.Render("  Replace every rule with the defaults? (y/n)"))
	case m.err != nil:
		b.WriteString("\n" + errorStyle.Render("  Error: "+m.err.Error()))
	default:
		active := 0
		for _, r := range m.rules {
			if r.Active {
				active++
			}
		}
		b.WriteString(fmt.Sprintf("\n  %d rules, %d active", len(m.rules), active))
	}

	return b.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-2]) + ".."
}
