package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonvc/minipnl/internal/client"
)

type mode int

const (
	modeStatement mode = iota
	modeDrillDown
	modeDashboard
	modeTransactions
	modeMappings
	modeOverrideEdit
)

var tabModes = []mode{modeStatement, modeDashboard, modeTransactions, modeMappings}

func tabLabel(m mode) string {
	switch m {
	case modeStatement:
		return "P&L"
	case modeDashboard:
		return "Dashboard"
	case modeTransactions:
		return "Transactions"
	case modeMappings:
		return "Mappings"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	mode          mode
	tabIndex      int
	width, height int
	statusMsg     string
	err           error

	statement    statementModel
	drillDown    drillDownModel
	dashboard    dashboardModel
	txnList      txnListModel
	mappings     mappingListModel
	overrideEdit overrideEditModel
}

func NewApp(c *client.Client) *App {
	return &App{
		client: c,
		mode:   modeStatement,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.statement.init(a.client),
		a.dashboard.init(a.client),
		a.txnList.init(a.client),
		a.mappings.init(a.client),
	)
}

// reloadReports refreshes every view derived from the snapshot.
func (a *App) reloadReports() tea.Cmd {
	return tea.Batch(
		a.statement.init(a.client),
		a.dashboard.init(a.client),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = msg.Width
		a.height = msg.Height
		body := msg.Height - 6
		a.statement.width, a.statement.height = msg.Width, body
		a.drillDown.width, a.drillDown.height = msg.Width, body
		a.dashboard.width, a.dashboard.height = msg.Width, body
		a.txnList.width, a.txnList.height = msg.Width, body
		a.mappings.width, a.mappings.height = msg.Width, body
		a.overrideEdit.width = msg.Width
		return a, nil
	}

	// Loads run concurrently, so results are routed by type whatever the
	// active mode.
	switch typed := msg.(type) {
	case statementLoadedMsg:
		var cmd tea.Cmd
		a.statement, cmd = a.statement.update(msg)
		return a, cmd
	case dashboardLoadedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	case txnsLoadedMsg:
		var cmd tea.Cmd
		a.txnList, cmd = a.txnList.update(msg)
		return a, cmd
	case drillDownLoadedMsg:
		var cmd tea.Cmd
		a.drillDown, cmd = a.drillDown.update(msg)
		return a, cmd
	case mappingsLoadedMsg:
		var cmd tea.Cmd
		a.mappings, cmd = a.mappings.update(msg)
		return a, cmd

	case mappingsChangeMsg:
		rules, status := typed.rules, typed.status
		return a, func() tea.Msg {
			saved, err := a.client.ReplaceMappings(context.Background(), rules)
			return mappingsSavedMsg{rules: saved, status: status, err: err}
		}
	case mappingsResetConfirmedMsg:
		return a, func() tea.Msg {
			rules, err := a.client.ResetMappings(context.Background())
			return mappingsSavedMsg{rules: rules, status: "Mapping rules reset to defaults", err: err}
		}
	case mappingsSavedMsg:
		a.mappings, _ = a.mappings.update(msg)
		if typed.err != nil {
			return a, nil
		}
		a.statusMsg = typed.status
		return a, a.reloadReports()

	case overrideSavedMsg:
		if typed.cleared {
			if typed.err != nil {
				a.err = typed.err
				return a, nil
			}
			a.statusMsg = fmt.Sprintf("Override on row %d, %s cleared", typed.row, typed.period)
			return a, a.reloadReports()
		}
		var cmd tea.Cmd
		a.overrideEdit, cmd = a.overrideEdit.update(msg, a.client)
		if a.overrideEdit.done {
			a.mode = modeStatement
			a.statusMsg = a.overrideEdit.statusMsg
			return a, a.reloadReports()
		}
		return a, cmd
	}

	// The override editor owns every message while open.
	if a.mode == modeOverrideEdit {
		var cmd tea.Cmd
		a.overrideEdit, cmd = a.overrideEdit.update(msg, a.client)
		if a.overrideEdit.cancelled {
			a.mode = modeStatement
			a.statusMsg = "Override cancelled"
			return a, nil
		}
		return a, cmd
	}

	// A pending reset confirmation takes the next key.
	if a.mode == modeMappings && a.mappings.confirmReset {
		var cmd tea.Cmd
		a.mappings, cmd = a.mappings.update(msg)
		return a, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		a.err = nil
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Escape):
			if a.mode == modeDrillDown {
				a.mode = modeStatement
			}
			return a, nil

		case key.Matches(msg, keys.Refresh):
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Enter):
			if a.mode == modeStatement {
				if row, period, ok := a.statement.selected(); ok {
					a.mode = modeDrillDown
					return a, a.drillDown.initRow(a.client, row, period)
				}
				return a, nil
			}

		case key.Matches(msg, keys.Unmatched):
			if a.mode == modeStatement || a.mode == modeTransactions {
				a.mode = modeDrillDown
				a.tabIndex = 0
				return a, a.drillDown.initUnmatched(a.client)
			}

		case key.Matches(msg, keys.Edit):
			if a.mode == modeStatement {
				if row, period, ok := a.statement.selected(); ok {
					a.overrideEdit = newOverrideEdit(row, period, a.statement.isOverridden(row.LineNumber, period))
					a.overrideEdit.width = a.width
					a.mode = modeOverrideEdit
					a.statusMsg = ""
					return a, nil
				}
			}

		case key.Matches(msg, keys.Clear):
			if a.mode == modeStatement {
				row, period, ok := a.statement.selected()
				if !ok || !a.statement.isOverridden(row.LineNumber, period) {
					return a, nil
				}
				n := row.LineNumber
				return a, func() tea.Msg {
					err := a.client.ClearOverride(context.Background(), n, period)
					return overrideSavedMsg{row: n, period: period, cleared: true, err: err}
				}
			}
		}
	}

	var cmd tea.Cmd
	switch a.mode {
	case modeStatement:
		a.statement, cmd = a.statement.update(msg)
	case modeDrillDown:
		a.drillDown, cmd = a.drillDown.update(msg)
	case modeDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case modeTransactions:
		a.txnList, cmd = a.txnList.update(msg)
	case modeMappings:
		a.mappings, cmd = a.mappings.update(msg)
	}
	return a, cmd
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeStatement:
		return a.statement.init(a.client)
	case modeDashboard:
		return a.dashboard.init(a.client)
	case modeTransactions:
		return a.txnList.init(a.client)
	case modeMappings:
		return a.mappings.init(a.client)
	}
	return nil
}

func helpFor(m mode) string {
	switch m {
	case modeStatement:
		return "arrows/hjkl:move  enter:drill down  e:override  x:clear override  u:unmatched  r:refresh  tab:switch  q:quit"
	case modeDrillDown:
		return "up/down:scroll  esc:back  q:quit"
	case modeTransactions:
		return "up/down:scroll  u:unmatched  r:refresh  tab:switch  q:quit"
	case modeMappings:
		return "up/down:move  space:toggle rule  R:reset to defaults  r:refresh  tab:switch  q:quit"
	case modeOverrideEdit:
		return "enter:save  esc:cancel"
	default:
		return "r:refresh  tab:switch  q:quit"
	}
}

func (a *App) View() string {
	tabs := ""
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex && a.mode != modeOverrideEdit {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}

	var content string
	switch a.mode {
	case modeStatement:
		content = a.statement.view()
	case modeDrillDown:
		content = a.drillDown.view()
	case modeDashboard:
		content = a.dashboard.view()
	case modeTransactions:
		content = a.txnList.view()
	case modeMappings:
		content = a.mappings.view()
	case modeOverrideEdit:
		content = a.overrideEdit.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}
	if a.err != nil {
		status = errorStyle.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		dimStyle.Render(helpFor(a.mode)),
	)
}
