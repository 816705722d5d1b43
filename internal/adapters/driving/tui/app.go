// Package tui implements the terminal UI for browsing alerts.
// It follows the Elm architecture: a root App model routes messages
// to the active view.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/tui/views/alertdetail"
	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/tui/views/alerts"
)

// App is the root TUI model.
type App struct {
	ctx    context.Context
	ports  Ports
	styles *styles.Styles
	keys   keymap.KeyMap

	current messages.ViewType
	list    *alerts.View
	detail  *alertdetail.View

	width  int
	height int
}

// NewApp creates the root model for a project.
func NewApp(ports Ports, projectID string) *App {
	s := styles.NewStyles(styles.DefaultTheme())
	return &App{
		ctx:     context.Background(),
		ports:   ports,
		styles:  s,
		keys:    keymap.Default(),
		current: messages.ViewAlerts,
		list:    alerts.New(s, ports.Alerts, projectID),
		detail:  alertdetail.New(s, ports.Alerts),
	}
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.list.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Both views track size.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		cmds = append(cmds, cmd)
		a.detail, cmd = a.detail.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case messages.AlertSelected:
		a.current = messages.ViewDetail
		return a, a.detail.SetAlert(msg.Alert)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			if a.current == messages.ViewHelp {
				a.current = messages.ViewAlerts
			} else {
				a.current = messages.ViewHelp
			}
			return a, nil
		case key.Matches(msg, a.keys.Back):
			if a.current != messages.ViewAlerts {
				a.current = messages.ViewAlerts
				// Refresh the list so lifecycle changes show up.
				return a, a.list.Init()
			}
			return a, nil
		}
	}

	return a.route(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	var body string
	switch a.current {
	case messages.ViewDetail:
		body = a.detail.View()
	case messages.ViewHelp:
		body = a.helpView()
	default:
		body = a.list.View()
	}

	status := a.styles.StatusBar.Render("inkwell • " + a.current.String())
	return body + "\n" + status
}

func (a *App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.current {
	case messages.ViewDetail:
		a.detail, cmd = a.detail.Update(msg)
	case messages.ViewHelp:
		// Help has no internal state.
	default:
		a.list, cmd = a.list.Update(msg)
	}
	return a, cmd
}

func (a *App) helpView() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	rows := []struct{ keys, desc string }{
		{"↑/k, ↓/j", "navigate the alert list"},
		{"enter", "open alert detail"},
		{"o", "toggle open-only filter"},
		{"R", "refresh the list"},
		{"a / s / r / v / d / p", "ack, start, resolve, verify, dismiss, reopen"},
		{"esc", "back to the list"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}
	for _, r := range rows {
		b.WriteString(a.styles.Normal.Render(r.keys))
		b.WriteString("  ")
		b.WriteString(a.styles.Muted.Render(r.desc))
		b.WriteString("\n")
	}
	return b.String()
}
