// Package alerts implements the alert list view.
package alerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
)

// View is the alert list view model.
type View struct {
	styles    *styles.Styles
	keys      keymap.KeyMap
	service   driving.AlertService
	projectID string

	alerts   []domain.Alert
	cursor   int
	openOnly bool
	loading  bool
	err      error

	width  int
	height int
}

// New creates an alert list view.
func New(s *styles.Styles, service driving.AlertService, projectID string) *View {
	return &View{
		styles:    s,
		keys:      keymap.Default(),
		service:   service,
		projectID: projectID,
		loading:   true,
	}
}

// Init starts loading alerts.
func (v *View) Init() tea.Cmd {
	return v.loadAlerts()
}

// Update handles messages for the alert list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height

	case messages.AlertsLoaded:
		v.loading = false
		v.err = msg.Err
		v.alerts = msg.Alerts
		if v.cursor >= len(v.alerts) {
			v.cursor = max(0, len(v.alerts)-1)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.alerts)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Select):
			if a := v.Selected(); a != nil {
				return v, func() tea.Msg {
					return messages.AlertSelected{Alert: *a}
				}
			}
		case key.Matches(msg, v.keys.OpenOnly):
			v.openOnly = !v.openOnly
			v.loading = true
			return v, v.loadAlerts()
		case key.Matches(msg, v.keys.Refresh):
			v.loading = true
			return v, v.loadAlerts()
		}
	}

	return v, nil
}

// View renders the alert list.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Alerts (%s)", v.projectID)
	if v.openOnly {
		title += " [open only]"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading alerts..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.alerts) == 0:
		b.WriteString(v.styles.Muted.Render("No alerts."))
	default:
		for i, a := range v.alerts {
			line := fmt.Sprintf("%-8s %-12s ch%-3d %s",
				a.Severity, a.Status, a.Chapter, a.Title)
			if i == v.cursor {
				b.WriteString(v.styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + v.styles.Severity(a.Severity).Render(string(a.Severity)) +
					fmt.Sprintf(" %-12s ch%-3d ", a.Status, a.Chapter) + a.Title)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("↑/↓ navigate • enter select • o open only • R refresh • ? help • q quit"))

	return b.String()
}

// Selected returns the alert under the cursor, or nil.
func (v *View) Selected() *domain.Alert {
	if v.cursor < 0 || v.cursor >= len(v.alerts) {
		return nil
	}
	return &v.alerts[v.cursor]
}

func (v *View) loadAlerts() tea.Cmd {
	filter := domain.AlertFilter{OpenOnly: v.openOnly}
	return func() tea.Msg {
		alerts, err := v.service.List(context.Background(), v.projectID, filter)
		return messages.AlertsLoaded{Alerts: alerts, Err: err}
	}
}
