// Package alertdetail implements the alert detail view with its
// audit trail and lifecycle actions.
package alertdetail

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

// View is the alert detail view model.
type View struct {
	styles  *styles.Styles
	keys    keymap.KeyMap
	service driving.AlertService

	alert   domain.Alert
	changes []domain.AlertStateChange
	err     error

	width  int
	height int
}

// New creates an alert detail view.
func New(s *styles.Styles, service driving.AlertService) *View {
	return &View{
		styles:  s,
		keys:    keymap.Default(),
		service: service,
	}
}

// SetAlert points the view at an alert and returns a command that
// loads its history.
func (v *View) SetAlert(alert domain.Alert) tea.Cmd {
	v.alert = alert
	v.changes = nil
	v.err = nil
	return v.loadHistory()
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height

	case messages.HistoryLoaded:
		if msg.AlertID != v.alert.ID {
			return v, nil
		}
		v.err = msg.Err
		v.changes = msg.Changes

	case messages.AlertUpdated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, tea.Batch(v.reloadAlert(), v.loadHistory())

	case tea.KeyMsg:
		if cmd := v.actionFor(msg); cmd != nil {
			return v, cmd
		}
	}

	return v, nil
}

// View renders the alert detail.
func (v *View) View() string {
	var b strings.Builder

	a := v.alert
	b.WriteString(v.styles.Title.Render(a.Title))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("ID:        %s\n", a.ID))
	b.WriteString(fmt.Sprintf("Type:      %s (%s)\n", a.Type, a.Category))
	b.WriteString("Severity:  " + v.styles.Severity(a.Severity).Render(string(a.Severity)) + "\n")
	b.WriteString("Status:    " + v.styles.Status(a.Status).Render(string(a.Status)) + "\n")
	b.WriteString(fmt.Sprintf("Chapter:   %d\n", a.Chapter))
	b.WriteString(fmt.Sprintf("Confidence: %.2f\n", a.Confidence))
	if a.Description != "" {
		b.WriteString("\n" + a.Description + "\n")
	}
	if a.Excerpt != "" {
		b.WriteString("\n" + v.styles.Muted.Render("\""+a.Excerpt+"\"") + "\n")
	}
	if a.ResolutionNote != "" {
		b.WriteString("\nNote: " + a.ResolutionNote + "\n")
	}

	if v.err != nil {
		b.WriteString("\n" + v.styles.Error.Render("Error: "+v.err.Error()) + "\n")
	}

	if len(v.changes) > 0 {
		b.WriteString("\n" + v.styles.Title.Render("History") + "\n")
		for _, c := range v.changes {
			line := fmt.Sprintf("%s  %s -> %s  (%s, %s)",
				c.At.Format("2006-01-02 15:04"), c.From, c.To, c.Actor, c.Reason)
			if c.Note != "" {
				line += "  " + c.Note
			}
			b.WriteString(v.styles.Muted.Render(line) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("a ack • s start • r resolve • v verify • d dismiss • p reopen • esc back"))

	return b.String()
}

// Alert returns the alert currently shown.
func (v *View) Alert() domain.Alert {
	return v.alert
}

func (v *View) actionFor(msg tea.KeyMsg) tea.Cmd {
	id := v.alert.ID
	switch {
	case key.Matches(msg, v.keys.Acknowledge):
		return v.runAction(id, func(ctx context.Context) error {
			return v.service.Acknowledge(ctx, id)
		})
	case key.Matches(msg, v.keys.Start):
		return v.runAction(id, func(ctx context.Context) error {
			return v.service.Start(ctx, id)
		})
	case key.Matches(msg, v.keys.Resolve):
		return v.runAction(id, func(ctx context.Context) error {
			return v.service.Resolve(ctx, id, "")
		})
	case key.Matches(msg, v.keys.Verify):
		return v.runAction(id, func(ctx context.Context) error {
			return v.service.Verify(ctx, id)
		})
	case key.Matches(msg, v.keys.Dismiss):
		return v.runAction(id, func(ctx context.Context) error {
			return v.service.Dismiss(ctx, id, "")
		})
	case key.Matches(msg, v.keys.Reopen):
		return v.runAction(id, func(ctx context.Context) error {
			if v.alert.Status == domain.StatusDismissed {
				return v.service.Undismiss(ctx, id)
			}
			return v.service.Reopen(ctx, id, "")
		})
	}
	return nil
}

func (v *View) runAction(alertID string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(context.Background())
		return messages.AlertUpdated{AlertID: alertID, Err: err}
	}
}

func (v *View) reloadAlert() tea.Cmd {
	id := v.alert.ID
	return func() tea.Msg {
		alert, err := v.service.Get(context.Background(), id)
		if err != nil {
			return messages.HistoryLoaded{AlertID: id, Err: err}
		}
		return messages.AlertSelected{Alert: *alert}
	}
}

func (v *View) loadHistory() tea.Cmd {
	id := v.alert.ID
	return func() tea.Msg {
		changes, err := v.service.History(context.Background(), id)
		return messages.HistoryLoaded{AlertID: id, Changes: changes, Err: err}
	}
}
