// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

// AlertsLoaded carries the alert list back to the model.
type AlertsLoaded struct {
	Alerts []domain.Alert
	Err    error
}

// AlertSelected is sent when an alert is chosen from the list.
type AlertSelected struct {
	Alert domain.Alert
}

// HistoryLoaded carries an alert's audit trail back to the model.
type HistoryLoaded struct {
	AlertID string
	Changes []domain.AlertStateChange
	Err     error
}

// AlertUpdated is sent after a lifecycle action completed.
type AlertUpdated struct {
	AlertID string
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewAlerts is the alert list.
	ViewAlerts ViewType = iota
	// ViewDetail shows one alert with its history.
	ViewDetail
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewAlerts:
		return "alerts"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
