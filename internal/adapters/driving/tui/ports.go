// Package tui provides an interactive terminal user interface for inkwell.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Alerts provides alert browsing and lifecycle actions.
	Alerts driving.AlertService

	// Versions inspects imported manuscript versions.
	Versions driving.VersionService
}
