package mcp

import (
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Alerts provides alert browsing and lifecycle actions.
	Alerts driving.AlertService

	// Analysis triggers and observes analysis runs.
	Analysis driving.AnalysisOrchestrator

	// Versions inspects imported manuscript versions.
	Versions driving.VersionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Alerts == nil {
		return ErrMissingAlertService
	}
	// Analysis and Versions are optional; their tools and resources
	// report unavailability at call time.
	return nil
}
