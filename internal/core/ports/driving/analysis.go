package driving

import (
	"context"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

// AnalysisOrchestrator coordinates one analysis run per project.
type AnalysisOrchestrator interface {
	// Run imports the manuscript as a new version and analyzes it
	// according to the mode. Runs for the same project are serialized;
	// a second concurrent call returns domain.ErrRunInProgress.
	Run(ctx context.Context, projectID string, manuscript domain.Manuscript, mode domain.AnalysisMode) (*domain.AnalysisResult, error)

	// Status returns run progress for a project.
	Status(ctx context.Context, projectID string) (*RunStatus, error)
}

// RunStatus represents the current state of an analysis run.
type RunStatus struct {
	// ProjectID identifies the project.
	ProjectID string

	// Running indicates if a run is currently in progress.
	Running bool

	// ChaptersCompleted and ChaptersTotal track per-chapter progress.
	ChaptersCompleted int
	ChaptersTotal     int

	// AlertsCreated counts new alerts committed so far.
	AlertsCreated int

	// ErrorCount is the number of failed chapters so far.
	ErrorCount int
}
