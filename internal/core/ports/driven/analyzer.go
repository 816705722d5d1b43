package driven

import (
	"context"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

// ChapterInput is the per-chapter contract between the core and an
// external analyzer: normalized chapter text plus prior context.
type ChapterInput struct {
	// ProjectID identifies the project.
	ProjectID string

	// Chapter is the 1-indexed chapter number.
	Chapter int

	// Text is the chapter text; finding offsets are relative to it.
	Text string

	// EntityContext lists the entity ids referenced by the chapter's
	// prior alerts, so analyzers can relate new findings to known
	// entities. Empty on an initial import and in full_reset runs.
	EntityContext []int64
}

// AnalyzerRunner dispatches one chapter to whatever analyzers are
// configured and returns their combined candidate findings.
// A failure aborts only that chapter, never the run.
type AnalyzerRunner interface {
	// AnalyzeChapter runs all configured analyzers over one chapter.
	AnalyzeChapter(ctx context.Context, input ChapterInput) ([]domain.CandidateFinding, error)
}

// ProgressSink receives per-chapter completion events during a run.
// Implementations must be safe for concurrent use; the orchestrator
// may report chapters from multiple goroutines.
type ProgressSink interface {
	// ChapterCompleted is called after a chapter's results have been
	// committed (or its failure recorded).
	ChapterCompleted(event domain.ChapterEvent)
}
