package domain

import (
	"fmt"
	"strings"
	"time"
)

// AnalysisMode selects how much history a run takes into account.
type AnalysisMode string

const (
	// ModeIncremental analyzes only changed chapters, reusing prior
	// alerts elsewhere. The default.
	ModeIncremental AnalysisMode = "incremental"

	// ModeFullKeepDecisions reanalyzes everything but still honours
	// dismissal patterns and existing user decisions.
	ModeFullKeepDecisions AnalysisMode = "full_keep_decisions"

	// ModeFullReset reanalyzes everything and obsoletes prior alerts.
	// Dismissal patterns still apply: dismissals are user decisions,
	// not analysis history.
	ModeFullReset AnalysisMode = "full_reset"
)

// ParseAnalysisMode validates a mode string from the caller.
func ParseAnalysisMode(s string) (AnalysisMode, error) {
	switch AnalysisMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeIncremental, "":
		return ModeIncremental, nil
	case ModeFullKeepDecisions:
		return ModeFullKeepDecisions, nil
	case ModeFullReset:
		return ModeFullReset, nil
	}
	return "", fmt.Errorf("%w: unknown analysis mode %q", ErrInvalidInput, s)
}

// CandidateFinding is one typed finding emitted by an external analyzer
// for one chapter. The core never interprets semantic correctness; it
// only anchors, filters and inserts candidates.
type CandidateFinding struct {
	// Type is the detector-specific type.
	Type string

	// Category groups the type.
	Category AlertCategory

	// Severity and Confidence come from the analyzer.
	Severity   AlertSeverity
	Confidence float64

	// Title and Description summarise the finding.
	Title       string
	Description string

	// Excerpt is the relevant text.
	Excerpt string

	// StartChar and EndChar are chapter-relative offsets of the excerpt.
	StartChar int
	EndChar   int

	// EntityIDs are the related entity identifiers.
	EntityIDs []int64

	// SourceModule names the producing analyzer.
	SourceModule string
}

// RelocationStats counts relocation outcomes per run.
type RelocationStats struct {
	Exact      int
	Structural int
	Context    int
	Fuzzy      int
	NotFound   int
}

// Total returns the number of relocations attempted.
func (s RelocationStats) Total() int {
	return s.Exact + s.Structural + s.Context + s.Fuzzy + s.NotFound
}

// Record counts one relocation outcome.
func (s *RelocationStats) Record(method RelocationMethod) {
	switch method {
	case RelocationExact:
		s.Exact++
	case RelocationStructural:
		s.Structural++
	case RelocationContext:
		s.Context++
	case RelocationFuzzy:
		s.Fuzzy++
	case RelocationNotFound:
		s.NotFound++
	}
}

// ChapterFailure records an analyzer failure for one chapter. A failed
// chapter does not abort the run; its existing alerts are left
// untouched.
type ChapterFailure struct {
	Chapter int
	Err     string
}

// ChapterEvent is emitted to the caller-supplied progress sink when one
// chapter's analysis has been committed.
type ChapterEvent struct {
	ProjectID     string
	Version       int
	Chapter       int
	AlertsCreated int
	Suppressed    int
	Failed        bool
}

// AnalysisResult is the merged outcome of one orchestrated run.
type AnalysisResult struct {
	ProjectID string
	Version   int
	Mode      AnalysisMode

	// AnalyzedChapters were dispatched to analyzers this run;
	// CarriedChapters kept their alerts untouched.
	AnalyzedChapters []int
	CarriedChapters  []int

	// Alert movement counts.
	AlertsCreated   int
	AlertsObsoleted int
	AlertsReopened  int
	AlertsCarried   int
	Suppressed      int

	// Relocations aggregates anchor relocation outcomes.
	Relocations RelocationStats

	// FailedChapters lists analyzer failures; the run continued.
	FailedChapters []ChapterFailure

	StartedAt time.Time
	EndedAt   time.Time
}
