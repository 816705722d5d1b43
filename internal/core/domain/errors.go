package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates an alert state edge that is not
	// permitted by the lifecycle state machine. Transitions are always
	// rejected with this error, never silently coerced.
	ErrInvalidTransition = errors.New("invalid alert transition")

	// ErrAnchorNotFound indicates relocation exhausted every strategy.
	// The alert is kept with confidence 0 and surfaced for manual review,
	// never auto-dismissed.
	ErrAnchorNotFound = errors.New("anchor not found in new version")

	// ErrVersionConflict indicates concurrent version creation for the
	// same project. The caller must retry against the now-latest version.
	ErrVersionConflict = errors.New("version conflict")

	// ErrRunInProgress indicates an analysis run is already active for
	// the project. Runs are serialized per project.
	ErrRunInProgress = errors.New("analysis run in progress")

	// ErrAnalyzerUnavailable indicates no analyzer is registered for a
	// requested analysis type.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")

	// ErrEmptyManuscript indicates the parsed manuscript has no chapters.
	ErrEmptyManuscript = errors.New("manuscript has no chapters")
)
