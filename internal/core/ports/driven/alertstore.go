package driven

import (
	"context"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

// AlertStore persists alerts. Alerts are updated in place (status,
// confidence) but only ever through the lifecycle manager.
type AlertStore interface {
	// SaveAlert inserts or updates an alert.
	SaveAlert(ctx context.Context, alert *domain.Alert) error

	// GetAlert returns one alert or domain.ErrNotFound.
	GetAlert(ctx context.Context, id string) (*domain.Alert, error)

	// GetAlertsForChapters returns all alerts of the project whose
	// chapter is in the given set. An empty set returns every alert.
	GetAlertsForChapters(ctx context.Context, projectID string, chapters []int) ([]domain.Alert, error)

	// ListAlerts returns the project's alerts matching the filter.
	ListAlerts(ctx context.Context, projectID string, filter domain.AlertFilter) ([]domain.Alert, error)
}

// AnchorStore persists text anchors. Anchors are never deleted; failed
// relocation only zeroes their confidence.
type AnchorStore interface {
	// SaveAnchor inserts or updates an anchor.
	SaveAnchor(ctx context.Context, anchor *domain.TextAnchor) error

	// GetAnchor returns one anchor or domain.ErrNotFound.
	GetAnchor(ctx context.Context, id string) (*domain.TextAnchor, error)

	// GetAnchorsForProject returns all anchors of a project.
	GetAnchorsForProject(ctx context.Context, projectID string) ([]domain.TextAnchor, error)
}

// HistoryStore persists alert state changes append-only. Rows are never
// mutated or deleted.
type HistoryStore interface {
	// AppendHistory appends one state-change row and assigns its ID.
	AppendHistory(ctx context.Context, change *domain.AlertStateChange) error

	// HistoryForAlert returns an alert's history, oldest first.
	HistoryForAlert(ctx context.Context, alertID string) ([]domain.AlertStateChange, error)
}

// DismissalStore persists dismissal patterns per project.
type DismissalStore interface {
	// RecordPattern stores a pattern. Recording an identical signature
	// twice is a no-op.
	RecordPattern(ctx context.Context, pattern domain.DismissalPattern) error

	// GetPatterns returns all recorded patterns for a project.
	GetPatterns(ctx context.Context, projectID string) ([]domain.DismissalPattern, error)

	// RemovePattern deletes the pattern with the given signature.
	// Used when the user un-dismisses an alert.
	RemovePattern(ctx context.Context, projectID, signature string) error
}
