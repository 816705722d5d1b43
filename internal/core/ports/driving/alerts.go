package driving

import (
	"context"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

// AlertService exposes alert browsing and user lifecycle actions.
// Every status change flows through the lifecycle manager; the service
// only adds the user-facing vocabulary.
type AlertService interface {
	// List returns the project's alerts matching the filter.
	List(ctx context.Context, projectID string, filter domain.AlertFilter) ([]domain.Alert, error)

	// Get returns one alert.
	Get(ctx context.Context, alertID string) (*domain.Alert, error)

	// History returns an alert's full audit trail, oldest first.
	History(ctx context.Context, alertID string) ([]domain.AlertStateChange, error)

	// Open marks a new alert as seen (new -> open).
	Open(ctx context.Context, alertID string) error

	// Acknowledge records that the user registered the alert.
	Acknowledge(ctx context.Context, alertID string) error

	// Start marks the alert as being worked on.
	Start(ctx context.Context, alertID string) error

	// Resolve marks the underlying issue as corrected.
	Resolve(ctx context.Context, alertID, note string) error

	// Verify confirms a resolution.
	Verify(ctx context.Context, alertID string) error

	// Dismiss rejects the alert as a false positive and records its
	// dismissal pattern so it is never regenerated.
	Dismiss(ctx context.Context, alertID, note string) error

	// Reopen returns a resolved or verified alert to the queue.
	Reopen(ctx context.Context, alertID, note string) error

	// Undismiss is the explicit user action that reopens a dismissed
	// alert and removes its dismissal pattern.
	Undismiss(ctx context.Context, alertID string) error
}

// VersionService exposes version inspection.
type VersionService interface {
	// List returns the project's versions, oldest first.
	List(ctx context.Context, projectID string) ([]domain.DocumentVersion, error)

	// Latest returns the newest version.
	Latest(ctx context.Context, projectID string) (*domain.DocumentVersion, error)
}
