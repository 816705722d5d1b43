package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
)

// Ensure AlertBrowser implements the interface.
var _ driving.AlertService = (*AlertBrowser)(nil)

// AlertBrowser is the user-facing alert service. Browsing reads the
// store directly; every status change goes through the lifecycle
// manager so the transition rules and audit trail stay in one place.
type AlertBrowser struct {
	alerts    driven.AlertStore
	history   driven.HistoryStore
	lifecycle *LifecycleManager
}

// NewAlertBrowser creates a new alert service.
func NewAlertBrowser(alerts driven.AlertStore, history driven.HistoryStore, lifecycle *LifecycleManager) *AlertBrowser {
	return &AlertBrowser{
		alerts:    alerts,
		history:   history,
		lifecycle: lifecycle,
	}
}

// List returns the project's alerts matching the filter.
func (b *AlertBrowser) List(ctx context.Context, projectID string, filter domain.AlertFilter) ([]domain.Alert, error) {
	return b.alerts.ListAlerts(ctx, projectID, filter)
}

// Get returns one alert.
func (b *AlertBrowser) Get(ctx context.Context, alertID string) (*domain.Alert, error) {
	return b.alerts.GetAlert(ctx, alertID)
}

// History returns an alert's audit trail, oldest first.
func (b *AlertBrowser) History(ctx context.Context, alertID string) ([]domain.AlertStateChange, error) {
	if _, err := b.alerts.GetAlert(ctx, alertID); err != nil {
		return nil, err
	}
	return b.history.HistoryForAlert(ctx, alertID)
}

// Open marks a new alert as seen.
func (b *AlertBrowser) Open(ctx context.Context, alertID string) error {
	return b.transition(ctx, alertID, domain.StatusOpen, "")
}

// Acknowledge records that the user registered the alert.
func (b *AlertBrowser) Acknowledge(ctx context.Context, alertID string) error {
	return b.transition(ctx, alertID, domain.StatusAcknowledged, "")
}

// Start marks the alert as being worked on.
func (b *AlertBrowser) Start(ctx context.Context, alertID string) error {
	return b.transition(ctx, alertID, domain.StatusInProgress, "")
}

// Resolve marks the underlying issue as corrected.
func (b *AlertBrowser) Resolve(ctx context.Context, alertID, note string) error {
	return b.transition(ctx, alertID, domain.StatusResolved, note)
}

// Verify confirms a resolution.
func (b *AlertBrowser) Verify(ctx context.Context, alertID string) error {
	return b.transition(ctx, alertID, domain.StatusVerified, "")
}

// Dismiss rejects the alert and records its dismissal pattern.
func (b *AlertBrowser) Dismiss(ctx context.Context, alertID, note string) error {
	alert, err := b.alerts.GetAlert(ctx, alertID)
	if err != nil {
		return err
	}
	return b.lifecycle.RecordDismissal(ctx, alert, note)
}

// Reopen returns a resolved or verified alert to the queue.
func (b *AlertBrowser) Reopen(ctx context.Context, alertID, note string) error {
	return b.transition(ctx, alertID, domain.StatusReopened, note)
}

// Undismiss reopens a dismissed alert and removes its dismissal
// pattern so future runs may regenerate similar findings.
func (b *AlertBrowser) Undismiss(ctx context.Context, alertID string) error {
	alert, err := b.alerts.GetAlert(ctx, alertID)
	if err != nil {
		return err
	}
	if alert.Status != domain.StatusDismissed {
		return fmt.Errorf("%w: alert %s is %s, not dismissed", domain.ErrInvalidTransition, alertID, alert.Status)
	}
	return b.lifecycle.Undismiss(ctx, alert)
}

func (b *AlertBrowser) transition(ctx context.Context, alertID string, to domain.AlertStatus, note string) error {
	alert, err := b.alerts.GetAlert(ctx, alertID)
	if err != nil {
		return err
	}
	return b.lifecycle.Transition(ctx, alert, to, domain.ActorUser, ReasonUserAction, note)
}
