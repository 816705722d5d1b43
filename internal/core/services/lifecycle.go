package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell-cli/internal/logger"
)

// Transition reasons written to history rows.
const (
	ReasonTextChanged    = "text_changed"
	ReasonChapterDeleted = "chapter_deleted"
	ReasonAnalysisReset  = "analysis_reset"
	ReasonUserAction     = "user_action"
	ReasonUserUndismiss  = "user_undismiss"
)

// LifecycleManager owns the alert state machine. Transition is the
// only write path to an alert's status: it validates the edge, appends
// the history row and persists the alert atomically from the caller's
// point of view.
type LifecycleManager struct {
	alerts     driven.AlertStore
	history    driven.HistoryStore
	dismissals driven.DismissalStore
	now        func() time.Time
}

// NewLifecycleManager creates a lifecycle manager.
func NewLifecycleManager(alerts driven.AlertStore, history driven.HistoryStore, dismissals driven.DismissalStore) *LifecycleManager {
	return &LifecycleManager{
		alerts:     alerts,
		history:    history,
		dismissals: dismissals,
		now:        time.Now,
	}
}

// Transition moves an alert along one edge of the state machine.
// Edges outside the allowed set are rejected with
// domain.ErrInvalidTransition, never silently coerced. The dismissed
// -> reopened edge additionally requires the user actor: automatic
// reconciliation must never undo a dismissal.
func (m *LifecycleManager) Transition(ctx context.Context, alert *domain.Alert, to domain.AlertStatus, actor domain.Actor, reason, note string) error {
	from := alert.Status
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	if from == domain.StatusDismissed && actor != domain.ActorUser {
		return fmt.Errorf("%w: %s -> %s requires user actor", domain.ErrInvalidTransition, from, to)
	}

	change := &domain.AlertStateChange{
		AlertID: alert.ID,
		From:    from,
		To:      to,
		At:      m.now(),
		Actor:   actor,
		Reason:  reason,
		Note:    note,
	}
	if err := m.history.AppendHistory(ctx, change); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	alert.Status = to
	switch to {
	case domain.StatusResolved, domain.StatusAutoResolved:
		at := change.At
		alert.ResolvedAt = &at
	case domain.StatusReopened:
		alert.ResolvedAt = nil
	}
	if note != "" {
		alert.ResolutionNote = note
	}

	if err := m.alerts.SaveAlert(ctx, alert); err != nil {
		return fmt.Errorf("save alert: %w", err)
	}

	logger.Debug("alert %s: %s -> %s (%s, %s)", alert.ID, from, to, actor, reason)
	return nil
}

// RecordDismissal dismisses an alert and registers its pattern so an
// equivalent finding is never regenerated.
func (m *LifecycleManager) RecordDismissal(ctx context.Context, alert *domain.Alert, note string) error {
	if err := m.Transition(ctx, alert, domain.StatusDismissed, domain.ActorUser, ReasonUserAction, note); err != nil {
		return err
	}
	pattern := domain.NewDismissalPattern(alert, m.now())
	if err := m.dismissals.RecordPattern(ctx, pattern); err != nil {
		return fmt.Errorf("record dismissal pattern: %w", err)
	}
	return nil
}

// Undismiss is the explicit user action reopening a dismissed alert.
// It also removes the dismissal pattern so the finding may regenerate
// in later runs.
func (m *LifecycleManager) Undismiss(ctx context.Context, alert *domain.Alert) error {
	if err := m.Transition(ctx, alert, domain.StatusReopened, domain.ActorUser, ReasonUserUndismiss, ""); err != nil {
		return err
	}
	pattern := domain.NewDismissalPattern(alert, m.now())
	if err := m.dismissals.RemovePattern(ctx, alert.ProjectID, pattern.Signature()); err != nil {
		return fmt.Errorf("remove dismissal pattern: %w", err)
	}
	return nil
}

// MatchesDismissedPattern reports whether a candidate finding carries
// the signature of a previously dismissed alert: type, entity-id set
// and excerpt hash must all match.
func (m *LifecycleManager) MatchesDismissedPattern(candidate domain.CandidateFinding, patterns []domain.DismissalPattern) bool {
	signature := candidateSignature(candidate)
	for _, p := range patterns {
		if p.Signature() == signature {
			return true
		}
	}
	return false
}

// ReconcileAgainstNewText applies the system rules after relocation:
//   - relocation failed and the containing chapter was deleted:
//     the alert becomes obsolete;
//   - the live text at the relocated position no longer matches the
//     anchor's content hash and the alert was resolved or verified:
//     the resolution is reopened with reason "text_changed".
//
// Everything else is a no-op, which makes reconciliation idempotent:
// a reopened alert does not reopen again on the next run.
func (m *LifecycleManager) ReconcileAgainstNewText(ctx context.Context, alert *domain.Alert, anchor *domain.TextAnchor, result domain.RelocationResult, liveText string, chapterDeleted bool) error {
	if result.Method == domain.RelocationNotFound && chapterDeleted {
		if !domain.CanTransition(alert.Status, domain.StatusObsolete) {
			return nil
		}
		return m.Transition(ctx, alert, domain.StatusObsolete, domain.ActorSystem, ReasonChapterDeleted, "")
	}

	if result.Found && domain.HashText(liveText) != anchor.ContentHash {
		if alert.Status == domain.StatusResolved || alert.Status == domain.StatusVerified {
			return m.Transition(ctx, alert, domain.StatusReopened, domain.ActorSystem, ReasonTextChanged, "")
		}
	}

	return nil
}

// MarkObsolete transitions every non-terminal, non-dismissed alert of
// the given chapters to obsolete. Used when chapters are deleted.
func (m *LifecycleManager) MarkObsolete(ctx context.Context, projectID string, chapters []int, reason string) (int, error) {
	if len(chapters) == 0 {
		return 0, nil
	}
	alerts, err := m.alerts.GetAlertsForChapters(ctx, projectID, chapters)
	if err != nil {
		return 0, fmt.Errorf("get alerts for chapters: %w", err)
	}

	count := 0
	for i := range alerts {
		alert := &alerts[i]
		if !domain.CanTransition(alert.Status, domain.StatusObsolete) {
			continue
		}
		if err := m.Transition(ctx, alert, domain.StatusObsolete, domain.ActorSystem, reason, ""); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// candidateSignature mirrors domain.DismissalPattern.Signature for a
// candidate finding that has no alert yet.
func candidateSignature(c domain.CandidateFinding) string {
	ids := make([]int64, len(c.EntityIDs))
	copy(ids, c.EntityIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	key := ""
	for i, id := range ids {
		if i > 0 {
			key += ","
		}
		key += fmt.Sprintf("%d", id)
	}
	return c.Type + "|" + key + "|" + domain.ShortHash(c.Excerpt)
}
