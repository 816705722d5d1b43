package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

type lifecycleFixture struct {
	alerts     *memory.AlertStore
	history    *memory.HistoryStore
	dismissals *memory.DismissalStore
	manager    *LifecycleManager
}

func newLifecycleFixture() *lifecycleFixture {
	alerts := memory.NewAlertStore()
	history := memory.NewHistoryStore()
	dismissals := memory.NewDismissalStore()
	return &lifecycleFixture{
		alerts:     alerts,
		history:    history,
		dismissals: dismissals,
		manager:    NewLifecycleManager(alerts, history, dismissals),
	}
}

func (f *lifecycleFixture) seed(t *testing.T, alert *domain.Alert) *domain.Alert {
	t.Helper()
	require.NoError(t, f.alerts.SaveAlert(context.Background(), alert))
	return alert
}

func openAlert(id string) *domain.Alert {
	return &domain.Alert{
		ID:        id,
		ProjectID: "novel",
		Type:      "attribute_inconsistency",
		Severity:  domain.SeverityWarning,
		Excerpt:   "the locket was silver",
		Chapter:   2,
		EntityIDs: []int64{7},
		Status:    domain.StatusOpen,
		CreatedAt: time.Now(),
	}
}

func TestLifecycleManager_Transition_AppendsHistory(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))

	require.NoError(t, f.manager.Transition(ctx, alert, domain.StatusAcknowledged, domain.ActorUser, ReasonUserAction, ""))
	assert.Equal(t, domain.StatusAcknowledged, alert.Status)

	// The store holds the new status too
	stored, err := f.alerts.GetAlert(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAcknowledged, stored.Status)

	rows, err := f.history.HistoryForAlert(ctx, "a-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.StatusOpen, rows[0].From)
	assert.Equal(t, domain.StatusAcknowledged, rows[0].To)
	assert.Equal(t, domain.ActorUser, rows[0].Actor)
}

func TestLifecycleManager_Transition_RejectsInvalidEdge(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))

	err := f.manager.Transition(ctx, alert, domain.StatusVerified, domain.ActorUser, ReasonUserAction, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusOpen, alert.Status)

	// No history row for the rejected edge
	rows, err := f.history.HistoryForAlert(ctx, "a-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLifecycleManager_Transition_SetsResolvedAt(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))
	alert.Status = domain.StatusInProgress

	require.NoError(t, f.manager.Transition(ctx, alert, domain.StatusResolved, domain.ActorUser, ReasonUserAction, "fixed in draft 4"))
	require.NotNil(t, alert.ResolvedAt)
	assert.Equal(t, "fixed in draft 4", alert.ResolutionNote)

	require.NoError(t, f.manager.Transition(ctx, alert, domain.StatusReopened, domain.ActorUser, ReasonUserAction, ""))
	assert.Nil(t, alert.ResolvedAt)
}

func TestLifecycleManager_DismissedIsProtectedFromSystem(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))
	alert.Status = domain.StatusDismissed

	err := f.manager.Transition(ctx, alert, domain.StatusReopened, domain.ActorSystem, ReasonTextChanged, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusDismissed, alert.Status)

	// The user may take the same edge
	require.NoError(t, f.manager.Transition(ctx, alert, domain.StatusReopened, domain.ActorUser, ReasonUserUndismiss, ""))
	assert.Equal(t, domain.StatusReopened, alert.Status)
}

func TestLifecycleManager_RecordDismissal_RegistersPattern(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))

	require.NoError(t, f.manager.RecordDismissal(ctx, alert, "intentional continuity break"))
	assert.Equal(t, domain.StatusDismissed, alert.Status)

	patterns, err := f.dismissals.GetPatterns(ctx, "novel")
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "attribute_inconsistency", patterns[0].AlertType)
	assert.Equal(t, "7", patterns[0].EntityKey)
}

func TestLifecycleManager_Undismiss_RemovesPattern(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))

	require.NoError(t, f.manager.RecordDismissal(ctx, alert, ""))
	require.NoError(t, f.manager.Undismiss(ctx, alert))
	assert.Equal(t, domain.StatusReopened, alert.Status)

	patterns, err := f.dismissals.GetPatterns(ctx, "novel")
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestLifecycleManager_MatchesDismissedPattern(t *testing.T) {
	f := newLifecycleFixture()
	alert := openAlert("a-1")
	pattern := domain.NewDismissalPattern(alert, time.Now())

	matching := domain.CandidateFinding{
		Type:      "attribute_inconsistency",
		Excerpt:   "the locket was silver",
		EntityIDs: []int64{7},
	}
	assert.True(t, f.manager.MatchesDismissedPattern(matching, []domain.DismissalPattern{pattern}))

	differentType := matching
	differentType.Type = "timeline_conflict"
	assert.False(t, f.manager.MatchesDismissedPattern(differentType, []domain.DismissalPattern{pattern}))

	differentEntities := matching
	differentEntities.EntityIDs = []int64{7, 9}
	assert.False(t, f.manager.MatchesDismissedPattern(differentEntities, []domain.DismissalPattern{pattern}))

	differentExcerpt := matching
	differentExcerpt.Excerpt = "the locket was golden"
	assert.False(t, f.manager.MatchesDismissedPattern(differentExcerpt, []domain.DismissalPattern{pattern}))

	// Entity order does not matter
	alert2 := openAlert("a-2")
	alert2.EntityIDs = []int64{9, 7}
	pattern2 := domain.NewDismissalPattern(alert2, time.Now())
	assert.True(t, f.manager.MatchesDismissedPattern(differentEntities, []domain.DismissalPattern{pattern2}))
}

func TestLifecycleManager_Reconcile_TextChangedReopens(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))
	alert.Status = domain.StatusResolved

	anchor := &domain.TextAnchor{ID: "an-1", ContentHash: domain.HashText("the locket was silver")}
	result := domain.RelocationResult{Method: domain.RelocationExact, Found: true}

	require.NoError(t, f.manager.ReconcileAgainstNewText(ctx, alert, anchor, result, "the locket was golden", false))
	assert.Equal(t, domain.StatusReopened, alert.Status)

	rows, err := f.history.HistoryForAlert(ctx, "a-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ReasonTextChanged, rows[0].Reason)
	assert.Equal(t, domain.ActorSystem, rows[0].Actor)

	// Second reconciliation without further edits is a no-op
	require.NoError(t, f.manager.ReconcileAgainstNewText(ctx, alert, anchor, result, "the locket was golden", false))
	assert.Equal(t, domain.StatusReopened, alert.Status)
	rows, err = f.history.HistoryForAlert(ctx, "a-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLifecycleManager_Reconcile_UnchangedTextIsNoOp(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))
	alert.Status = domain.StatusResolved

	anchor := &domain.TextAnchor{ID: "an-1", ContentHash: domain.HashText("the locket was silver")}
	result := domain.RelocationResult{Method: domain.RelocationExact, Found: true}

	// Cosmetic whitespace difference hashes identically
	require.NoError(t, f.manager.ReconcileAgainstNewText(ctx, alert, anchor, result, "The locket  was silver", false))
	assert.Equal(t, domain.StatusResolved, alert.Status)
}

func TestLifecycleManager_Reconcile_DeletedChapterObsoletes(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))

	anchor := &domain.TextAnchor{ID: "an-1"}
	result := domain.RelocationResult{Method: domain.RelocationNotFound}

	require.NoError(t, f.manager.ReconcileAgainstNewText(ctx, alert, anchor, result, "", true))
	assert.Equal(t, domain.StatusObsolete, alert.Status)

	// Obsolete is terminal: nothing ever moves it again
	err := f.manager.Transition(ctx, alert, domain.StatusReopened, domain.ActorUser, ReasonUserAction, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLifecycleManager_Reconcile_NotFoundWithoutDeletionKeepsAlert(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	alert := f.seed(t, openAlert("a-1"))

	anchor := &domain.TextAnchor{ID: "an-1"}
	result := domain.RelocationResult{Method: domain.RelocationNotFound}

	// Orphaned anchor in a surviving chapter: surfaced for manual
	// review, never auto-dismissed
	require.NoError(t, f.manager.ReconcileAgainstNewText(ctx, alert, anchor, result, "", false))
	assert.Equal(t, domain.StatusOpen, alert.Status)
}

func TestLifecycleManager_MarkObsolete(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()

	a1 := openAlert("a-1")
	a1.Chapter = 3
	a2 := openAlert("a-2")
	a2.Chapter = 3
	a2.Status = domain.StatusDismissed
	a3 := openAlert("a-3")
	a3.Chapter = 1
	f.seed(t, a1)
	f.seed(t, a2)
	f.seed(t, a3)

	count, err := f.manager.MarkObsolete(ctx, "novel", []int{3}, ReasonChapterDeleted)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := f.alerts.GetAlert(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusObsolete, stored.Status)

	// Dismissed alerts and other chapters are untouched
	stored, err = f.alerts.GetAlert(ctx, "a-2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDismissed, stored.Status)
	stored, err = f.alerts.GetAlert(ctx, "a-3")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, stored.Status)
}
