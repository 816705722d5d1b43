package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlertStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected AlertStatus
		wantErr  bool
	}{
		{name: "canonical value", input: "resolved", expected: StatusResolved},
		{name: "mixed case", input: "Dismissed", expected: StatusDismissed},
		{name: "surrounding whitespace", input: " open ", expected: StatusOpen},
		{name: "legacy pending_review", input: "pending_review", expected: StatusPending},
		{name: "legacy wont_fix", input: "wont_fix", expected: StatusDismissed},
		{name: "legacy fixed", input: "fixed", expected: StatusResolved},
		{name: "legacy stale", input: "stale", expected: StatusObsolete},
		{name: "legacy hyphenated in-progress", input: "in-progress", expected: StatusInProgress},
		{name: "unknown value", input: "banana", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := ParseAlertStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestCanTransition_MainPath(t *testing.T) {
	// The full happy path: new -> open -> acknowledged -> in_progress
	// -> resolved -> verified.
	path := []AlertStatus{
		StatusNew, StatusOpen, StatusAcknowledged,
		StatusInProgress, StatusResolved, StatusVerified,
	}
	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransition(path[i], path[i+1]),
			"%s -> %s should be allowed", path[i], path[i+1])
	}
}

func TestCanTransition_Dismissal(t *testing.T) {
	for _, from := range []AlertStatus{StatusOpen, StatusAcknowledged, StatusInProgress} {
		assert.True(t, CanTransition(from, StatusDismissed), "%s -> dismissed", from)
	}
	// New alerts cannot be dismissed before being opened.
	assert.False(t, CanTransition(StatusNew, StatusDismissed))
	// Resolved alerts cannot be dismissed.
	assert.False(t, CanTransition(StatusResolved, StatusDismissed))
}

func TestCanTransition_Reopen(t *testing.T) {
	assert.True(t, CanTransition(StatusResolved, StatusReopened))
	assert.True(t, CanTransition(StatusVerified, StatusReopened))
	assert.True(t, CanTransition(StatusReopened, StatusAcknowledged))
	assert.True(t, CanTransition(StatusReopened, StatusResolved))
	assert.False(t, CanTransition(StatusReopened, StatusVerified))
}

func TestCanTransition_TerminalStates(t *testing.T) {
	// Obsolete and auto_resolved permit nothing further.
	for _, to := range AllStatuses() {
		assert.False(t, CanTransition(StatusObsolete, to), "obsolete -> %s", to)
		assert.False(t, CanTransition(StatusAutoResolved, to), "auto_resolved -> %s", to)
	}
}

func TestCanTransition_SystemEdges(t *testing.T) {
	// Every non-terminal, non-dismissed state may become obsolete or
	// auto-resolved.
	nonTerminal := []AlertStatus{
		StatusNew, StatusOpen, StatusAcknowledged, StatusPending,
		StatusInProgress, StatusResolved, StatusVerified, StatusReopened,
	}
	for _, from := range nonTerminal {
		assert.True(t, CanTransition(from, StatusObsolete), "%s -> obsolete", from)
		assert.True(t, CanTransition(from, StatusAutoResolved), "%s -> auto_resolved", from)
	}

	// A dismissal is a user decision; reconciliation must not erase it.
	assert.False(t, CanTransition(StatusDismissed, StatusObsolete))
	assert.False(t, CanTransition(StatusDismissed, StatusAutoResolved))
	// The only way out of dismissed is the explicit un-dismiss.
	assert.True(t, CanTransition(StatusDismissed, StatusReopened))
}

func TestCanTransition_SelfLoopRejected(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.False(t, CanTransition(s, s), "%s -> %s", s, s)
	}
}

func TestAlertStatus_IsOpen(t *testing.T) {
	assert.True(t, StatusNew.IsOpen())
	assert.True(t, StatusReopened.IsOpen())
	assert.False(t, StatusResolved.IsOpen())
	assert.False(t, StatusDismissed.IsOpen())
	assert.False(t, StatusObsolete.IsOpen())
}

func TestAlert_EntityKey(t *testing.T) {
	a := Alert{EntityIDs: []int64{42, 7, 19}}
	assert.Equal(t, "7,19,42", a.EntityKey())

	empty := Alert{}
	assert.Equal(t, "", empty.EntityKey())
}

func TestNewDismissalPattern(t *testing.T) {
	now := time.Now()
	alert := &Alert{
		ProjectID: "novel",
		Type:      "attribute_inconsistency",
		EntityIDs: []int64{7},
		Excerpt:   "her eyes were green",
	}

	p := NewDismissalPattern(alert, now)
	assert.Equal(t, "novel", p.ProjectID)
	assert.Equal(t, "attribute_inconsistency", p.AlertType)
	assert.Equal(t, "7", p.EntityKey)
	assert.Equal(t, ShortHash("her eyes were green"), p.ExcerptHash)

	// Signature is stable regardless of entity order on the alert.
	shuffled := &Alert{
		ProjectID: "novel",
		Type:      "attribute_inconsistency",
		EntityIDs: []int64{7},
		Excerpt:   "Her  eyes were GREEN",
	}
	assert.Equal(t, p.Signature(), NewDismissalPattern(shuffled, now).Signature(),
		"normalized excerpt and sorted entities must produce the same signature")
}

func TestAlertFilter_Matches(t *testing.T) {
	alert := &Alert{
		Type:     "attribute_inconsistency",
		Severity: SeverityWarning,
		Status:   StatusOpen,
		Chapter:  2,
	}

	tests := []struct {
		name     string
		filter   AlertFilter
		expected bool
	}{
		{name: "empty filter matches", filter: AlertFilter{}, expected: true},
		{name: "status match", filter: AlertFilter{Statuses: []AlertStatus{StatusOpen}}, expected: true},
		{name: "status mismatch", filter: AlertFilter{Statuses: []AlertStatus{StatusResolved}}, expected: false},
		{name: "severity match", filter: AlertFilter{Severities: []AlertSeverity{SeverityWarning}}, expected: true},
		{name: "chapter mismatch", filter: AlertFilter{Chapters: []int{3}}, expected: false},
		{name: "type match", filter: AlertFilter{Types: []string{"attribute_inconsistency"}}, expected: true},
		{name: "open only on open alert", filter: AlertFilter{OpenOnly: true}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Matches(alert))
		})
	}

	dismissed := &Alert{Status: StatusDismissed}
	assert.False(t, AlertFilter{OpenOnly: true}.Matches(dismissed))
}
