package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Actor identifies who caused an alert state change.
type Actor string

const (
	// ActorUser marks a change made by the editor.
	ActorUser Actor = "user"
	// ActorSystem marks a change made by reconciliation.
	ActorSystem Actor = "system"
)

// AlertCategory groups alert types for filtering and display.
type AlertCategory string

const (
	CategoryConsistency  AlertCategory = "consistency"
	CategoryStyle        AlertCategory = "style"
	CategoryBehavioral   AlertCategory = "behavioral"
	CategoryStructure    AlertCategory = "structure"
	CategoryTimeline     AlertCategory = "timeline"
	CategoryVoice        AlertCategory = "voice_deviation"
	CategoryEntity       AlertCategory = "entity"
	CategoryRepetition   AlertCategory = "repetition"
	CategoryOther        AlertCategory = "other"
)

// AlertSeverity ranks how urgently a finding needs attention.
type AlertSeverity string

const (
	// SeverityCritical must be corrected (evident error).
	SeverityCritical AlertSeverity = "critical"
	// SeverityWarning should be reviewed (possible error).
	SeverityWarning AlertSeverity = "warning"
	// SeverityInfo is a recommended improvement.
	SeverityInfo AlertSeverity = "info"
	// SeverityHint is a minor optional suggestion.
	SeverityHint AlertSeverity = "hint"
)

// AlertStatus is the canonical lifecycle state of an alert.
// Historical naming schemes are normalized once at ingestion via
// ParseAlertStatus and never carried through the state machine.
type AlertStatus string

const (
	StatusNew          AlertStatus = "new"
	StatusOpen         AlertStatus = "open"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusPending      AlertStatus = "pending"
	StatusInProgress   AlertStatus = "in_progress"
	StatusResolved     AlertStatus = "resolved"
	StatusVerified     AlertStatus = "verified"
	StatusDismissed    AlertStatus = "dismissed"
	StatusReopened     AlertStatus = "reopened"
	StatusAutoResolved AlertStatus = "auto_resolved"
	StatusObsolete     AlertStatus = "obsolete"
)

// AllStatuses lists every canonical status.
func AllStatuses() []AlertStatus {
	return []AlertStatus{
		StatusNew, StatusOpen, StatusAcknowledged, StatusPending,
		StatusInProgress, StatusResolved, StatusVerified,
		StatusDismissed, StatusReopened, StatusAutoResolved,
		StatusObsolete,
	}
}

// legacyStatuses maps historical status strings found across the
// project's evolution to their canonical value.
var legacyStatuses = map[string]AlertStatus{
	"pending_review": StatusPending,
	"ack":            StatusAcknowledged,
	"in-progress":    StatusInProgress,
	"inprogress":     StatusInProgress,
	"fixed":          StatusResolved,
	"wont_fix":       StatusDismissed,
	"ignored":        StatusDismissed,
	"auto-resolved":  StatusAutoResolved,
	"stale":          StatusObsolete,
	"outdated":       StatusObsolete,
}

// ParseAlertStatus normalizes a stored status string, including legacy
// values, into the canonical union. Unknown values are rejected.
func ParseAlertStatus(s string) (AlertStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, status := range AllStatuses() {
		if normalized == string(status) {
			return status, nil
		}
	}
	if status, ok := legacyStatuses[normalized]; ok {
		return status, nil
	}
	return "", fmt.Errorf("%w: unknown alert status %q", ErrInvalidInput, s)
}

// userTransitions is the explicit edge set of the state machine.
// System-wide edges into StatusObsolete and StatusAutoResolved are
// handled by CanTransition for every non-terminal state.
//
// StatusPending is a legacy intake state (normalized from the old
// "pending_review" value); it rejoins the main path at acknowledged
// or in_progress.
var userTransitions = map[AlertStatus][]AlertStatus{
	StatusNew:          {StatusOpen},
	StatusOpen:         {StatusAcknowledged, StatusDismissed},
	StatusAcknowledged: {StatusInProgress, StatusDismissed},
	StatusPending:      {StatusAcknowledged, StatusInProgress, StatusDismissed},
	StatusInProgress:   {StatusResolved, StatusDismissed},
	StatusResolved:     {StatusVerified, StatusReopened},
	StatusVerified:     {StatusReopened},
	StatusReopened:     {StatusAcknowledged, StatusResolved},
	// Dismissal is terminal for the system; only an explicit user
	// un-dismiss reopens. The lifecycle manager enforces the actor.
	StatusDismissed: {StatusReopened},
}

// IsTerminal reports whether no further transitions are permitted from
// the status. Dismissed is excluded: it allows exactly the user-only
// un-dismiss edge.
func (s AlertStatus) IsTerminal() bool {
	return s == StatusObsolete || s == StatusAutoResolved
}

// IsOpen reports whether the alert still needs user attention.
func (s AlertStatus) IsOpen() bool {
	switch s {
	case StatusNew, StatusOpen, StatusAcknowledged, StatusPending,
		StatusInProgress, StatusReopened:
		return true
	}
	return false
}

// CanTransition reports whether the edge from -> to is in the allowed
// set. Any non-terminal, non-dismissed state may move to obsolete
// (chapter deleted) or auto_resolved (issue no longer applies).
func CanTransition(from, to AlertStatus) bool {
	if from == to {
		return false
	}
	if from.IsTerminal() {
		return false
	}
	if (to == StatusObsolete || to == StatusAutoResolved) && from != StatusDismissed {
		return true
	}
	for _, allowed := range userTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns every status reachable from the given one.
func AllowedTransitions(from AlertStatus) []AlertStatus {
	var out []AlertStatus
	for _, to := range AllStatuses() {
		if CanTransition(from, to) {
			out = append(out, to)
		}
	}
	return out
}

// Alert is a finding produced by an analyzer. One alert maps to exactly
// one lifecycle status at any time; the only write path to Status is
// the lifecycle manager's Transition.
type Alert struct {
	// ID is the unique alert identity.
	ID string

	// ProjectID identifies the owning project.
	ProjectID string

	// Type is the detector-specific type, e.g. "attribute_inconsistency".
	Type string

	// Category groups the type for filtering.
	Category AlertCategory

	// Severity ranks urgency.
	Severity AlertSeverity

	// Confidence is the analyzer's confidence in [0, 1].
	Confidence float64

	// Title is a short summary; Description carries the detail.
	Title       string
	Description string

	// Excerpt is the relevant text at detection time.
	Excerpt string

	// Chapter is the 1-indexed chapter the finding points at.
	Chapter int

	// AnchorIDs reference the alert's text anchors. The anchor holds
	// the position; the alert only references it.
	AnchorIDs []string

	// EntityIDs are the related entity identifiers.
	EntityIDs []int64

	// SourceModule names the analyzer that produced the finding.
	SourceModule string

	// Status is the current lifecycle state.
	Status AlertStatus

	// ResolutionNote is the user's note on resolution or dismissal.
	ResolutionNote string

	// DetectedVersion is the version the alert was first detected in.
	DetectedVersion int

	// CreatedAt and ResolvedAt are lifecycle timestamps.
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// EntityKey returns the sorted, comma-joined entity-id set. It is part
// of the dismissal-pattern signature and must be deterministic.
func (a *Alert) EntityKey() string {
	if len(a.EntityIDs) == 0 {
		return ""
	}
	ids := make([]int64, len(a.EntityIDs))
	copy(ids, a.EntityIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

// AlertStateChange is one append-only history row. Rows are never
// mutated or deleted; together they form the full audit trail.
type AlertStateChange struct {
	// ID is assigned by the store.
	ID int64

	// AlertID identifies the alert.
	AlertID string

	// From and To are the edge endpoints.
	From AlertStatus
	To   AlertStatus

	// At is when the transition happened.
	At time.Time

	// Actor is who caused it.
	Actor Actor

	// Reason is a machine-readable cause, e.g. "text_changed".
	Reason string

	// Note is free text supplied by the actor.
	Note string
}

// DismissalPattern is the signature recorded when an alert is
// dismissed. Candidates matching a recorded pattern are suppressed on
// re-analysis so a rejected finding never comes back.
type DismissalPattern struct {
	// ProjectID scopes the pattern.
	ProjectID string

	// AlertType is the detector-specific type.
	AlertType string

	// EntityKey is the sorted entity-id set, as Alert.EntityKey.
	EntityKey string

	// ExcerptHash is ShortHash of the dismissed alert's excerpt.
	ExcerptHash string

	// RecordedAt is when the dismissal happened.
	RecordedAt time.Time
}

// NewDismissalPattern derives the signature for a dismissed alert.
func NewDismissalPattern(a *Alert, at time.Time) DismissalPattern {
	return DismissalPattern{
		ProjectID:   a.ProjectID,
		AlertType:   a.Type,
		EntityKey:   a.EntityKey(),
		ExcerptHash: ShortHash(a.Excerpt),
		RecordedAt:  at,
	}
}

// Signature returns the match key: type, entity set and excerpt hash
// must all agree for a candidate to be suppressed.
func (p DismissalPattern) Signature() string {
	return p.AlertType + "|" + p.EntityKey + "|" + p.ExcerptHash
}

// AlertFilter selects alerts for listing. Zero-value fields match
// everything.
type AlertFilter struct {
	Statuses   []AlertStatus
	Severities []AlertSeverity
	Types      []string
	Chapters   []int
	OpenOnly   bool
}

// Matches reports whether the alert satisfies every set criterion.
func (f AlertFilter) Matches(a *Alert) bool {
	if f.OpenOnly && !a.Status.IsOpen() {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, a.Status) {
		return false
	}
	if len(f.Severities) > 0 && !containsSeverity(f.Severities, a.Severity) {
		return false
	}
	if len(f.Types) > 0 && !containsString(f.Types, a.Type) {
		return false
	}
	if len(f.Chapters) > 0 && !containsInt(f.Chapters, a.Chapter) {
		return false
	}
	return true
}

func containsStatus(list []AlertStatus, s AlertStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsSeverity(list []AlertSeverity, s AlertSeverity) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
