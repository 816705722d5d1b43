package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell-cli/internal/logger"
)

// Ensure AnalysisOrchestrator implements the interface.
var _ driving.AnalysisOrchestrator = (*AnalysisOrchestrator)(nil)

// AnalysisOrchestrator coordinates one analysis run: version creation,
// per-chapter analyzer dispatch, anchor relocation, alert merging and
// per-chapter commits. Runs are serialized per project; chapters within
// a run are analyzed concurrently and merged sequentially so the final
// result reflects one consistent version snapshot.
type AnalysisOrchestrator struct {
	versions   *VersionTracker
	resolver   *AnchorResolver
	lifecycle  *LifecycleManager
	alertStore driven.AlertStore
	anchors    driven.AnchorStore
	dismissals driven.DismissalStore
	analyzer   driven.AnalyzerRunner
	sink       driven.ProgressSink
	policy     domain.ThresholdPolicy
	now        func() time.Time

	// Run status tracking
	mu         sync.RWMutex
	activeRuns map[string]*driving.RunStatus
}

// NewAnalysisOrchestrator creates a new orchestrator. The sink is
// optional; without it runs emit no progress events.
func NewAnalysisOrchestrator(
	versions *VersionTracker,
	resolver *AnchorResolver,
	lifecycle *LifecycleManager,
	alertStore driven.AlertStore,
	anchors driven.AnchorStore,
	dismissals driven.DismissalStore,
	analyzer driven.AnalyzerRunner,
	sink driven.ProgressSink,
	policy domain.ThresholdPolicy,
) *AnalysisOrchestrator {
	return &AnalysisOrchestrator{
		versions:   versions,
		resolver:   resolver,
		lifecycle:  lifecycle,
		alertStore: alertStore,
		anchors:    anchors,
		dismissals: dismissals,
		analyzer:   analyzer,
		sink:       sink,
		policy:     policy,
		now:        time.Now,
		activeRuns: make(map[string]*driving.RunStatus),
	}
}

// chapterOutcome is one chapter's analyzer result.
type chapterOutcome struct {
	chapter  int
	findings []domain.CandidateFinding
	err      error
}

// Run imports the manuscript as a new version and analyzes it.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *AnalysisOrchestrator) Run(ctx context.Context, projectID string, m domain.Manuscript, mode domain.AnalysisMode) (*domain.AnalysisResult, error) {
	if mode == "" {
		mode = domain.ModeIncremental
	}

	if err := o.acquire(projectID); err != nil {
		return nil, err
	}
	defer o.release(projectID)

	defer logger.Timed("Analysis")()
	logger.Info("run started: project=%s mode=%s", projectID, mode)

	// 1. Build the new version (not yet visible to readers).
	version, err := o.versions.Build(ctx, projectID, m)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		ProjectID: projectID,
		Version:   version.Number,
		Mode:      mode,
		StartedAt: o.now(),
	}

	// 2. Decide which chapters need analysis.
	analyze, carried := o.planChapters(version, &m, mode)
	result.AnalyzedChapters = analyze
	result.CarriedChapters = carried
	o.setTotal(projectID, len(analyze))

	// 3. Dismissal patterns are honoured in every mode: a dismissal is
	// a user decision, not analysis history, so even full_reset must
	// not resurrect a rejected finding.
	patterns, err := o.dismissals.GetPatterns(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get dismissal patterns: %w", err)
	}

	// 4. Dispatch chapter analyses concurrently and wait for all of
	// them, so the merge sees a complete snapshot.
	outcomes := o.dispatch(ctx, projectID, &m, mode, analyze)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	// 5. All participating chapters have reported: finalize the
	// version row. A concurrent import for the same project surfaces
	// here as a version conflict and aborts the run.
	if err := o.versions.Commit(ctx, version); err != nil {
		return nil, err
	}

	// 6. Full reset discards prior analysis state before merging.
	// Dismissed alerts keep their status; their patterns still filter.
	if mode == domain.ModeFullReset {
		reset, err := o.resetExistingAlerts(ctx, projectID)
		if err != nil {
			return nil, err
		}
		result.AlertsObsoleted += reset
	}

	// 7. Deleted chapters are their own commit unit: all their alerts
	// become obsolete.
	if mode != domain.ModeFullReset && len(version.DeletedChapters) > 0 {
		obsoleted, err := o.lifecycle.MarkObsolete(ctx, projectID, version.DeletedChapters, ReasonChapterDeleted)
		if err != nil {
			return nil, fmt.Errorf("obsolete deleted chapters: %w", err)
		}
		result.AlertsObsoleted += obsoleted
	}

	// 8. Merge chapter by chapter. Each iteration is one commit unit;
	// cancellation is honoured only at chapter boundaries so committed
	// chapters stay intact.
	for _, outcome := range outcomes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled: %w", err)
		}
		if err := o.mergeChapter(ctx, version, &m, mode, outcome, patterns, result); err != nil {
			return nil, err
		}
		o.chapterDone(projectID, result)
	}

	// 9. Alerts in untouched chapters carry forward unmodified.
	if len(carried) > 0 {
		carriedAlerts, err := o.alertStore.GetAlertsForChapters(ctx, projectID, carried)
		if err != nil {
			return nil, fmt.Errorf("count carried alerts: %w", err)
		}
		result.AlertsCarried = len(carriedAlerts)
	}

	result.EndedAt = o.now()
	logger.Info("run finished: version=%d created=%d obsoleted=%d reopened=%d suppressed=%d failed=%d",
		result.Version, result.AlertsCreated, result.AlertsObsoleted,
		result.AlertsReopened, result.Suppressed, len(result.FailedChapters))
	return result, nil
}

// Status returns run progress for a project.
func (o *AnalysisOrchestrator) Status(_ context.Context, projectID string) (*driving.RunStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeRuns[projectID]; ok {
		// Return a copy to avoid race conditions
		copied := *status
		return &copied, nil
	}
	return &driving.RunStatus{ProjectID: projectID, Running: false}, nil
}

// planChapters decides which chapters are dispatched to analyzers and
// which carry their alerts forward untouched.
func (o *AnalysisOrchestrator) planChapters(version *domain.DocumentVersion, m *domain.Manuscript, mode domain.AnalysisMode) (analyze, carried []int) {
	if mode == domain.ModeFullReset || mode == domain.ModeFullKeepDecisions || version.IsInitial() {
		for i := range m.Chapters {
			analyze = append(analyze, m.Chapters[i].Number)
		}
		return analyze, nil
	}

	changed := make(map[int]bool, len(version.ModifiedChapters)+len(version.AddedChapters))
	for _, n := range version.ModifiedChapters {
		changed[n] = true
	}
	for _, n := range version.AddedChapters {
		changed[n] = true
	}

	for i := range m.Chapters {
		n := m.Chapters[i].Number
		if changed[n] {
			analyze = append(analyze, n)
		} else {
			carried = append(carried, n)
		}
	}
	return analyze, carried
}

// dispatch fans chapter analyses out to the analyzer runner and waits
// for every chapter to report. Outcomes keep the dispatch order so the
// merge is deterministic.
func (o *AnalysisOrchestrator) dispatch(ctx context.Context, projectID string, m *domain.Manuscript, mode domain.AnalysisMode, chapters []int) []chapterOutcome {
	outcomes := make([]chapterOutcome, len(chapters))

	var wg sync.WaitGroup
	for i, number := range chapters {
		wg.Add(1)
		go func(i, number int) {
			defer wg.Done()
			ch := m.Chapter(number)
			input := driven.ChapterInput{
				ProjectID: projectID,
				Chapter:   number,
				Text:      ch.Text(),
			}
			// full_reset ignores prior analysis state, entity
			// references included.
			if mode != domain.ModeFullReset {
				input.EntityContext = o.knownEntities(ctx, projectID, number)
			}
			findings, err := o.analyzer.AnalyzeChapter(ctx, input)
			outcomes[i] = chapterOutcome{chapter: number, findings: findings, err: err}
		}(i, number)
	}
	wg.Wait()

	return outcomes
}

// knownEntities collects the entity ids referenced by the chapter's
// existing alerts, sorted for determinism. A store failure here only
// costs the analyzers their context, never the chapter.
func (o *AnalysisOrchestrator) knownEntities(ctx context.Context, projectID string, chapter int) []int64 {
	existing, err := o.alertStore.GetAlertsForChapters(ctx, projectID, []int{chapter})
	if err != nil {
		logger.Warn("chapter %d: entity context unavailable: %v", chapter, err)
		return nil
	}

	seen := make(map[int64]struct{})
	//nolint:prealloc // size unknown until deduplicated
	var ids []int64
	for i := range existing {
		for _, id := range existing[i].EntityIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

// mergeChapter is one commit unit: relocate and reconcile the
// chapter's existing alerts, then insert the surviving new findings.
//
//nolint:gocognit // Merge step coordinating relocation, reconciliation and insertion
func (o *AnalysisOrchestrator) mergeChapter(
	ctx context.Context,
	version *domain.DocumentVersion,
	m *domain.Manuscript,
	mode domain.AnalysisMode,
	outcome chapterOutcome,
	patterns []domain.DismissalPattern,
	result *domain.AnalysisResult,
) error {
	event := domain.ChapterEvent{
		ProjectID: version.ProjectID,
		Version:   version.Number,
		Chapter:   outcome.chapter,
	}

	// Analyzer failure: record it, leave the chapter's existing alerts
	// untouched, keep the run going.
	if outcome.err != nil {
		logger.Warn("chapter %d analyzer failed: %v", outcome.chapter, outcome.err)
		result.FailedChapters = append(result.FailedChapters, domain.ChapterFailure{
			Chapter: outcome.chapter,
			Err:     outcome.err.Error(),
		})
		event.Failed = true
		o.emit(event)
		return nil
	}

	var existing []domain.Alert
	if mode != domain.ModeFullReset {
		var err error
		existing, err = o.alertStore.GetAlertsForChapters(ctx, version.ProjectID, []int{outcome.chapter})
		if err != nil {
			return fmt.Errorf("get alerts for chapter %d: %w", outcome.chapter, err)
		}

		// Anchors in a modified chapter may have shifted: relocate and
		// reconcile before considering new findings. Added chapters
		// have no prior alerts; unchanged chapters never reach here.
		if version.ChapterChanged(outcome.chapter) && !version.IsInitial() {
			if err := o.reconcileChapter(ctx, version, m, existing, result); err != nil {
				return err
			}
		}
	}

	created, suppressed, err := o.insertFindings(ctx, version, m, outcome, existing, patterns, result)
	if err != nil {
		return err
	}

	event.AlertsCreated = created
	event.Suppressed = suppressed
	o.emit(event)
	return nil
}

// reconcileChapter relocates each alert's anchors against the new text
// and applies the reconciliation rules.
func (o *AnalysisOrchestrator) reconcileChapter(
	ctx context.Context,
	version *domain.DocumentVersion,
	m *domain.Manuscript,
	alerts []domain.Alert,
	result *domain.AnalysisResult,
) error {
	for i := range alerts {
		alert := &alerts[i]
		if alert.Status.IsTerminal() || alert.Status == domain.StatusDismissed {
			continue
		}

		for _, anchorID := range alert.AnchorIDs {
			anchor, err := o.anchors.GetAnchor(ctx, anchorID)
			if err != nil {
				return fmt.Errorf("get anchor %s: %w", anchorID, err)
			}
			// Idempotence: an anchor already relocated under this
			// version is left alone, so re-running a version adds no
			// history rows.
			if anchor.RelocatedVersion == version.Number && !anchor.Orphaned() {
				continue
			}

			relocation := o.resolver.Relocate(anchor, m)
			result.Relocations.Record(relocation.Method)
			o.resolver.Apply(anchor, relocation, version.Number)
			if err := o.anchors.SaveAnchor(ctx, anchor); err != nil {
				return fmt.Errorf("save anchor %s: %w", anchorID, err)
			}

			before := alert.Status
			liveText := o.resolver.TextAt(relocation, m)
			deleted := version.ChapterDeleted(anchor.Chapter)
			if err := o.lifecycle.ReconcileAgainstNewText(ctx, alert, anchor, relocation, liveText, deleted); err != nil {
				return fmt.Errorf("reconcile alert %s: %w", alert.ID, err)
			}
			switch {
			case before != alert.Status && alert.Status == domain.StatusReopened:
				result.AlertsReopened++
			case before != alert.Status && alert.Status == domain.StatusObsolete:
				result.AlertsObsoleted++
			}
		}
	}
	return nil
}

// insertFindings filters candidates through the threshold policy,
// dismissal patterns and existing-alert deduplication, then anchors
// and inserts the remainder as NEW alerts.
func (o *AnalysisOrchestrator) insertFindings(
	ctx context.Context,
	version *domain.DocumentVersion,
	m *domain.Manuscript,
	outcome chapterOutcome,
	existing []domain.Alert,
	patterns []domain.DismissalPattern,
	result *domain.AnalysisResult,
) (created, suppressed int, err error) {
	ch := m.Chapter(outcome.chapter)

	// Signatures of alerts that already exist for this chapter: a
	// candidate matching one carries the prior decision instead of
	// becoming a duplicate.
	existingSignatures := make(map[string]bool, len(existing))
	for i := range existing {
		if existing[i].Status == domain.StatusObsolete {
			continue
		}
		existingSignatures[domain.NewDismissalPattern(&existing[i], o.now()).Signature()] = true
	}

	for _, finding := range outcome.findings {
		if !o.policy.Keep(finding.Confidence) {
			continue
		}
		if o.lifecycle.MatchesDismissedPattern(finding, patterns) {
			suppressed++
			result.Suppressed++
			continue
		}
		if existingSignatures[candidateSignature(finding)] {
			result.AlertsCarried++
			continue
		}

		anchor, err := o.resolver.CreateAnchor(version.ProjectID, version.Number, ch, finding.StartChar, finding.EndChar)
		if err != nil {
			logger.Warn("chapter %d: skipping finding with bad span: %v", outcome.chapter, err)
			continue
		}
		if err := o.anchors.SaveAnchor(ctx, anchor); err != nil {
			return created, suppressed, fmt.Errorf("save anchor: %w", err)
		}

		severity := finding.Severity
		if severity == "" {
			severity = o.policy.SeverityFor(finding.Confidence)
		}
		alert := &domain.Alert{
			ID:              uuid.New().String(),
			ProjectID:       version.ProjectID,
			Type:            finding.Type,
			Category:        finding.Category,
			Severity:        severity,
			Confidence:      finding.Confidence,
			Title:           finding.Title,
			Description:     finding.Description,
			Excerpt:         finding.Excerpt,
			Chapter:         outcome.chapter,
			AnchorIDs:       []string{anchor.ID},
			EntityIDs:       finding.EntityIDs,
			SourceModule:    finding.SourceModule,
			Status:          domain.StatusNew,
			DetectedVersion: version.Number,
			CreatedAt:       o.now(),
		}
		if err := o.alertStore.SaveAlert(ctx, alert); err != nil {
			return created, suppressed, fmt.Errorf("save alert: %w", err)
		}
		created++
		result.AlertsCreated++
	}

	return created, suppressed, nil
}

// resetExistingAlerts obsoletes every non-terminal, non-dismissed
// alert of the project. Used by full_reset before fresh insertion.
func (o *AnalysisOrchestrator) resetExistingAlerts(ctx context.Context, projectID string) (int, error) {
	alerts, err := o.alertStore.GetAlertsForChapters(ctx, projectID, nil)
	if err != nil {
		return 0, fmt.Errorf("get project alerts: %w", err)
	}

	count := 0
	for i := range alerts {
		alert := &alerts[i]
		if !domain.CanTransition(alert.Status, domain.StatusObsolete) {
			continue
		}
		if err := o.lifecycle.Transition(ctx, alert, domain.StatusObsolete, domain.ActorSystem, ReasonAnalysisReset, ""); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// acquire reserves the project's run slot.
func (o *AnalysisOrchestrator) acquire(projectID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if status, ok := o.activeRuns[projectID]; ok && status.Running {
		return fmt.Errorf("project %s: %w", projectID, domain.ErrRunInProgress)
	}
	o.activeRuns[projectID] = &driving.RunStatus{ProjectID: projectID, Running: true}
	return nil
}

// release frees the project's run slot.
func (o *AnalysisOrchestrator) release(projectID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeRuns, projectID)
}

func (o *AnalysisOrchestrator) setTotal(projectID string, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if status, ok := o.activeRuns[projectID]; ok {
		status.ChaptersTotal = total
	}
}

func (o *AnalysisOrchestrator) chapterDone(projectID string, result *domain.AnalysisResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if status, ok := o.activeRuns[projectID]; ok {
		status.ChaptersCompleted++
		status.AlertsCreated = result.AlertsCreated
		status.ErrorCount = len(result.FailedChapters)
	}
}

func (o *AnalysisOrchestrator) emit(event domain.ChapterEvent) {
	if o.sink != nil {
		o.sink.ChapterCompleted(event)
	}
}
