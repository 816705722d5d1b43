package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell-cli/internal/manuscript"
)

var (
	analyzeProject string
	analyzeMode    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [manuscript-file]",
	Short: "Import a manuscript revision and analyze it",
	Long: `Imports the manuscript file as a new version and runs analysis.

By default only chapters that changed since the previous version are
reanalyzed; alerts in untouched chapters are carried over unchanged.
Use --mode to force a full run:

  incremental          analyze changed chapters only (default)
  full_keep_decisions  reanalyze everything, keep user decisions
  full_reset           reanalyze everything, obsolete prior alerts`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeProject, "project", "p", "default", "project identifier")
	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", "incremental", "analysis mode")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	mode, err := domain.ParseAnalysisMode(analyzeMode)
	if err != nil {
		return err
	}

	ms, err := manuscript.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parsing manuscript: %w", err)
	}

	cmd.Printf("Analyzing %s (%d chapters, mode %s)...\n", args[0], len(ms.Chapters), mode)

	result, err := analyzeWithProgress(cmd.Context(), cmd, analysisService, analyzeProject, ms, mode)
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			return fmt.Errorf("a run is already active for project %s", analyzeProject)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	printAnalysisResult(cmd, result)
	return nil
}

// analyzeWithProgress runs the analysis while displaying progress updates.
func analyzeWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	orch driving.AnalysisOrchestrator,
	projectID string,
	ms domain.Manuscript,
	mode domain.AnalysisMode,
) (*domain.AnalysisResult, error) {
	type outcome struct {
		result *domain.AnalysisResult
		err    error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		result, err := orch.Run(ctx, projectID, ms, mode)
		resultCh <- outcome{result, err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastDone := -1
	for {
		select {
		case out := <-resultCh:
			return out.result, out.err
		case <-ticker.C:
			// Check progress (ignore status error - best effort)
			status, statusErr := orch.Status(ctx, projectID)
			if statusErr == nil && status != nil && status.Running && status.ChaptersCompleted > lastDone {
				cmd.Printf("\rAnalyzing... chapter %d/%d", status.ChaptersCompleted, status.ChaptersTotal)
				lastDone = status.ChaptersCompleted
			}
		}
	}
}

func printAnalysisResult(cmd *cobra.Command, result *domain.AnalysisResult) {
	cmd.Printf("\rVersion %d analyzed in %s\n", result.Version, result.EndedAt.Sub(result.StartedAt).Round(time.Millisecond))
	cmd.Printf("  Chapters analyzed: %d (carried: %d)\n", len(result.AnalyzedChapters), len(result.CarriedChapters))
	cmd.Printf("  Alerts: %d new, %d carried, %d reopened, %d obsoleted, %d suppressed\n",
		result.AlertsCreated, result.AlertsCarried, result.AlertsReopened,
		result.AlertsObsoleted, result.Suppressed)

	if rel := result.Relocations; rel.Total() > 0 {
		cmd.Printf("  Anchors relocated: %d exact, %d structural, %d context, %d fuzzy, %d orphaned\n",
			rel.Exact, rel.Structural, rel.Context, rel.Fuzzy, rel.NotFound)
	}
	for _, failure := range result.FailedChapters {
		cmd.Printf("  Chapter %d failed: %s\n", failure.Chapter, failure.Err)
	}
}
