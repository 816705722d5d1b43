package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/manuscript"
)

var (
	watchProject  string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [manuscript-file]",
	Short: "Watch a manuscript and reanalyze on save",
	Long: `Watches the manuscript file and runs an incremental analysis each time
it is saved. Only changed chapters are reanalyzed, so a save usually
finishes in well under a second. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchProject, "project", "p", "default", "project identifier")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "settle time after a save")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("manuscript file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors commonly save via a
	// rename, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (project %s). Ctrl-C to stop.\n", path, watchProject)

	// Analyze once immediately so the baseline version exists.
	if err := watchAnalyze(ctx, cmd, path); err != nil {
		return err
	}

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopped.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Debounce: editors fire several events per save.
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerCh = timer.C
			} else {
				timer.Reset(watchDebounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			if err := watchAnalyze(ctx, cmd, path); err != nil {
				cmd.Printf("analysis failed: %v\n", err)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.Printf("watch error: %v\n", watchErr)
		}
	}
}

func watchAnalyze(ctx context.Context, cmd *cobra.Command, path string) error {
	ms, err := manuscript.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing manuscript: %w", err)
	}

	result, err := analysisService.Run(ctx, watchProject, ms, domain.ModeIncremental)
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			// A previous save is still being analyzed; this one will
			// be picked up by the next event.
			return nil
		}
		return err
	}

	if len(result.AnalyzedChapters) == 0 {
		cmd.Printf("[%s] v%d: no chapter changes\n", time.Now().Format("15:04:05"), result.Version)
		return nil
	}
	cmd.Printf("[%s] v%d: %d chapters analyzed, %d new alerts, %d reopened, %d obsoleted\n",
		time.Now().Format("15:04:05"), result.Version, len(result.AnalyzedChapters),
		result.AlertsCreated, result.AlertsReopened, result.AlertsObsoleted)
	return nil
}
