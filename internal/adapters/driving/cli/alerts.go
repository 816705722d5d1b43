package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

var (
	alertsProject  string
	alertsStatus   []string
	alertsSeverity []string
	alertsType     []string
	alertsChapter  []int
	alertsOpenOnly bool
	alertsJSON     bool
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Browse and work alerts",
	Long: `Commands for browsing analysis alerts and moving them through their
lifecycle. Alerts survive manuscript revisions; dismissing one records
its pattern so the same finding is never regenerated.`,
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts",
	RunE:  runAlertsList,
}

var alertsShowCmd = &cobra.Command{
	Use:   "show [alert-id]",
	Short: "Show one alert in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsShow,
}

var alertsHistoryCmd = &cobra.Command{
	Use:   "history [alert-id]",
	Short: "Show an alert's full audit trail",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsHistory,
}

func init() {
	alertsListCmd.Flags().StringSliceVar(&alertsStatus, "status", nil, "filter by status")
	alertsListCmd.Flags().StringSliceVar(&alertsSeverity, "severity", nil, "filter by severity")
	alertsListCmd.Flags().StringSliceVar(&alertsType, "type", nil, "filter by alert type")
	alertsListCmd.Flags().IntSliceVar(&alertsChapter, "chapter", nil, "filter by chapter")
	alertsListCmd.Flags().BoolVar(&alertsOpenOnly, "open", false, "only alerts needing attention")
	alertsListCmd.Flags().BoolVar(&alertsJSON, "json", false, "output as JSON")

	alertsCmd.PersistentFlags().StringVarP(&alertsProject, "project", "p", "default", "project identifier")
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsShowCmd)
	alertsCmd.AddCommand(alertsHistoryCmd)

	for _, action := range alertActions() {
		alertsCmd.AddCommand(action)
	}
	rootCmd.AddCommand(alertsCmd)
}

// alertActions builds one subcommand per user lifecycle action. The
// note-taking actions accept the note as trailing arguments.
func alertActions() []*cobra.Command {
	type action struct {
		use, short string
		withNote   bool
		run        func(ctx context.Context, alertID, note string) error
	}

	actions := []action{
		{"open [alert-id]", "Mark a new alert as seen", false,
			func(ctx context.Context, id, _ string) error { return alertService.Open(ctx, id) }},
		{"ack [alert-id]", "Acknowledge an alert", false,
			func(ctx context.Context, id, _ string) error { return alertService.Acknowledge(ctx, id) }},
		{"start [alert-id]", "Mark an alert as being worked on", false,
			func(ctx context.Context, id, _ string) error { return alertService.Start(ctx, id) }},
		{"resolve [alert-id] [note...]", "Mark an alert's issue as corrected", true,
			func(ctx context.Context, id, note string) error { return alertService.Resolve(ctx, id, note) }},
		{"verify [alert-id]", "Confirm a resolution", false,
			func(ctx context.Context, id, _ string) error { return alertService.Verify(ctx, id) }},
		{"dismiss [alert-id] [note...]", "Reject an alert as a false positive", true,
			func(ctx context.Context, id, note string) error { return alertService.Dismiss(ctx, id, note) }},
		{"reopen [alert-id] [note...]", "Return a resolved alert to the queue", true,
			func(ctx context.Context, id, note string) error { return alertService.Reopen(ctx, id, note) }},
		{"undismiss [alert-id]", "Reopen a dismissed alert and forget its pattern", false,
			func(ctx context.Context, id, _ string) error { return alertService.Undismiss(ctx, id) }},
	}

	cmds := make([]*cobra.Command, 0, len(actions))
	for _, a := range actions {
		a := a
		minArgs := cobra.ExactArgs(1)
		if a.withNote {
			minArgs = cobra.MinimumNArgs(1)
		}
		cmds = append(cmds, &cobra.Command{
			Use:   a.use,
			Short: a.short,
			Args:  minArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if alertService == nil {
					return errors.New("alert service not configured")
				}
				note := strings.Join(args[1:], " ")
				if err := a.run(cmd.Context(), args[0], note); err != nil {
					if errors.Is(err, domain.ErrInvalidTransition) {
						return fmt.Errorf("not allowed from the alert's current status: %w", err)
					}
					return err
				}
				cmd.Printf("Alert %s updated.\n", args[0])
				return nil
			},
		})
	}
	return cmds
}

func runAlertsList(cmd *cobra.Command, _ []string) error {
	if alertService == nil {
		return errors.New("alert service not configured")
	}

	filter, err := buildAlertFilter()
	if err != nil {
		return err
	}

	alerts, err := alertService.List(cmd.Context(), alertsProject, filter)
	if err != nil {
		return fmt.Errorf("listing alerts: %w", err)
	}

	if alertsJSON {
		data, err := json.MarshalIndent(alerts, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding alerts: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(alerts) == 0 {
		cmd.Println("No alerts.")
		return nil
	}

	for i := range alerts {
		a := &alerts[i]
		cmd.Printf("  %s  [%s/%s]  ch%d  %s\n", a.ID, a.Status, a.Severity, a.Chapter, a.Title)
	}
	cmd.Printf("Total: %d alerts\n", len(alerts))
	return nil
}

func buildAlertFilter() (domain.AlertFilter, error) {
	filter := domain.AlertFilter{
		Types:    alertsType,
		Chapters: alertsChapter,
		OpenOnly: alertsOpenOnly,
	}
	for _, s := range alertsStatus {
		status, err := domain.ParseAlertStatus(s)
		if err != nil {
			return domain.AlertFilter{}, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	for _, s := range alertsSeverity {
		filter.Severities = append(filter.Severities, domain.AlertSeverity(strings.ToLower(s)))
	}
	return filter, nil
}

func runAlertsShow(cmd *cobra.Command, args []string) error {
	if alertService == nil {
		return errors.New("alert service not configured")
	}

	alert, err := alertService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting alert: %w", err)
	}

	cmd.Printf("Alert: %s\n\n", alert.ID)
	cmd.Printf("  Title:      %s\n", alert.Title)
	cmd.Printf("  Type:       %s (%s)\n", alert.Type, alert.Category)
	cmd.Printf("  Status:     %s\n", alert.Status)
	cmd.Printf("  Severity:   %s (confidence %.2f)\n", alert.Severity, alert.Confidence)
	cmd.Printf("  Chapter:    %d\n", alert.Chapter)
	cmd.Printf("  Detected:   version %d, %s\n", alert.DetectedVersion, alert.CreatedAt.Format("2006-01-02 15:04:05"))
	if alert.Excerpt != "" {
		cmd.Printf("  Excerpt:    %q\n", alert.Excerpt)
	}
	if alert.Description != "" {
		cmd.Printf("  Detail:     %s\n", alert.Description)
	}
	if alert.ResolutionNote != "" {
		cmd.Printf("  Note:       %s\n", alert.ResolutionNote)
	}
	if alert.ResolvedAt != nil {
		cmd.Printf("  Resolved:   %s\n", alert.ResolvedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runAlertsHistory(cmd *cobra.Command, args []string) error {
	if alertService == nil {
		return errors.New("alert service not configured")
	}

	changes, err := alertService.History(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting history: %w", err)
	}

	if len(changes) == 0 {
		cmd.Println("No history.")
		return nil
	}

	for _, c := range changes {
		line := fmt.Sprintf("  %s  %s -> %s  (%s, %s)",
			c.At.Format("2006-01-02 15:04:05"), c.From, c.To, c.Actor, c.Reason)
		if c.Note != "" {
			line += "  " + c.Note
		}
		cmd.Println(line)
	}
	return nil
}
