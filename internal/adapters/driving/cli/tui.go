package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/tui"
)

var tuiProject string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse alerts in an interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		if alertService == nil {
			return fmt.Errorf("alert service not configured")
		}

		ports := tui.Ports{
			Alerts:   alertService,
			Versions: versionService,
		}

		app := tui.NewApp(ports, tuiProject).WithContext(cmd.Context())
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	},
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiProject, "project", "p", "default", "project to browse")
	rootCmd.AddCommand(tuiCmd)
}
