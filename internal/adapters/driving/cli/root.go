// Package cli implements the command-line interface. Commands talk to
// the core exclusively through the driving ports; services are injected
// once at startup via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell-cli/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

// verbose enables debug logging on stderr.
var verbose bool

// Injected services. Commands check for nil and fail with a clear
// message instead of panicking when a service is missing.
var (
	analysisService driving.AnalysisOrchestrator
	alertService    driving.AlertService
	versionService  driving.VersionService
	configStore     driven.ConfigStore
)

// Services bundles everything the CLI needs from the composition root.
type Services struct {
	Analysis driving.AnalysisOrchestrator
	Alerts   driving.AlertService
	Versions driving.VersionService
	Config   driven.ConfigStore
}

// SetServices injects the core services into the command tree.
func SetServices(s Services) {
	analysisService = s.Analysis
	alertService = s.Alerts
	versionService = s.Versions
	configStore = s.Config
}

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Incremental manuscript analysis with a persistent alert lifecycle",
	Long: `Inkwell tracks manuscript revisions, reanalyzes only what changed and
keeps analysis alerts alive across edits. Alerts carry anchors into the
text that survive rewrites, and every status change is audited.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
