// Command inkwell is the manuscript analysis engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/inkwell-cli/internal/adapters/driven/analyzer"
	"github.com/custodia-labs/inkwell-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/inkwell-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/inkwell-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/inkwell-cli/internal/core/services"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry := analyzer.NewRegistry(4, 2)
	registry.Register(analyzer.NewRepetitionDetector(analyzer.DefaultRepetitionConfig()))

	versionTracker := services.NewVersionTracker(store.VersionStore())
	resolver := services.NewAnchorResolver()
	lifecycle := services.NewLifecycleManager(store.AlertStore(), store.HistoryStore(), store.DismissalStore())
	orchestrator := services.NewAnalysisOrchestrator(
		versionTracker,
		resolver,
		lifecycle,
		store.AlertStore(),
		store.AnchorStore(),
		store.DismissalStore(),
		registry,
		nil,
		file.ThresholdPolicy(configStore),
	)

	cli.SetServices(cli.Services{
		Analysis: orchestrator,
		Alerts:   services.NewAlertBrowser(store.AlertStore(), store.HistoryStore(), lifecycle),
		Versions: services.NewVersionInspector(store.VersionStore()),
		Config:   configStore,
	})

	return cli.Execute(Version)
}
