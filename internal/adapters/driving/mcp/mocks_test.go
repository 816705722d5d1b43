package mcp

import (
	"context"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
)

// mockAlertService is a mock implementation of driving.AlertService.
type mockAlertService struct {
	alerts  []domain.Alert
	alert   *domain.Alert
	history []domain.AlertStateChange
	actions []string
	err     error
}

func (m *mockAlertService) List(_ context.Context, _ string, _ domain.AlertFilter) ([]domain.Alert, error) {
	return m.alerts, m.err
}

func (m *mockAlertService) Get(_ context.Context, _ string) (*domain.Alert, error) {
	return m.alert, m.err
}

func (m *mockAlertService) History(_ context.Context, _ string) ([]domain.AlertStateChange, error) {
	return m.history, m.err
}

func (m *mockAlertService) record(action string) error {
	m.actions = append(m.actions, action)
	return m.err
}

func (m *mockAlertService) Open(_ context.Context, _ string) error        { return m.record("open") }
func (m *mockAlertService) Acknowledge(_ context.Context, _ string) error { return m.record("ack") }
func (m *mockAlertService) Start(_ context.Context, _ string) error       { return m.record("start") }
func (m *mockAlertService) Verify(_ context.Context, _ string) error      { return m.record("verify") }
func (m *mockAlertService) Undismiss(_ context.Context, _ string) error {
	return m.record("undismiss")
}

func (m *mockAlertService) Resolve(_ context.Context, _, _ string) error {
	return m.record("resolve")
}

func (m *mockAlertService) Dismiss(_ context.Context, _, _ string) error {
	return m.record("dismiss")
}

func (m *mockAlertService) Reopen(_ context.Context, _, _ string) error {
	return m.record("reopen")
}

// mockAnalysisOrchestrator is a mock implementation of driving.AnalysisOrchestrator.
type mockAnalysisOrchestrator struct {
	result *domain.AnalysisResult
	status *driving.RunStatus
	err    error
}

func (m *mockAnalysisOrchestrator) Run(
	_ context.Context,
	_ string,
	_ domain.Manuscript,
	_ domain.AnalysisMode,
) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

func (m *mockAnalysisOrchestrator) Status(_ context.Context, _ string) (*driving.RunStatus, error) {
	return m.status, m.err
}

// mockVersionService is a mock implementation of driving.VersionService.
type mockVersionService struct {
	versions []domain.DocumentVersion
	latest   *domain.DocumentVersion
	err      error
}

func (m *mockVersionService) List(_ context.Context, _ string) ([]domain.DocumentVersion, error) {
	return m.versions, m.err
}

func (m *mockVersionService) Latest(_ context.Context, _ string) (*domain.DocumentVersion, error) {
	return m.latest, m.err
}
