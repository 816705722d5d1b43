package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
)

// withServices installs mock services for one test and restores the
// previous ones on cleanup.
func withServices(t *testing.T, s Services) {
	t.Helper()
	prevAnalysis := analysisService
	prevAlerts := alertService
	prevVersions := versionService
	prevConfig := configStore
	SetServices(s)
	t.Cleanup(func() {
		analysisService = prevAnalysis
		alertService = prevAlerts
		versionService = prevVersions
		configStore = prevConfig
	})
}

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

type mockAlertService struct {
	alerts     []domain.Alert
	alert      *domain.Alert
	history    []domain.AlertStateChange
	err        error
	lastFilter domain.AlertFilter
	actions    []string
	notes      []string
}

func (m *mockAlertService) record(action, note string) error {
	m.actions = append(m.actions, action)
	m.notes = append(m.notes, note)
	return m.err
}

func (m *mockAlertService) List(_ context.Context, _ string, filter domain.AlertFilter) ([]domain.Alert, error) {
	m.lastFilter = filter
	return m.alerts, m.err
}

func (m *mockAlertService) Get(_ context.Context, _ string) (*domain.Alert, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.alert, nil
}

func (m *mockAlertService) History(_ context.Context, _ string) ([]domain.AlertStateChange, error) {
	return m.history, m.err
}

func (m *mockAlertService) Open(_ context.Context, _ string) error { return m.record("open", "") }

func (m *mockAlertService) Acknowledge(_ context.Context, _ string) error {
	return m.record("ack", "")
}

func (m *mockAlertService) Start(_ context.Context, _ string) error { return m.record("start", "") }

func (m *mockAlertService) Resolve(_ context.Context, _, note string) error {
	return m.record("resolve", note)
}

func (m *mockAlertService) Verify(_ context.Context, _ string) error { return m.record("verify", "") }

func (m *mockAlertService) Dismiss(_ context.Context, _, note string) error {
	return m.record("dismiss", note)
}

func (m *mockAlertService) Reopen(_ context.Context, _, note string) error {
	return m.record("reopen", note)
}

func (m *mockAlertService) Undismiss(_ context.Context, _ string) error {
	return m.record("undismiss", "")
}

type mockAnalysisOrchestrator struct {
	result      *domain.AnalysisResult
	status      *driving.RunStatus
	err         error
	lastMode    domain.AnalysisMode
	lastProject string
}

func (m *mockAnalysisOrchestrator) Run(_ context.Context, projectID string, _ domain.Manuscript, mode domain.AnalysisMode) (*domain.AnalysisResult, error) {
	m.lastProject = projectID
	m.lastMode = mode
	return m.result, m.err
}

func (m *mockAnalysisOrchestrator) Status(_ context.Context, _ string) (*driving.RunStatus, error) {
	return m.status, nil
}

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
