package tui

import (
	"context"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

type mockAlertService struct {
	alerts  []domain.Alert
	alert   *domain.Alert
	history []domain.AlertStateChange
	err     error

	actions []string
}

func (m *mockAlertService) record(action string) {
	m.actions = append(m.actions, action)
}

func (m *mockAlertService) List(_ context.Context, _ string, filter domain.AlertFilter) ([]domain.Alert, error) {
	if m.err != nil {
		return nil, m.err
	}
	//nolint:prealloc // depends on filter
	var out []domain.Alert
	for i := range m.alerts {
		if filter.Matches(&m.alerts[i]) {
			out = append(out, m.alerts[i])
		}
	}
	return out, nil
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

func (m *mockAlertService) Open(_ context.Context, _ string) error {
	m.record("open")
	return m.err
}

func (m *mockAlertService) Acknowledge(_ context.Context, _ string) error {
	m.record("acknowledge")
	return m.err
}

func (m *mockAlertService) Start(_ context.Context, _ string) error {
	m.record("start")
	return m.err
}

func (m *mockAlertService) Resolve(_ context.Context, _, _ string) error {
	m.record("resolve")
	return m.err
}

func (m *mockAlertService) Verify(_ context.Context, _ string) error {
	m.record("verify")
	return m.err
}

func (m *mockAlertService) Dismiss(_ context.Context, _, _ string) error {
	m.record("dismiss")
	return m.err
}

func (m *mockAlertService) Reopen(_ context.Context, _, _ string) error {
	m.record("reopen")
	return m.err
}

func (m *mockAlertService) Undismiss(_ context.Context, _ string) error {
	m.record("undismiss")
	return m.err
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
