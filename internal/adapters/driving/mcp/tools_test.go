package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

func TestServer_handleListAlerts(t *testing.T) {
	ctx := context.Background()

	t.Run("returns alerts", func(t *testing.T) {
		mockAlerts := &mockAlertService{
			alerts: []domain.Alert{
				{
					ID:         "a1",
					Type:       "timeline_conflict",
					Status:     domain.StatusOpen,
					Severity:   domain.SeverityWarning,
					Confidence: 0.8,
					Chapter:    3,
					Title:      "Timeline conflict",
					Excerpt:    "the next morning",
				},
			},
		}

		server, err := NewServer(&Ports{Alerts: mockAlerts})
		require.NoError(t, err)

		_, output, err := server.handleListAlerts(ctx, nil, ListAlertsInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Alerts, 1)
		assert.Equal(t, "a1", output.Alerts[0].ID)
		assert.Equal(t, "open", output.Alerts[0].Status)
		assert.Equal(t, 3, output.Alerts[0].Chapter)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		server, err := NewServer(&Ports{Alerts: &mockAlertService{}})
		require.NoError(t, err)

		_, _, err = server.handleListAlerts(ctx, nil, ListAlertsInput{Statuses: []string{"bogus"}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("normalizes legacy status names", func(t *testing.T) {
		server, err := NewServer(&Ports{Alerts: &mockAlertService{}})
		require.NoError(t, err)

		_, output, err := server.handleListAlerts(ctx, nil, ListAlertsInput{Statuses: []string{"wont_fix"}})
		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
	})
}

func TestServer_handleAlertHistory(t *testing.T) {
	ctx := context.Background()

	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	mockAlerts := &mockAlertService{
		history: []domain.AlertStateChange{
			{AlertID: "a1", From: domain.StatusNew, To: domain.StatusOpen, At: at, Actor: domain.ActorUser, Reason: "user_action"},
		},
	}

	server, err := NewServer(&Ports{Alerts: mockAlerts})
	require.NoError(t, err)

	_, output, err := server.handleAlertHistory(ctx, nil, AlertHistoryInput{AlertID: "a1"})

	require.NoError(t, err)
	assert.Equal(t, "a1", output.AlertID)
	require.Len(t, output.Entries, 1)
	assert.Equal(t, "new", output.Entries[0].From)
	assert.Equal(t, "open", output.Entries[0].To)
	assert.Equal(t, "2026-03-14 09:30:00", output.Entries[0].At)
}

func TestServer_handleUpdateAlert(t *testing.T) {
	ctx := context.Background()

	t.Run("routes actions to the service", func(t *testing.T) {
		mockAlerts := &mockAlertService{
			alert: &domain.Alert{ID: "a1", Status: domain.StatusResolved},
		}
		server, err := NewServer(&Ports{Alerts: mockAlerts})
		require.NoError(t, err)

		_, output, err := server.handleUpdateAlert(ctx, nil, UpdateAlertInput{
			AlertID: "a1", Action: "resolve", Note: "fixed",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"resolve"}, mockAlerts.actions)
		assert.Equal(t, "resolved", output.Status)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		server, err := NewServer(&Ports{Alerts: &mockAlertService{}})
		require.NoError(t, err)

		_, _, err = server.handleUpdateAlert(ctx, nil, UpdateAlertInput{AlertID: "a1", Action: "explode"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("propagates transition errors", func(t *testing.T) {
		mockAlerts := &mockAlertService{err: domain.ErrInvalidTransition}
		server, err := NewServer(&Ports{Alerts: mockAlerts})
		require.NoError(t, err)

		_, _, err = server.handleUpdateAlert(ctx, nil, UpdateAlertInput{AlertID: "a1", Action: "verify"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestServer_handleRunAnalysis(t *testing.T) {
	ctx := context.Background()

	writeManuscript := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "draft.md")
		content := "# Chapter 1\n\nShe left before dawn.\n\n# Chapter 2\n\nThe harbour was empty.\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}

	t.Run("runs and summarises", func(t *testing.T) {
		mockAnalysis := &mockAnalysisOrchestrator{
			result: &domain.AnalysisResult{
				Version:          2,
				AnalyzedChapters: []int{1},
				CarriedChapters:  []int{2},
				AlertsCreated:    3,
				Suppressed:       1,
			},
		}
		server, err := NewServer(&Ports{Alerts: &mockAlertService{}, Analysis: mockAnalysis})
		require.NoError(t, err)

		_, output, err := server.handleRunAnalysis(ctx, nil, RunAnalysisInput{
			ManuscriptPath: writeManuscript(t),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Version)
		assert.Equal(t, 1, output.ChaptersAnalyzed)
		assert.Equal(t, 1, output.ChaptersCarried)
		assert.Equal(t, 3, output.AlertsCreated)
		assert.Equal(t, 1, output.Suppressed)
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		server, err := NewServer(&Ports{Alerts: &mockAlertService{}, Analysis: &mockAnalysisOrchestrator{}})
		require.NoError(t, err)

		_, _, err = server.handleRunAnalysis(ctx, nil, RunAnalysisInput{
			ManuscriptPath: writeManuscript(t),
			Mode:           "sideways",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("fails without analysis service", func(t *testing.T) {
		server, err := NewServer(&Ports{Alerts: &mockAlertService{}})
		require.NoError(t, err)

		_, _, err = server.handleRunAnalysis(ctx, nil, RunAnalysisInput{ManuscriptPath: "x.md"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})

	t.Run("propagates run errors", func(t *testing.T) {
		mockAnalysis := &mockAnalysisOrchestrator{err: errors.New("analyzer offline")}
		server, err := NewServer(&Ports{Alerts: &mockAlertService{}, Analysis: mockAnalysis})
		require.NoError(t, err)

		_, _, err = server.handleRunAnalysis(ctx, nil, RunAnalysisInput{
			ManuscriptPath: writeManuscript(t),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "analyzer offline")
	})
}
