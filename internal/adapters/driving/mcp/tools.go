package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/manuscript"
)

// ListAlertsInput is the input schema for the list_alerts tool.
type ListAlertsInput struct {
	Project  string   `json:"project,omitempty" jsonschema:"project identifier (default 'default')"`
	Statuses []string `json:"statuses,omitempty" jsonschema:"only alerts in these lifecycle statuses"`
	Chapters []int    `json:"chapters,omitempty" jsonschema:"only alerts in these chapters"`
	OpenOnly bool     `json:"open_only,omitempty" jsonschema:"only alerts needing attention"`
}

// AlertOutput represents a single alert.
type AlertOutput struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Status     string  `json:"status"`
	Severity   string  `json:"severity"`
	Confidence float64 `json:"confidence"`
	Chapter    int     `json:"chapter"`
	Title      string  `json:"title"`
	Excerpt    string  `json:"excerpt,omitempty"`
}

// ListAlertsOutput is the output schema for the list_alerts tool.
type ListAlertsOutput struct {
	Alerts []AlertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// AlertHistoryInput is the input schema for the alert_history tool.
type AlertHistoryInput struct {
	AlertID string `json:"alert_id" jsonschema:"the alert whose audit trail to fetch"`
}

// HistoryEntryOutput represents one state change.
type HistoryEntryOutput struct {
	From   string `json:"from"`
	To     string `json:"to"`
	At     string `json:"at"`
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
	Note   string `json:"note,omitempty"`
}

// AlertHistoryOutput is the output schema for the alert_history tool.
type AlertHistoryOutput struct {
	AlertID string               `json:"alert_id"`
	Entries []HistoryEntryOutput `json:"entries"`
}

// UpdateAlertInput is the input schema for the update_alert tool.
type UpdateAlertInput struct {
	AlertID string `json:"alert_id" jsonschema:"the alert to update"`
	Action  string `json:"action" jsonschema:"one of open, acknowledge, start, resolve, verify, dismiss, reopen, undismiss"`
	Note    string `json:"note,omitempty" jsonschema:"free-text note for resolve, dismiss or reopen"`
}

// UpdateAlertOutput is the output schema for the update_alert tool.
type UpdateAlertOutput struct {
	AlertID string `json:"alert_id"`
	Status  string `json:"status"`
}

// RunAnalysisInput is the input schema for the run_analysis tool.
type RunAnalysisInput struct {
	Project        string `json:"project,omitempty" jsonschema:"project identifier (default 'default')"`
	ManuscriptPath string `json:"manuscript_path" jsonschema:"path to the manuscript file to import and analyze"`
	Mode           string `json:"mode,omitempty" jsonschema:"incremental (default), full_keep_decisions or full_reset"`
}

// RunAnalysisOutput is the output schema for the run_analysis tool.
type RunAnalysisOutput struct {
	Version          int `json:"version"`
	ChaptersAnalyzed int `json:"chapters_analyzed"`
	ChaptersCarried  int `json:"chapters_carried"`
	AlertsCreated    int `json:"alerts_created"`
	AlertsReopened   int `json:"alerts_reopened"`
	AlertsObsoleted  int `json:"alerts_obsoleted"`
	Suppressed       int `json:"suppressed"`
	FailedChapters   int `json:"failed_chapters"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_alerts",
		Description: "List analysis alerts for the manuscript",
	}, s.handleListAlerts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "alert_history",
		Description: "Show an alert's full audit trail",
	}, s.handleAlertHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_alert",
		Description: "Move an alert through its lifecycle",
	}, s.handleUpdateAlert)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "run_analysis",
		Description: "Import a manuscript revision and analyze it",
	}, s.handleRunAnalysis)
}

// handleListAlerts handles the list_alerts tool invocation.
func (s *Server) handleListAlerts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListAlertsInput,
) (*mcp.CallToolResult, ListAlertsOutput, error) {
	project := input.Project
	if project == "" {
		project = "default"
	}

	filter := domain.AlertFilter{
		Chapters: input.Chapters,
		OpenOnly: input.OpenOnly,
	}
	for _, raw := range input.Statuses {
		status, err := domain.ParseAlertStatus(raw)
		if err != nil {
			return nil, ListAlertsOutput{}, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	alerts, err := s.ports.Alerts.List(ctx, project, filter)
	if err != nil {
		return nil, ListAlertsOutput{}, err
	}

	output := ListAlertsOutput{
		Alerts: make([]AlertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i := range alerts {
		output.Alerts[i] = AlertOutput{
			ID:         alerts[i].ID,
			Type:       alerts[i].Type,
			Status:     string(alerts[i].Status),
			Severity:   string(alerts[i].Severity),
			Confidence: alerts[i].Confidence,
			Chapter:    alerts[i].Chapter,
			Title:      alerts[i].Title,
			Excerpt:    alerts[i].Excerpt,
		}
	}

	return nil, output, nil
}

// handleAlertHistory handles the alert_history tool invocation.
func (s *Server) handleAlertHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AlertHistoryInput,
) (*mcp.CallToolResult, AlertHistoryOutput, error) {
	changes, err := s.ports.Alerts.History(ctx, input.AlertID)
	if err != nil {
		return nil, AlertHistoryOutput{}, err
	}

	output := AlertHistoryOutput{
		AlertID: input.AlertID,
		Entries: make([]HistoryEntryOutput, len(changes)),
	}
	for i, c := range changes {
		output.Entries[i] = HistoryEntryOutput{
			From:   string(c.From),
			To:     string(c.To),
			At:     c.At.Format("2006-01-02 15:04:05"),
			Actor:  string(c.Actor),
			Reason: c.Reason,
			Note:   c.Note,
		}
	}

	return nil, output, nil
}

// handleUpdateAlert handles the update_alert tool invocation.
func (s *Server) handleUpdateAlert(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateAlertInput,
) (*mcp.CallToolResult, UpdateAlertOutput, error) {
	var err error
	switch input.Action {
	case "open":
		err = s.ports.Alerts.Open(ctx, input.AlertID)
	case "acknowledge", "ack":
		err = s.ports.Alerts.Acknowledge(ctx, input.AlertID)
	case "start":
		err = s.ports.Alerts.Start(ctx, input.AlertID)
	case "resolve":
		err = s.ports.Alerts.Resolve(ctx, input.AlertID, input.Note)
	case "verify":
		err = s.ports.Alerts.Verify(ctx, input.AlertID)
	case "dismiss":
		err = s.ports.Alerts.Dismiss(ctx, input.AlertID, input.Note)
	case "reopen":
		err = s.ports.Alerts.Reopen(ctx, input.AlertID, input.Note)
	case "undismiss":
		err = s.ports.Alerts.Undismiss(ctx, input.AlertID)
	default:
		return nil, UpdateAlertOutput{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, input.Action)
	}
	if err != nil {
		return nil, UpdateAlertOutput{}, err
	}

	alert, err := s.ports.Alerts.Get(ctx, input.AlertID)
	if err != nil {
		return nil, UpdateAlertOutput{}, err
	}

	return nil, UpdateAlertOutput{
		AlertID: alert.ID,
		Status:  string(alert.Status),
	}, nil
}

// handleRunAnalysis handles the run_analysis tool invocation.
func (s *Server) handleRunAnalysis(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunAnalysisInput,
) (*mcp.CallToolResult, RunAnalysisOutput, error) {
	if s.ports.Analysis == nil {
		return nil, RunAnalysisOutput{}, errors.New("analysis service not configured")
	}

	project := input.Project
	if project == "" {
		project = "default"
	}

	mode, err := domain.ParseAnalysisMode(input.Mode)
	if err != nil {
		return nil, RunAnalysisOutput{}, err
	}

	ms, err := manuscript.ParseFile(input.ManuscriptPath)
	if err != nil {
		return nil, RunAnalysisOutput{}, fmt.Errorf("parsing manuscript: %w", err)
	}

	result, err := s.ports.Analysis.Run(ctx, project, ms, mode)
	if err != nil {
		return nil, RunAnalysisOutput{}, err
	}

	return nil, RunAnalysisOutput{
		Version:          result.Version,
		ChaptersAnalyzed: len(result.AnalyzedChapters),
		ChaptersCarried:  len(result.CarriedChapters),
		AlertsCreated:    result.AlertsCreated,
		AlertsReopened:   result.AlertsReopened,
		AlertsObsoleted:  result.AlertsObsoleted,
		Suppressed:       result.Suppressed,
		FailedChapters:   len(result.FailedChapters),
	}, nil
}
