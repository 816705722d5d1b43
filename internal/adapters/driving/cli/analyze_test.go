package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

func writeManuscript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "novel.md")
	content := "# Chapter 1\n\nThe rain had not stopped for days.\n\n# Chapter 2\n\nMorning came slowly over the harbour.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func sampleResult() *domain.AnalysisResult {
	started := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return &domain.AnalysisResult{
		ProjectID:        "default",
		Version:          3,
		Mode:             domain.ModeIncremental,
		AnalyzedChapters: []int{2},
		CarriedChapters:  []int{1},
		AlertsCreated:    2,
		AlertsCarried:    5,
		Relocations:      domain.RelocationStats{Exact: 3, Fuzzy: 1},
		StartedAt:        started,
		EndedAt:          started.Add(1200 * time.Millisecond),
	}
}

func TestAnalyze_RunsAndPrintsSummary(t *testing.T) {
	orch := &mockAnalysisOrchestrator{result: sampleResult()}
	withServices(t, Services{Analysis: orch})

	out, err := executeCommand(t, "analyze", writeManuscript(t), "--project", "default")
	require.NoError(t, err)

	assert.Equal(t, "default", orch.lastProject)
	assert.Equal(t, domain.ModeIncremental, orch.lastMode)
	assert.Contains(t, out, "Version 3 analyzed")
	assert.Contains(t, out, "Chapters analyzed: 1 (carried: 1)")
	assert.Contains(t, out, "2 new, 5 carried")
	assert.Contains(t, out, "3 exact")
}

func TestAnalyze_ModeFlag(t *testing.T) {
	orch := &mockAnalysisOrchestrator{result: sampleResult()}
	withServices(t, Services{Analysis: orch})

	_, err := executeCommand(t, "analyze", writeManuscript(t), "--mode", "full_reset")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeFullReset, orch.lastMode)
}

func TestAnalyze_RejectsUnknownMode(t *testing.T) {
	withServices(t, Services{Analysis: &mockAnalysisOrchestrator{}})

	_, err := executeCommand(t, "analyze", writeManuscript(t), "--mode", "sideways")
	require.Error(t, err)
}

func TestAnalyze_RunInProgress(t *testing.T) {
	orch := &mockAnalysisOrchestrator{err: domain.ErrRunInProgress}
	withServices(t, Services{Analysis: orch})

	_, err := executeCommand(t, "analyze", writeManuscript(t), "--mode", "incremental")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already active")
}

func TestAnalyze_ReportsFailedChapters(t *testing.T) {
	result := sampleResult()
	result.FailedChapters = []domain.ChapterFailure{{Chapter: 2, Err: "detector timed out"}}
	withServices(t, Services{Analysis: &mockAnalysisOrchestrator{result: result}})

	out, err := executeCommand(t, "analyze", writeManuscript(t), "--mode", "incremental")
	require.NoError(t, err)
	assert.Contains(t, out, "Chapter 2 failed: detector timed out")
}

func TestAnalyze_NoService(t *testing.T) {
	withServices(t, Services{})

	_, err := executeCommand(t, "analyze", writeManuscript(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis service not configured")
}

func TestAnalyze_MissingFile(t *testing.T) {
	withServices(t, Services{Analysis: &mockAnalysisOrchestrator{result: sampleResult()}})

	_, err := executeCommand(t, "analyze", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
}
