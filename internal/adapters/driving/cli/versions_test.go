package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

func TestVersions_ListsChanges(t *testing.T) {
	svc := &mockVersionService{versions: []domain.DocumentVersion{
		{
			ProjectID: "default",
			Number:    1,
			CreatedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			WordCount: 52000,
			ChapterHashes: map[int]string{
				1: "h1", 2: "h2", 3: "h3",
			},
			AddedChapters: []int{1, 2, 3},
		},
		{
			ProjectID: "default",
			Number:    2,
			CreatedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
			WordCount: 52400,
			ChapterHashes: map[int]string{
				1: "h1", 2: "h2b", 3: "h3",
			},
			ModifiedChapters: []int{2},
		},
	}}
	withServices(t, Services{Versions: svc})

	out, err := executeCommand(t, "versions")
	require.NoError(t, err)

	assert.Contains(t, out, "v1")
	assert.Contains(t, out, "initial import")
	assert.Contains(t, out, "v2")
	assert.Contains(t, out, "1 modified")
	assert.Contains(t, out, "Total: 2 versions")
}

func TestVersions_NoneImported(t *testing.T) {
	withServices(t, Services{Versions: &mockVersionService{err: domain.ErrNotFound}})

	out, err := executeCommand(t, "versions")
	require.NoError(t, err)
	assert.Contains(t, out, "No versions imported yet.")
}

func TestVersions_NoService(t *testing.T) {
	withServices(t, Services{})

	_, err := executeCommand(t, "versions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version service not configured")
}
