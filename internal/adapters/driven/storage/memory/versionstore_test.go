package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

func TestVersionStore_SaveAndGet(t *testing.T) {
	store := NewVersionStore()
	ctx := context.Background()

	v := domain.DocumentVersion{
		ProjectID:     "novel",
		Number:        1,
		FullHash:      "abc",
		ChapterHashes: map[int]string{1: "h1", 2: "h2"},
	}
	require.NoError(t, store.SaveVersion(ctx, v))

	got, err := store.GetVersion(ctx, "novel", 1)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.FullHash)
	assert.Equal(t, "h2", got.ChapterHashes[2])
}

func TestVersionStore_SaveVersion_Conflict(t *testing.T) {
	store := NewVersionStore()
	ctx := context.Background()

	v := domain.DocumentVersion{ProjectID: "novel", Number: 1}
	require.NoError(t, store.SaveVersion(ctx, v))

	err := store.SaveVersion(ctx, v)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestVersionStore_GetLatestVersion(t *testing.T) {
	store := NewVersionStore()
	ctx := context.Background()

	_, err := store.GetLatestVersion(ctx, "novel")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for n := 1; n <= 3; n++ {
		require.NoError(t, store.SaveVersion(ctx, domain.DocumentVersion{ProjectID: "novel", Number: n}))
	}

	latest, err := store.GetLatestVersion(ctx, "novel")
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Number)
}

func TestVersionStore_ListVersions_OldestFirst(t *testing.T) {
	store := NewVersionStore()
	ctx := context.Background()

	require.NoError(t, store.SaveVersion(ctx, domain.DocumentVersion{ProjectID: "novel", Number: 2}))
	require.NoError(t, store.SaveVersion(ctx, domain.DocumentVersion{ProjectID: "novel", Number: 1}))
	require.NoError(t, store.SaveVersion(ctx, domain.DocumentVersion{ProjectID: "other", Number: 1}))

	versions, err := store.ListVersions(ctx, "novel")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 1, versions[0].Number)
	assert.Equal(t, 2, versions[1].Number)
}

func TestVersionStore_GetVersion_NotFound(t *testing.T) {
	store := NewVersionStore()
	_, err := store.GetVersion(context.Background(), "novel", 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
