package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

func TestAnchorStore_SaveAndGet(t *testing.T) {
	store := NewAnchorStore()
	ctx := context.Background()

	anchor := &domain.TextAnchor{
		ID:          "an-1",
		ProjectID:   "novel",
		Chapter:     2,
		TextContent: "the locket was silver",
		Confidence:  1.0,
	}
	require.NoError(t, store.SaveAnchor(ctx, anchor))

	got, err := store.GetAnchor(ctx, "an-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Chapter)
	assert.InDelta(t, 1.0, got.Confidence, 0.001)

	// Zeroing confidence on failed relocation persists
	anchor.Confidence = 0
	require.NoError(t, store.SaveAnchor(ctx, anchor))
	got, err = store.GetAnchor(ctx, "an-1")
	require.NoError(t, err)
	assert.True(t, got.Orphaned())
}

func TestAnchorStore_GetAnchor_NotFound(t *testing.T) {
	store := NewAnchorStore()
	_, err := store.GetAnchor(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnchorStore_GetAnchorsForProject(t *testing.T) {
	store := NewAnchorStore()
	ctx := context.Background()

	require.NoError(t, store.SaveAnchor(ctx, &domain.TextAnchor{ID: "an-1", ProjectID: "novel"}))
	require.NoError(t, store.SaveAnchor(ctx, &domain.TextAnchor{ID: "an-2", ProjectID: "novel"}))
	require.NoError(t, store.SaveAnchor(ctx, &domain.TextAnchor{ID: "an-3", ProjectID: "other"}))

	anchors, err := store.GetAnchorsForProject(ctx, "novel")
	require.NoError(t, err)
	assert.Len(t, anchors, 2)
}
