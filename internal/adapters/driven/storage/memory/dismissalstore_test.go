package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

func testPattern() domain.DismissalPattern {
	return domain.DismissalPattern{
		ProjectID:   "novel",
		AlertType:   "timeline_conflict",
		EntityKey:   "3,7",
		ExcerptHash: "0123456789abcdef",
		RecordedAt:  time.Now(),
	}
}

func TestDismissalStore_RecordAndGet(t *testing.T) {
	store := NewDismissalStore()
	ctx := context.Background()

	require.NoError(t, store.RecordPattern(ctx, testPattern()))

	patterns, err := store.GetPatterns(ctx, "novel")
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "timeline_conflict|3,7|0123456789abcdef", patterns[0].Signature())
}

func TestDismissalStore_RecordPattern_Idempotent(t *testing.T) {
	store := NewDismissalStore()
	ctx := context.Background()

	p := testPattern()
	require.NoError(t, store.RecordPattern(ctx, p))
	require.NoError(t, store.RecordPattern(ctx, p))

	patterns, err := store.GetPatterns(ctx, "novel")
	require.NoError(t, err)
	assert.Len(t, patterns, 1)
}

func TestDismissalStore_RemovePattern(t *testing.T) {
	store := NewDismissalStore()
	ctx := context.Background()

	p := testPattern()
	require.NoError(t, store.RecordPattern(ctx, p))
	require.NoError(t, store.RemovePattern(ctx, "novel", p.Signature()))

	patterns, err := store.GetPatterns(ctx, "novel")
	require.NoError(t, err)
	assert.Empty(t, patterns)

	// Removing again is harmless
	require.NoError(t, store.RemovePattern(ctx, "novel", p.Signature()))
}
