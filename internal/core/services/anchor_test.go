package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

// anchorFor creates an anchor over the first occurrence of needle in
// the given chapter.
func anchorFor(t *testing.T, m *domain.Manuscript, chapter int, needle string) *domain.TextAnchor {
	t.Helper()
	ch := m.Chapter(chapter)
	require.NotNil(t, ch)
	start := strings.Index(ch.Text(), needle)
	require.GreaterOrEqual(t, start, 0, "needle %q not in chapter %d", needle, chapter)

	resolver := NewAnchorResolver()
	anchor, err := resolver.CreateAnchor("novel", 1, ch, start, start+len(needle))
	require.NoError(t, err)
	return anchor
}

func TestAnchorResolver_CreateAnchor(t *testing.T) {
	m := manuscript("Anna opened the drawer.\n\nInside lay the silver locket, cold to the touch.")
	anchor := anchorFor(t, &m, 1, "the silver locket")

	assert.Equal(t, "novel", anchor.ProjectID)
	assert.Equal(t, 1, anchor.Chapter)
	assert.Equal(t, 1, anchor.Paragraph)
	assert.Equal(t, "the silver locket", anchor.TextContent)
	assert.Equal(t, domain.HashText("the silver locket"), anchor.ContentHash)
	assert.NotEmpty(t, anchor.ContextBefore)
	assert.NotEmpty(t, anchor.ContextAfter)
	assert.InDelta(t, 1.0, anchor.Confidence, 0.001)
	assert.False(t, anchor.Orphaned())
}

func TestAnchorResolver_CreateAnchor_BadSpan(t *testing.T) {
	m := manuscript("Short chapter.")
	resolver := NewAnchorResolver()
	ch := m.Chapter(1)

	_, err := resolver.CreateAnchor("novel", 1, ch, -1, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = resolver.CreateAnchor("novel", 1, ch, 5, 500)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = resolver.CreateAnchor("novel", 1, ch, 5, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnchorResolver_CreateAnchor_WindowsStayValidUTF8(t *testing.T) {
	// Three-byte runes placed so both window edges land mid-rune.
	needle := "the locket gleamed brightly"
	text := strings.Repeat("語", 27) + needle + "x" + strings.Repeat("語", 20)
	m := manuscript(text)
	anchor := anchorFor(t, &m, 1, needle)

	assert.Equal(t, needle, anchor.TextContent)
	assert.True(t, utf8.ValidString(anchor.ContextBefore))
	assert.True(t, utf8.ValidString(anchor.ContextAfter))
	assert.NotEmpty(t, anchor.ContextBefore)
	assert.NotEmpty(t, anchor.ContextAfter)
}

func TestAnchorResolver_Relocate_ExactAfterShift(t *testing.T) {
	original := manuscript("Anna opened the drawer. Inside lay the silver locket, cold to the touch.")
	anchor := anchorFor(t, &original, 1, "the silver locket")

	// New text ahead of the anchor shifts its position
	revised := manuscript("A long new opening paragraph about the weather.\n\nAnna opened the drawer. Inside lay the silver locket, cold to the touch.")
	resolver := NewAnchorResolver()
	result := resolver.Relocate(anchor, &revised)

	assert.Equal(t, domain.RelocationExact, result.Method)
	assert.True(t, result.Found)
	assert.InDelta(t, domain.ConfidenceExact, result.Confidence, 0.001)
	assert.Equal(t, "the silver locket", resolver.TextAt(result, &revised))
}

func TestAnchorResolver_Relocate_ExactIsCaseAndSpaceInsensitive(t *testing.T) {
	original := manuscript("Inside lay the silver locket.")
	anchor := anchorFor(t, &original, 1, "the silver locket")

	revised := manuscript("Inside lay The  Silver　Locket.")
	resolver := NewAnchorResolver()
	result := resolver.Relocate(anchor, &revised)

	assert.Equal(t, domain.RelocationExact, result.Method)
	assert.True(t, result.Found)
}

func TestAnchorResolver_Relocate_ExactPrefersNearestChapter(t *testing.T) {
	original := manuscript("Filler.", "She said hello.", "Filler.")
	anchor := anchorFor(t, &original, 2, "hello")

	// The needle now occurs in chapters 1 and 3; chapter 2 lost it.
	// Both are one chapter away; chapter 1 wins on char position.
	revised := manuscript("She said hello.", "Nothing here.", "Later that day she said hello again.")
	result := NewAnchorResolver().Relocate(anchor, &revised)

	assert.Equal(t, domain.RelocationExact, result.Method)
	assert.Equal(t, 1, result.Chapter)
}

func TestAnchorResolver_Relocate_ContextMatch(t *testing.T) {
	original := manuscript("Intro paragraph.\n\nShe held the pendant close and remembered the promise made at the harbour long ago.")
	anchor := anchorFor(t, &original, 1, "the promise")
	require.Equal(t, 1, anchor.Paragraph)

	// Anchored text rewritten and the paragraphs merged, so the
	// structural strategy cannot apply; surrounding context is intact.
	revised := manuscript("Intro paragraph. She held the pendant close and remembered the solemn vow made at the harbour long ago.")
	result := NewAnchorResolver().Relocate(anchor, &revised)

	assert.True(t, result.Found)
	assert.Equal(t, domain.RelocationContext, result.Method)
	assert.GreaterOrEqual(t, result.Confidence, domain.ConfidenceContextMin)
	assert.LessOrEqual(t, result.Confidence, 0.9)
}

func TestAnchorResolver_Relocate_StructuralMatch(t *testing.T) {
	original := manuscript("First paragraph here.\n\nThe locket gleamed on the table.")
	anchor := anchorFor(t, &original, 1, "The locket gleamed")

	// Paragraph 1 fully rewritten, no shared context
	revised := manuscript("First paragraph here.\n\nEverything about this sentence is different now.")
	result := NewAnchorResolver().Relocate(anchor, &revised)

	assert.True(t, result.Found)
	assert.Equal(t, domain.RelocationStructural, result.Method)
	assert.Equal(t, 1, result.Paragraph)
	assert.InDelta(t, domain.ConfidenceStructural, result.Confidence, 0.001)
}

func TestAnchorResolver_Relocate_FuzzyMatch(t *testing.T) {
	original := manuscript("Evening settled over the study while Anna lit the candles one by one.\n\nOn the desk the silver locket gleamed in the lamplight as she wrote.")
	anchor := anchorFor(t, &original, 1, "the silver locket gleamed in the lamplight")
	require.Equal(t, 1, anchor.Paragraph)

	// The anchored sentence is edited, the paragraphs are merged and
	// everything around it is rewritten: exact, structural and context
	// all fail, but the phrase is still recognisably there.
	revised := manuscript("Rain tapped the window; on the desk the silver locket glinted in the lamplight while the house slept.")
	result := NewAnchorResolver().Relocate(anchor, &revised)

	assert.True(t, result.Found)
	assert.Equal(t, domain.RelocationFuzzy, result.Method)
	assert.Equal(t, 1, result.Chapter)
	assert.GreaterOrEqual(t, result.Confidence, domain.ConfidenceFuzzyMin)
	assert.LessOrEqual(t, result.Confidence, 0.9)
}

func TestAnchorResolver_Relocate_FuzzyRejectsDissimilarText(t *testing.T) {
	original := manuscript("Intro.\n\nOn the desk the silver locket gleamed in the lamplight as she wrote.")
	anchor := anchorFor(t, &original, 1, "the silver locket gleamed in the lamplight")

	// Same chapter still exists but holds entirely unrelated prose.
	revised := manuscript("Seagulls wheeled above the quay while fishermen hauled in their dripping nets at dawn.")
	result := NewAnchorResolver().Relocate(anchor, &revised)

	assert.False(t, result.Found)
	assert.Equal(t, domain.RelocationNotFound, result.Method)
}

func TestAnchorResolver_Relocate_NotFound(t *testing.T) {
	original := manuscript("First.", "The locket gleamed on the table beside the candle.")
	anchor := anchorFor(t, &original, 2, "locket gleamed on the table")

	// Chapter 2 gone entirely
	revised := manuscript("First.")
	result := NewAnchorResolver().Relocate(anchor, &revised)

	assert.False(t, result.Found)
	assert.Equal(t, domain.RelocationNotFound, result.Method)
	assert.InDelta(t, 0.0, result.Confidence, 0.001)
}

func TestAnchorResolver_Apply(t *testing.T) {
	original := manuscript("Inside lay the silver locket.")
	anchor := anchorFor(t, &original, 1, "the silver locket")
	resolver := NewAnchorResolver()

	revised := manuscript("New opening words. Inside lay the silver locket.")
	result := resolver.Relocate(anchor, &revised)
	require.True(t, result.Found)

	resolver.Apply(anchor, result, 2)
	assert.Equal(t, result.StartChar, anchor.StartChar)
	assert.Equal(t, 2, anchor.RelocatedVersion)
	assert.InDelta(t, result.Confidence, anchor.Confidence, 0.001)

	// A failed relocation orphans the anchor but keeps its position
	resolver.Apply(anchor, domain.RelocationResult{Method: domain.RelocationNotFound}, 3)
	assert.True(t, anchor.Orphaned())
	assert.Equal(t, 2, anchor.RelocatedVersion)
}

func TestAnchorResolver_Relocate_Deterministic(t *testing.T) {
	original := manuscript("Anna opened the drawer. Inside lay the silver locket, cold to the touch.")
	anchor := anchorFor(t, &original, 1, "the silver locket")

	revised := manuscript("A new opening line.\n\nAnna opened the drawer. Inside lay the silver locket, cold to the touch.")
	resolver := NewAnchorResolver()

	first := resolver.Relocate(anchor, &revised)
	second := resolver.Relocate(anchor, &revised)
	assert.Equal(t, first, second)
}
