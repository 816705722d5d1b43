package domain

// ContextWindow is the target length in characters of the stored
// context-before and context-after strings around an anchor.
const ContextWindow = 50

// RelocationMethod identifies which strategy relocated an anchor.
type RelocationMethod string

const (
	// RelocationExact found the identical normalized text.
	RelocationExact RelocationMethod = "exact_match"
	// RelocationStructural matched on intact chapter/paragraph position.
	RelocationStructural RelocationMethod = "structural_match"
	// RelocationContext matched via the stored before/after windows.
	RelocationContext RelocationMethod = "context_match"
	// RelocationFuzzy matched approximately within the same chapter.
	RelocationFuzzy RelocationMethod = "fuzzy_match"
	// RelocationNotFound means every strategy failed.
	RelocationNotFound RelocationMethod = "not_found"
)

// Confidence values assigned by the relocation strategies. Context and
// fuzzy scale with similarity; these are their floors.
const (
	ConfidenceExact      = 1.0
	ConfidenceStructural = 0.7
	ConfidenceContextMin = 0.5
	ConfidenceFuzzyMin   = 0.3
)

// TextAnchor is a resilient pointer into manuscript text. Its identity
// is stable across relocations; only position fields, the relocated
// version and the confidence change. Anchors are never deleted, only
// marked unresolved (confidence 0) when relocation fails.
type TextAnchor struct {
	// ID is the stable anchor identity.
	ID string

	// ProjectID identifies the owning project.
	ProjectID string

	// Chapter, Paragraph and Sentence give the structural context.
	// Chapter is 1-indexed; Paragraph and Sentence are 0-indexed.
	Chapter   int
	Paragraph int
	Sentence  int

	// StartChar and EndChar are chapter-relative offsets. They are the
	// fast path and may go stale between versions.
	StartChar int
	EndChar   int

	// TextContent is the literal anchored text.
	TextContent string

	// ContentHash is HashText(TextContent). Invariant at creation.
	ContentHash string

	// ContextBefore and ContextAfter are ~ContextWindow characters of
	// surrounding text; ContextHash covers both windows.
	ContextBefore string
	ContextAfter  string
	ContextHash   string

	// CreatedVersion is the version the anchor was created under.
	CreatedVersion int

	// RelocatedVersion is the version the anchor was last successfully
	// relocated under.
	RelocatedVersion int

	// Confidence is the current relocation confidence in [0, 1].
	Confidence float64
}

// Orphaned reports whether the anchor failed to relocate and needs
// manual review.
func (a *TextAnchor) Orphaned() bool {
	return a.Confidence == 0
}

// RelocationResult is the outcome of relocating one anchor against a
// new document version.
type RelocationResult struct {
	// Method is the strategy that produced this result.
	Method RelocationMethod

	// Found reports whether any strategy succeeded.
	Found bool

	// Chapter, Paragraph, StartChar and EndChar give the new position
	// when Found is true.
	Chapter   int
	Paragraph int
	StartChar int
	EndChar   int

	// Confidence is the confidence of the new position.
	Confidence float64
}
