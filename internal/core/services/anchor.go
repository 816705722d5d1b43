package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/logger"
)

// fuzzyAcceptance is the minimum similarity for a fuzzy match to count
// as found at all. Below it, relocation falls through to not_found.
const fuzzyAcceptance = 0.45

// AnchorResolver creates text anchors and relocates them against new
// document versions using an ordered strategy cascade. Relocation is a
// pure function of (anchor, manuscript): re-running against the same
// version yields the same result.
type AnchorResolver struct{}

// NewAnchorResolver creates an anchor resolver.
func NewAnchorResolver() *AnchorResolver {
	return &AnchorResolver{}
}

// CreateAnchor captures an anchor for a chapter-relative span,
// including structural context and the surrounding context windows.
// A fresh anchor always has confidence 1.0.
func (r *AnchorResolver) CreateAnchor(projectID string, version int, ch *domain.Chapter, startChar, endChar int) (*domain.TextAnchor, error) {
	text := ch.Text()
	if startChar < 0 || endChar > len(text) || startChar >= endChar {
		return nil, fmt.Errorf("%w: span [%d, %d) outside chapter %d (len %d)",
			domain.ErrInvalidInput, startChar, endChar, ch.Number, len(text))
	}

	content := text[startChar:endChar]
	beforeStart := minInt(startChar, runeCeil(text, maxInt(0, startChar-domain.ContextWindow)))
	afterEnd := maxInt(endChar, runeFloor(text, minInt(len(text), endChar+domain.ContextWindow)))
	before := text[beforeStart:startChar]
	after := text[endChar:afterEnd]

	spans := paragraphSpans(ch)
	para := paragraphAt(spans, startChar)
	sentence := sentenceIndexAt(ch, para, startChar)

	return &domain.TextAnchor{
		ID:               uuid.New().String(),
		ProjectID:        projectID,
		Chapter:          ch.Number,
		Paragraph:        para.index,
		Sentence:         sentence,
		StartChar:        startChar,
		EndChar:          endChar,
		TextContent:      content,
		ContentHash:      domain.HashText(content),
		ContextBefore:    before,
		ContextAfter:     after,
		ContextHash:      domain.HashText(before + "\x00" + after),
		CreatedVersion:   version,
		RelocatedVersion: version,
		Confidence:       1.0,
	}, nil
}

// runeCeil advances a byte offset to the next rune boundary so a
// context window edge cannot split a multibyte rune.
func runeCeil(text string, pos int) int {
	for pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos++
	}
	return pos
}

// runeFloor retreats a byte offset to the previous rune boundary.
func runeFloor(text string, pos int) int {
	for pos > 0 && pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

// Relocate finds the anchor's position in a new manuscript, trying
// strategies in order and stopping at the first success.
func (r *AnchorResolver) Relocate(anchor *domain.TextAnchor, m *domain.Manuscript) domain.RelocationResult {
	if res, ok := r.exactMatch(anchor, m); ok {
		return res
	}
	if res, ok := r.structuralMatch(anchor, m); ok {
		return res
	}
	if res, ok := r.contextMatch(anchor, m); ok {
		return res
	}
	if res, ok := r.fuzzyMatch(anchor, m); ok {
		return res
	}
	logger.Debug("anchor %s: all strategies exhausted", anchor.ID)
	return domain.RelocationResult{
		Method:     domain.RelocationNotFound,
		Found:      false,
		Confidence: 0,
	}
}

// Apply updates the anchor with a relocation result. A not_found
// result marks the anchor orphaned; the anchor is never deleted.
func (r *AnchorResolver) Apply(anchor *domain.TextAnchor, result domain.RelocationResult, version int) {
	if !result.Found {
		anchor.Confidence = 0
		return
	}
	anchor.Chapter = result.Chapter
	anchor.Paragraph = result.Paragraph
	anchor.StartChar = result.StartChar
	anchor.EndChar = result.EndChar
	anchor.RelocatedVersion = version
	anchor.Confidence = result.Confidence
}

// TextAt returns the live text at a relocated position, used by
// reconciliation to compare against the anchor's content hash.
func (r *AnchorResolver) TextAt(result domain.RelocationResult, m *domain.Manuscript) string {
	ch := m.Chapter(result.Chapter)
	if ch == nil {
		return ""
	}
	text := ch.Text()
	start := minInt(maxInt(result.StartChar, 0), len(text))
	end := minInt(maxInt(result.EndChar, start), len(text))
	return text[start:end]
}

// exactMatch looks for the identical normalized text anywhere in the
// manuscript, preferring the occurrence nearest the anchor's last
// known chapter and position.
func (r *AnchorResolver) exactMatch(anchor *domain.TextAnchor, m *domain.Manuscript) (domain.RelocationResult, bool) {
	target := domain.NormalizeText(anchor.TextContent)
	if target == "" {
		return domain.RelocationResult{}, false
	}

	type occurrence struct {
		chapter   int
		paragraph int
		start     int
		end       int
	}
	var occurrences []occurrence

	for i := range m.Chapters {
		ch := &m.Chapters[i]
		text := ch.Text()
		norm, offsets := normalizeWithMap(text)
		spans := paragraphSpans(ch)

		from := 0
		for {
			idx := strings.Index(norm[from:], target)
			if idx < 0 {
				break
			}
			nStart := from + idx
			start, end := originalSpan(offsets, nStart, nStart+len(target), len(text))
			occurrences = append(occurrences, occurrence{
				chapter:   ch.Number,
				paragraph: paragraphAt(spans, start).index,
				start:     start,
				end:       end,
			})
			from = nStart + 1
		}
	}

	if len(occurrences) == 0 {
		return domain.RelocationResult{}, false
	}

	sort.Slice(occurrences, func(i, j int) bool {
		di := chapterDistance(occurrences[i].chapter, anchor.Chapter)
		dj := chapterDistance(occurrences[j].chapter, anchor.Chapter)
		if di != dj {
			return di < dj
		}
		pi := absInt(occurrences[i].start - anchor.StartChar)
		pj := absInt(occurrences[j].start - anchor.StartChar)
		if pi != pj {
			return pi < pj
		}
		if occurrences[i].chapter != occurrences[j].chapter {
			return occurrences[i].chapter < occurrences[j].chapter
		}
		return occurrences[i].start < occurrences[j].start
	})

	best := occurrences[0]
	return domain.RelocationResult{
		Method:     domain.RelocationExact,
		Found:      true,
		Chapter:    best.chapter,
		Paragraph:  best.paragraph,
		StartChar:  best.start,
		EndChar:    best.end,
		Confidence: domain.ConfidenceExact,
	}, true
}

// structuralMatch succeeds when the anchor's chapter and paragraph
// still exist: the text there differs but the boundaries are intact.
func (r *AnchorResolver) structuralMatch(anchor *domain.TextAnchor, m *domain.Manuscript) (domain.RelocationResult, bool) {
	ch := m.Chapter(anchor.Chapter)
	if ch == nil || anchor.Paragraph >= len(ch.Paragraphs) {
		return domain.RelocationResult{}, false
	}

	spans := paragraphSpans(ch)
	span := spans[anchor.Paragraph]
	end := minInt(span.start+len(anchor.TextContent), span.end)
	return domain.RelocationResult{
		Method:     domain.RelocationStructural,
		Found:      true,
		Chapter:    ch.Number,
		Paragraph:  anchor.Paragraph,
		StartChar:  span.start,
		EndChar:    end,
		Confidence: domain.ConfidenceStructural,
	}, true
}

// contextMatch finds the stored before/after windows adjacent to some
// text. Confidence scales with the similarity between that text and
// the anchored content, floored at ConfidenceContextMin.
func (r *AnchorResolver) contextMatch(anchor *domain.TextAnchor, m *domain.Manuscript) (domain.RelocationResult, bool) {
	before := domain.NormalizeText(anchor.ContextBefore)
	after := domain.NormalizeText(anchor.ContextAfter)
	if before == "" || after == "" {
		return domain.RelocationResult{}, false
	}

	// The gap between the windows may have grown; allow the anchored
	// text to double plus some slack before giving up.
	maxGap := len(anchor.TextContent)*2 + domain.ContextWindow

	// Same chapter first, then the rest in order.
	for _, ch := range chaptersNearestFirst(m, anchor.Chapter) {
		text := ch.Text()
		norm, offsets := normalizeWithMap(text)
		spans := paragraphSpans(ch)

		from := 0
		for {
			idx := strings.Index(norm[from:], before)
			if idx < 0 {
				break
			}
			gapStart := from + idx + len(before)
			searchEnd := minInt(len(norm), gapStart+maxGap+len(after))
			rel := strings.Index(norm[gapStart:searchEnd], after)
			if rel >= 0 {
				between := norm[gapStart : gapStart+rel]
				sim := textSimilarity(between, domain.NormalizeText(anchor.TextContent))
				confidence := maxFloat(domain.ConfidenceContextMin,
					domain.ConfidenceContextMin+0.4*sim)

				start, end := originalSpan(offsets, gapStart, gapStart+rel, len(text))
				return domain.RelocationResult{
					Method:     domain.RelocationContext,
					Found:      true,
					Chapter:    ch.Number,
					Paragraph:  paragraphAt(spans, start).index,
					StartChar:  start,
					EndChar:    end,
					Confidence: confidence,
				}, true
			}
			from = from + idx + 1
		}
	}

	return domain.RelocationResult{}, false
}

// fuzzyMatch slides a window over the anchor's own chapter and scores
// approximate similarity. Confidence scales with similarity, floored at
// ConfidenceFuzzyMin; matches below the acceptance bound fail.
func (r *AnchorResolver) fuzzyMatch(anchor *domain.TextAnchor, m *domain.Manuscript) (domain.RelocationResult, bool) {
	ch := m.Chapter(anchor.Chapter)
	if ch == nil {
		return domain.RelocationResult{}, false
	}

	target := domain.NormalizeText(anchor.TextContent)
	if target == "" {
		return domain.RelocationResult{}, false
	}

	text := ch.Text()
	norm, offsets := normalizeWithMap(text)
	window := len(target)
	if window == 0 || len(norm) < window/2 {
		return domain.RelocationResult{}, false
	}

	step := maxInt(1, window/4)
	bestSim := 0.0
	bestStart := -1

	for pos := 0; pos < len(norm); pos += step {
		end := minInt(len(norm), pos+window)
		sim := textSimilarity(norm[pos:end], target)
		if sim > bestSim {
			bestSim = sim
			bestStart = pos
		}
		if end == len(norm) {
			break
		}
	}

	if bestStart < 0 || bestSim < fuzzyAcceptance {
		return domain.RelocationResult{}, false
	}

	spans := paragraphSpans(ch)
	start, end := originalSpan(offsets, bestStart, minInt(len(norm), bestStart+window), len(text))
	confidence := maxFloat(domain.ConfidenceFuzzyMin, minFloat(0.9, bestSim))
	return domain.RelocationResult{
		Method:     domain.RelocationFuzzy,
		Found:      true,
		Chapter:    ch.Number,
		Paragraph:  paragraphAt(spans, start).index,
		StartChar:  start,
		EndChar:    end,
		Confidence: confidence,
	}, true
}

// sentenceIndexAt finds which sentence of the containing paragraph the
// span starts in.
func sentenceIndexAt(ch *domain.Chapter, para paragraphSpan, startChar int) int {
	if para.index >= len(ch.Paragraphs) {
		return 0
	}
	rel := startChar - para.start
	if rel < 0 {
		return 0
	}
	offset := 0
	for i, s := range domain.SplitSentences(ch.Paragraphs[para.index].Text) {
		offset += len(s)
		if rel < offset {
			return i
		}
		offset++ // separator space
	}
	return 0
}

// chaptersNearestFirst orders chapters by distance from a reference
// chapter number, so searches prefer staying close to the last known
// location.
func chaptersNearestFirst(m *domain.Manuscript, reference int) []*domain.Chapter {
	out := make([]*domain.Chapter, len(m.Chapters))
	for i := range m.Chapters {
		out[i] = &m.Chapters[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return chapterDistance(out[i].Number, reference) < chapterDistance(out[j].Number, reference)
	})
	return out
}

func chapterDistance(a, b int) int {
	return absInt(a - b)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
