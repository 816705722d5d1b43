package services

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
)

// normalizeWithMap lower-cases and collapses whitespace like
// domain.NormalizeText, but also returns a map from each character of
// the normalized string back to its byte offset in the original. The
// map lets exact and context matches report positions in the original
// text after matching in normalized space.
func normalizeWithMap(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text))

	inSpace := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
			// The collapsed space points at the first following rune.
			offsets = append(offsets, i)
		}
		inSpace = false
		lower := unicode.ToLower(r)
		start := len(offsets)
		b.WriteRune(lower)
		for len(offsets)-start < len(string(lower)) {
			offsets = append(offsets, i)
		}
	}

	return b.String(), offsets
}

// originalSpan converts a normalized-space match [start, end) into
// byte offsets in the original text.
func originalSpan(offsets []int, start, end int, originalLen int) (int, int) {
	if start >= len(offsets) {
		return originalLen, originalLen
	}
	origStart := offsets[start]
	origEnd := originalLen
	if end < len(offsets) {
		origEnd = offsets[end]
	}
	return origStart, origEnd
}

// levenshtein computes the edit distance between two strings using two
// rolling rows.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// trigramSize is the shingle length for Jaccard similarity.
const trigramSize = 3

// trigrams returns the character n-gram set of a string.
func trigrams(s string) map[string]struct{} {
	runes := []rune(s)
	set := make(map[string]struct{})
	if len(runes) < trigramSize {
		if len(runes) > 0 {
			set[string(runes)] = struct{}{}
		}
		return set
	}
	for i := 0; i+trigramSize <= len(runes); i++ {
		set[string(runes[i:i+trigramSize])] = struct{}{}
	}
	return set
}

// jaccard computes set overlap of two trigram sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	inter := 0
	for g := range a {
		if _, ok := b[g]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// fuzzyShortLimit is the length below which edit distance is used;
// longer strings use trigram Jaccard, which is cheaper and tolerant of
// rearrangement.
const fuzzyShortLimit = 64

// textSimilarity scores two normalized strings in [0, 1].
func textSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0.0
	}
	if la <= fuzzyShortLimit && lb <= fuzzyShortLimit {
		longest := la
		if lb > longest {
			longest = lb
		}
		return 1.0 - float64(levenshtein(a, b))/float64(longest)
	}
	return jaccard(trigrams(a), trigrams(b))
}

// paragraphSpan locates each paragraph's byte range within
// Chapter.Text() (paragraphs joined by blank lines).
type paragraphSpan struct {
	index int
	start int
	end   int
}

func paragraphSpans(ch *domain.Chapter) []paragraphSpan {
	spans := make([]paragraphSpan, 0, len(ch.Paragraphs))
	offset := 0
	for i, p := range ch.Paragraphs {
		if i > 0 {
			offset += 2 // the "\n\n" separator
		}
		spans = append(spans, paragraphSpan{
			index: p.Index,
			start: offset,
			end:   offset + len(p.Text),
		})
		offset += len(p.Text)
	}
	return spans
}

// paragraphAt returns the span containing the byte offset, defaulting
// to the closest paragraph when the offset falls on a separator.
func paragraphAt(spans []paragraphSpan, offset int) paragraphSpan {
	for _, s := range spans {
		if offset >= s.start && offset < s.end {
			return s
		}
	}
	if len(spans) == 0 {
		return paragraphSpan{}
	}
	last := spans[len(spans)-1]
	if offset >= last.end {
		return last
	}
	// Between paragraphs: attribute to the next one.
	for _, s := range spans {
		if offset < s.start {
			return s
		}
	}
	return last
}
