package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// NormalizeText prepares text for hashing so that purely cosmetic edits
// (whitespace, capitalisation) do not register as content changes.
// All whitespace runs collapse to a single space and the result is
// case-folded and trimmed.
func NormalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// HashText returns the SHA-256 hex digest of the normalized text.
// Equal digests are treated as equal content without byte comparison.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first 16 hex characters of HashText.
// Used where a compact signature is enough (dismissal patterns).
func ShortHash(text string) string {
	return HashText(text)[:16]
}
