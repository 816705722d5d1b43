package domain

import "strings"

// Manuscript is a parsed manuscript as delivered by a format parser.
// Format parsing itself (DOCX/PDF/EPUB/TXT) happens outside the core;
// the engine only consumes this structural representation.
type Manuscript struct {
	// Title is the manuscript title, if the parser detected one.
	Title string

	// SourcePath is the file the manuscript was imported from.
	SourcePath string

	// Chapters holds the chapters in reading order.
	Chapters []Chapter
}

// Chapter is one chapter of a manuscript.
type Chapter struct {
	// Number is the 1-indexed chapter number.
	Number int

	// Title is the chapter heading, if any.
	Title string

	// Paragraphs holds the chapter body in order.
	Paragraphs []Paragraph
}

// Paragraph is one paragraph of chapter text.
type Paragraph struct {
	// Index is the 0-indexed position within the chapter.
	Index int

	// Text is the paragraph content.
	Text string
}

// Text returns the full chapter text with paragraphs separated by
// blank lines. Char offsets in findings and anchors are relative to
// this representation.
func (c *Chapter) Text() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n\n")
}

// Chapter returns the chapter with the given number, or nil.
func (m *Manuscript) Chapter(number int) *Chapter {
	for i := range m.Chapters {
		if m.Chapters[i].Number == number {
			return &m.Chapters[i]
		}
	}
	return nil
}

// WordCount counts words across all chapters.
func (m *Manuscript) WordCount() int {
	total := 0
	for i := range m.Chapters {
		for _, p := range m.Chapters[i].Paragraphs {
			total += len(strings.Fields(p.Text))
		}
	}
	return total
}

// CharCount counts characters across all chapter text.
func (m *Manuscript) CharCount() int {
	total := 0
	for i := range m.Chapters {
		total += len(m.Chapters[i].Text())
	}
	return total
}

// FullText returns the whole manuscript text, chapters separated by
// blank lines. Used for the document-level hash.
func (m *Manuscript) FullText() string {
	parts := make([]string, len(m.Chapters))
	for i := range m.Chapters {
		parts[i] = m.Chapters[i].Text()
	}
	return strings.Join(parts, "\n\n")
}

// sentenceEnd reports whether r terminates a sentence.
func sentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences splits paragraph text into sentences on terminal
// punctuation. It is intentionally simple: anchors only need a stable
// sentence index, not linguistic accuracy.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if sentenceEnd(r) {
			// Consume trailing quotes/whitespace into the same sentence.
			if i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '”') {
				continue
			}
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
