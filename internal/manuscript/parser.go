// Package manuscript parses plain-text and markdown manuscripts into
// the structural representation the analysis engine consumes. Rich
// formats (DOCX/PDF/EPUB) are out of scope; converting to text first
// is the supported path.
package manuscript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/logger"
)

// Chapter heading conventions, most reliable first. Manuscript
// formatting varies a lot; these cover the common ones.
var chapterPatterns = []*regexp.Regexp{
	// Markdown headings: "# Title", "## Chapter 3"
	regexp.MustCompile(`^#{1,2}\s+(.+?)\s*$`),
	// "Chapter 1", "CHAPTER IV: The Storm"
	regexp.MustCompile(`(?i)^chapter\s+(?:\d+|[ivxlcdm]+)(?:\s*[:.\-]\s*(.+?))?\s*$`),
	// "1. The Beginning", "12 - Homecoming"
	regexp.MustCompile(`^\d{1,3}\s*[:.\-]\s+(\S.*?)\s*$`),
	// Bare roman numeral on its own line
	regexp.MustCompile(`^([IVXLCDM]{1,7})\s*\.?\s*$`),
	// Prologue / epilogue / interlude headings
	regexp.MustCompile(`(?i)^(prologue|epilogue|interlude)\s*$`),
}

// sceneSeparators are kept inside a chapter; they break paragraphs
// but never start a new chapter.
var sceneSeparator = regexp.MustCompile(`^(\*\s*){3,}$|^\*{3,}\s*$|^-{3,}\s*$|^~{3,}\s*$`)

// ParseFile reads and parses a manuscript file.
func ParseFile(path string) (domain.Manuscript, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Manuscript{}, fmt.Errorf("open manuscript: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads manuscript text and splits it into chapters and
// paragraphs. Text before the first chapter heading becomes chapter 1;
// a manuscript without headings is a single chapter.
func Parse(r io.Reader, sourcePath string) (domain.Manuscript, error) {
	m := domain.Manuscript{SourcePath: sourcePath}

	var (
		current   *domain.Chapter
		paragraph []string
		title     string
	)

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(paragraph, " "))
		paragraph = nil
		if text == "" {
			return
		}
		if current == nil {
			m.Chapters = append(m.Chapters, domain.Chapter{Number: 1})
			current = &m.Chapters[len(m.Chapters)-1]
		}
		current.Paragraphs = append(current.Paragraphs, domain.Paragraph{
			Index: len(current.Paragraphs),
			Text:  text,
		})
	}

	startChapter := func(heading string) {
		flushParagraph()
		m.Chapters = append(m.Chapters, domain.Chapter{
			Number: len(m.Chapters) + 1,
			Title:  strings.TrimSpace(heading),
		})
		current = &m.Chapters[len(m.Chapters)-1]
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushParagraph()
		case sceneSeparator.MatchString(trimmed):
			flushParagraph()
		case isChapterHeading(trimmed):
			// The very first line may be the manuscript title rather
			// than a chapter heading.
			if lineNo == 1 && strings.HasPrefix(trimmed, "# ") {
				title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
				continue
			}
			startChapter(headingTitle(trimmed))
		default:
			paragraph = append(paragraph, trimmed)
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.Manuscript{}, fmt.Errorf("read manuscript: %w", err)
	}
	flushParagraph()

	m.Title = title
	if m.Title == "" {
		m.Title = titleFromPath(sourcePath)
	}

	// Drop heading-only chapters with no body text.
	chapters := m.Chapters[:0]
	for _, ch := range m.Chapters {
		if len(ch.Paragraphs) > 0 {
			ch.Number = len(chapters) + 1
			chapters = append(chapters, ch)
		}
	}
	m.Chapters = chapters

	if len(m.Chapters) == 0 {
		return domain.Manuscript{}, fmt.Errorf("parse %s: %w", sourcePath, domain.ErrEmptyManuscript)
	}

	logger.Debug("parsed %s: %d chapters, %d words", sourcePath, len(m.Chapters), m.WordCount())
	return m, nil
}

func isChapterHeading(line string) bool {
	for _, p := range chapterPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// headingTitle extracts the human title part of a heading line, or
// returns the whole heading when there is no separate title.
func headingTitle(line string) string {
	for _, p := range chapterPatterns {
		groups := p.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		for _, g := range groups[1:] {
			if strings.TrimSpace(g) != "" {
				return strings.TrimSpace(g)
			}
		}
		return strings.TrimSpace(strings.TrimLeft(line, "# "))
	}
	return line
}

func titleFromPath(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	return base
}
