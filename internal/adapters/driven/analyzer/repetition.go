package analyzer

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
)

// RepetitionConfig tunes the built-in repetition detector.
type RepetitionConfig struct {
	// ProximityWords is how many words apart two occurrences may be
	// and still count as a repetition.
	ProximityWords int

	// MinWordLength skips short words entirely.
	MinWordLength int
}

// DefaultRepetitionConfig returns the stock configuration.
func DefaultRepetitionConfig() RepetitionConfig {
	return RepetitionConfig{
		ProximityWords: 40,
		MinWordLength:  4,
	}
}

// Function words whose repetition is normal prose, not a defect.
var repetitionStopwords = map[string]bool{
	"that": true, "this": true, "these": true, "those": true,
	"with": true, "from": true, "into": true, "over": true,
	"then": true, "than": true, "when": true, "where": true,
	"there": true, "their": true, "they": true, "them": true,
	"have": true, "been": true, "were": true, "will": true,
	"would": true, "could": true, "should": true, "said": true,
	"what": true, "which": true, "while": true, "about": true,
	"after": true, "before": true, "because": true, "through": true,
}

var wordPattern = regexp.MustCompile(`[A-Za-z][A-Za-z']*`)

// RepetitionDetector flags duplicated words and close lexical
// repetitions. It is the built-in detector that makes the pipeline
// exercisable without any external analyzer.
type RepetitionDetector struct {
	config RepetitionConfig
}

// NewRepetitionDetector creates the detector.
func NewRepetitionDetector(config RepetitionConfig) *RepetitionDetector {
	if config.ProximityWords <= 0 {
		config.ProximityWords = DefaultRepetitionConfig().ProximityWords
	}
	if config.MinWordLength <= 0 {
		config.MinWordLength = DefaultRepetitionConfig().MinWordLength
	}
	return &RepetitionDetector{config: config}
}

// Name identifies the detector.
func (d *RepetitionDetector) Name() string { return "repetition" }

type wordOccurrence struct {
	word  string
	start int
	end   int
	index int
}

// Detect scans the chapter for immediately duplicated words and for
// content words repeated within the proximity window.
func (d *RepetitionDetector) Detect(_ context.Context, input driven.ChapterInput) ([]domain.CandidateFinding, error) {
	words := tokenize(input.Text)
	var findings []domain.CandidateFinding

	// Immediate duplicates: "the the", "was was"
	for i := 1; i < len(words); i++ {
		prev, curr := words[i-1], words[i]
		if prev.word != curr.word {
			continue
		}
		findings = append(findings, domain.CandidateFinding{
			Type:        "duplicated_word",
			Category:    domain.CategoryRepetition,
			Severity:    domain.SeverityWarning,
			Confidence:  0.95,
			Title:       "Duplicated word \"" + curr.word + "\"",
			Description: "The word \"" + curr.word + "\" appears twice in a row.",
			Excerpt:     input.Text[prev.start:curr.end],
			StartChar:   prev.start,
			EndChar:     curr.end,
		})
	}

	// Close repetitions of content words
	lastSeen := make(map[string]wordOccurrence)
	reported := make(map[string]int)
	for _, w := range words {
		if len(w.word) < d.config.MinWordLength || repetitionStopwords[w.word] {
			continue
		}
		if prev, ok := lastSeen[w.word]; ok {
			distance := w.index - prev.index
			if distance > 1 && distance <= d.config.ProximityWords && reported[w.word] != prev.index {
				reported[w.word] = prev.index
				findings = append(findings, domain.CandidateFinding{
					Type:        "lexical_repetition",
					Category:    domain.CategoryRepetition,
					Severity:    domain.SeverityInfo,
					Confidence:  confidenceForDistance(distance, d.config.ProximityWords),
					Title:       "Repetition of \"" + w.word + "\"",
					Description: "The word \"" + w.word + "\" reappears within " + strconv.Itoa(distance) + " words.",
					Excerpt:     input.Text[prev.start:w.end],
					StartChar:   prev.start,
					EndChar:     w.end,
				})
			}
		}
		lastSeen[w.word] = w
	}

	return findings, nil
}

// confidenceForDistance scores closer repetitions higher, within
// [0.5, 0.8].
func confidenceForDistance(distance, window int) float64 {
	proximity := 1.0 - float64(distance)/float64(window)
	return 0.5 + 0.3*proximity
}

func tokenize(text string) []wordOccurrence {
	matches := wordPattern.FindAllStringIndex(text, -1)
	words := make([]wordOccurrence, 0, len(matches))
	for i, span := range matches {
		words = append(words, wordOccurrence{
			word:  strings.ToLower(text[span[0]:span[1]]),
			start: span[0],
			end:   span[1],
			index: i,
		})
	}
	return words
}
