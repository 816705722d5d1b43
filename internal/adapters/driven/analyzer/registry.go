// Package analyzer implements the engine's analyzer runner: a
// registry of detectors invoked per chapter, throttled with a shared
// token bucket so bursts of concurrent chapter dispatches do not
// overwhelm slower detector backends.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.AnalyzerRunner = (*Registry)(nil)

// Detector produces candidate findings for one chapter. Detectors are
// semantic collaborators; the engine never inspects their reasoning,
// only anchors and filters what they emit.
type Detector interface {
	// Name identifies the detector in findings' SourceModule.
	Name() string

	// Detect analyzes one chapter's text.
	Detect(ctx context.Context, input driven.ChapterInput) ([]domain.CandidateFinding, error)
}

// Registry fans one chapter analysis out to every registered detector.
type Registry struct {
	mu        sync.RWMutex
	detectors []Detector
	limiter   *rate.Limiter
}

// NewRegistry creates an analyzer registry throttled to the given
// chapter analyses per second.
func NewRegistry(analysesPerSecond float64, burst int) *Registry {
	if analysesPerSecond <= 0 {
		analysesPerSecond = 4
	}
	if burst <= 0 {
		burst = 2
	}
	return &Registry{
		limiter: rate.NewLimiter(rate.Limit(analysesPerSecond), burst),
	}
}

// Register adds a detector. Registration order is invocation order.
func (r *Registry) Register(d Detector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors = append(r.detectors, d)
}

// Detectors returns the registered detector names.
func (r *Registry) Detectors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.detectors))
	for i, d := range r.detectors {
		names[i] = d.Name()
	}
	return names
}

// AnalyzeChapter runs every detector against the chapter and merges
// their findings. A failing detector does not silence the others; the
// chapter only counts as failed when no detector succeeded.
func (r *Registry) AnalyzeChapter(ctx context.Context, input driven.ChapterInput) ([]domain.CandidateFinding, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	r.mu.RLock()
	detectors := make([]Detector, len(r.detectors))
	copy(detectors, r.detectors)
	r.mu.RUnlock()

	if len(detectors) == 0 {
		return nil, fmt.Errorf("chapter %d: %w", input.Chapter, domain.ErrAnalyzerUnavailable)
	}

	var findings []domain.CandidateFinding
	var errs []error
	succeeded := 0
	for _, d := range detectors {
		out, err := d.Detect(ctx, input)
		if err != nil {
			logger.Warn("detector %s failed on chapter %d: %v", d.Name(), input.Chapter, err)
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		succeeded++
		for i := range out {
			if out[i].SourceModule == "" {
				out[i].SourceModule = d.Name()
			}
		}
		findings = append(findings, out...)
	}

	if succeeded == 0 {
		return nil, errors.Join(errs...)
	}
	return findings, nil
}
