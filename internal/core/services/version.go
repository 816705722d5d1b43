package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driving"
	"github.com/custodia-labs/inkwell-cli/internal/logger"
)

// VersionTracker builds immutable DocumentVersion snapshots and diffs
// them against the project's latest version.
type VersionTracker struct {
	store driven.VersionStore
	now   func() time.Time
}

// NewVersionTracker creates a version tracker.
func NewVersionTracker(store driven.VersionStore) *VersionTracker {
	return &VersionTracker{
		store: store,
		now:   time.Now,
	}
}

// Build hashes the manuscript at every granularity, looks up the
// project's latest version and classifies chapters relative to it.
// The returned version is NOT persisted; call Commit once the run is
// ready to expose it to readers.
func (t *VersionTracker) Build(ctx context.Context, projectID string, m domain.Manuscript) (*domain.DocumentVersion, error) {
	if len(m.Chapters) == 0 {
		return nil, fmt.Errorf("build version for %s: %w", projectID, domain.ErrEmptyManuscript)
	}

	chapterHashes := make(map[int]string, len(m.Chapters))
	paragraphHashes := make(map[string]string)
	for i := range m.Chapters {
		ch := &m.Chapters[i]
		chapterHashes[ch.Number] = domain.HashText(ch.Text())
		for _, p := range ch.Paragraphs {
			paragraphHashes[domain.ParagraphKey(ch.Number, p.Index)] = domain.HashText(p.Text)
		}
	}

	var prevHashes map[int]string
	number := 1
	latest, err := t.store.GetLatestVersion(ctx, projectID)
	switch {
	case err == nil:
		prevHashes = latest.ChapterHashes
		number = latest.Number + 1
	case errors.Is(err, domain.ErrNotFound):
		// First import: everything is added.
	default:
		return nil, fmt.Errorf("get latest version: %w", err)
	}

	diff := domain.DiffChapterHashes(prevHashes, chapterHashes)
	version := &domain.DocumentVersion{
		ProjectID:        projectID,
		Number:           number,
		FullHash:         domain.HashText(m.FullText()),
		ChapterHashes:    chapterHashes,
		ParagraphHashes:  paragraphHashes,
		WordCount:        m.WordCount(),
		CharCount:        m.CharCount(),
		SourceFile:       m.SourcePath,
		CreatedAt:        t.now(),
		ModifiedChapters: diff.Modified,
		AddedChapters:    diff.Added,
		DeletedChapters:  diff.Deleted,
	}

	logger.Debug("built version %d for %s: %d modified, %d added, %d deleted",
		number, projectID, len(diff.Modified), len(diff.Added), len(diff.Deleted))
	return version, nil
}

// Commit persists a built version append-only. A concurrent commit of
// the same version number surfaces as domain.ErrVersionConflict.
func (t *VersionTracker) Commit(ctx context.Context, version *domain.DocumentVersion) error {
	if err := t.store.SaveVersion(ctx, *version); err != nil {
		return fmt.Errorf("save version %d: %w", version.Number, err)
	}
	return nil
}

// CreateVersion builds and immediately persists a version. Callers
// that need the finalize-after-analysis behaviour use Build + Commit.
func (t *VersionTracker) CreateVersion(ctx context.Context, projectID string, m domain.Manuscript) (*domain.DocumentVersion, error) {
	version, err := t.Build(ctx, projectID, m)
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx, version); err != nil {
		return nil, err
	}
	return version, nil
}

// Ensure VersionInspector implements the interface.
var _ driving.VersionService = (*VersionInspector)(nil)

// VersionInspector is the read side of version tracking, exposed to
// the CLI and MCP surfaces.
type VersionInspector struct {
	store driven.VersionStore
}

// NewVersionInspector creates the read-side version service.
func NewVersionInspector(store driven.VersionStore) *VersionInspector {
	return &VersionInspector{store: store}
}

// List returns the project's versions, oldest first.
func (s *VersionInspector) List(ctx context.Context, projectID string) ([]domain.DocumentVersion, error) {
	versions, err := s.store.ListVersions(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

// Latest returns the newest version.
func (s *VersionInspector) Latest(ctx context.Context, projectID string) (*domain.DocumentVersion, error) {
	version, err := s.store.GetLatestVersion(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get latest version: %w", err)
	}
	return version, nil
}
