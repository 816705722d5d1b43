package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
)

// Ensure VersionStore implements the interface.
var _ driven.VersionStore = (*VersionStore)(nil)

// VersionStore is an in-memory implementation of driven.VersionStore.
type VersionStore struct {
	mu       sync.RWMutex
	versions map[string][]domain.DocumentVersion
}

// NewVersionStore creates a new in-memory version store.
func NewVersionStore() *VersionStore {
	return &VersionStore{
		versions: make(map[string][]domain.DocumentVersion),
	}
}

// SaveVersion appends a new version.
func (s *VersionStore) SaveVersion(_ context.Context, version domain.DocumentVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.versions[version.ProjectID] {
		if existing.Number == version.Number {
			return fmt.Errorf("version %d: %w", version.Number, domain.ErrVersionConflict)
		}
	}
	s.versions[version.ProjectID] = append(s.versions[version.ProjectID], version)
	return nil
}

// GetLatestVersion returns the highest-numbered version for a project.
func (s *VersionStore) GetLatestVersion(_ context.Context, projectID string) (*domain.DocumentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.versions[projectID]
	if len(versions) == 0 {
		return nil, domain.ErrNotFound
	}
	latest := versions[0]
	for _, v := range versions[1:] {
		if v.Number > latest.Number {
			latest = v
		}
	}
	return &latest, nil
}

// GetVersion returns one specific version.
func (s *VersionStore) GetVersion(_ context.Context, projectID string, number int) (*domain.DocumentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.versions[projectID] {
		if v.Number == number {
			version := v
			return &version, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListVersions returns all versions for a project, oldest first.
func (s *VersionStore) ListVersions(_ context.Context, projectID string) ([]domain.DocumentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := make([]domain.DocumentVersion, len(s.versions[projectID]))
	copy(versions, s.versions[projectID])
	sort.Slice(versions, func(i, j int) bool { return versions[i].Number < versions[j].Number })
	return versions, nil
}
