package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
)

// Ensure DismissalStore implements the interface.
var _ driven.DismissalStore = (*DismissalStore)(nil)

// DismissalStore is an in-memory implementation of driven.DismissalStore.
type DismissalStore struct {
	mu       sync.RWMutex
	patterns map[string]map[string]domain.DismissalPattern
}

// NewDismissalStore creates a new in-memory dismissal store.
func NewDismissalStore() *DismissalStore {
	return &DismissalStore{
		patterns: make(map[string]map[string]domain.DismissalPattern),
	}
}

// RecordPattern stores a pattern. Identical signatures are a no-op.
func (s *DismissalStore) RecordPattern(_ context.Context, pattern domain.DismissalPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	project := s.patterns[pattern.ProjectID]
	if project == nil {
		project = make(map[string]domain.DismissalPattern)
		s.patterns[pattern.ProjectID] = project
	}
	signature := pattern.Signature()
	if _, ok := project[signature]; ok {
		return nil
	}
	project[signature] = pattern
	return nil
}

// GetPatterns returns all recorded patterns for a project.
func (s *DismissalStore) GetPatterns(_ context.Context, projectID string) ([]domain.DismissalPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.DismissalPattern
	for _, pattern := range s.patterns[projectID] {
		result = append(result, pattern)
	}
	return result, nil
}

// RemovePattern deletes the pattern with the given signature.
func (s *DismissalStore) RemovePattern(_ context.Context, projectID, signature string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.patterns[projectID], signature)
	return nil
}
