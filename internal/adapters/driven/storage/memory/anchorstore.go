package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
)

// Ensure AnchorStore implements the interface.
var _ driven.AnchorStore = (*AnchorStore)(nil)

// AnchorStore is an in-memory implementation of driven.AnchorStore.
type AnchorStore struct {
	mu      sync.RWMutex
	anchors map[string]domain.TextAnchor
}

// NewAnchorStore creates a new in-memory anchor store.
func NewAnchorStore() *AnchorStore {
	return &AnchorStore{
		anchors: make(map[string]domain.TextAnchor),
	}
}

// SaveAnchor inserts or updates an anchor.
func (s *AnchorStore) SaveAnchor(_ context.Context, anchor *domain.TextAnchor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchors[anchor.ID] = *anchor
	return nil
}

// GetAnchor retrieves an anchor by ID.
func (s *AnchorStore) GetAnchor(_ context.Context, id string) (*domain.TextAnchor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	anchor, ok := s.anchors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &anchor, nil
}

// GetAnchorsForProject returns all anchors of a project.
func (s *AnchorStore) GetAnchorsForProject(_ context.Context, projectID string) ([]domain.TextAnchor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.TextAnchor
	for id := range s.anchors {
		anchor := s.anchors[id]
		if anchor.ProjectID == projectID {
			result = append(result, anchor)
		}
	}
	return result, nil
}
