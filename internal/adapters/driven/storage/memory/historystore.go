package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
// Rows are append-only, matching the durable stores.
type HistoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   []domain.AlertStateChange
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{nextID: 1}
}

// AppendHistory appends one state-change row and assigns its ID.
func (s *HistoryStore) AppendHistory(_ context.Context, change *domain.AlertStateChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	change.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, *change)
	return nil
}

// HistoryForAlert returns an alert's history, oldest first.
func (s *HistoryStore) HistoryForAlert(_ context.Context, alertID string) ([]domain.AlertStateChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.AlertStateChange
	for _, row := range s.rows {
		if row.AlertID == alertID {
			result = append(result, row)
		}
	}
	return result, nil
}
