package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/inkwell-cli/internal/core/domain"
	"github.com/custodia-labs/inkwell-cli/internal/core/ports/driven"
)

// Ensure AlertStore implements the interface.
var _ driven.AlertStore = (*AlertStore)(nil)

// AlertStore is an in-memory implementation of driven.AlertStore.
type AlertStore struct {
	mu     sync.RWMutex
	alerts map[string]domain.Alert
}

// NewAlertStore creates a new in-memory alert store.
func NewAlertStore() *AlertStore {
	return &AlertStore{
		alerts: make(map[string]domain.Alert),
	}
}

// SaveAlert inserts or updates an alert.
func (s *AlertStore) SaveAlert(_ context.Context, alert *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[alert.ID] = *alert
	return nil
}

// GetAlert retrieves an alert by ID.
func (s *AlertStore) GetAlert(_ context.Context, id string) (*domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	alert, ok := s.alerts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &alert, nil
}

// GetAlertsForChapters returns all alerts of the project whose chapter
// is in the given set. An empty set returns every alert.
func (s *AlertStore) GetAlertsForChapters(_ context.Context, projectID string, chapters []int) ([]domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int]bool, len(chapters))
	for _, n := range chapters {
		wanted[n] = true
	}

	var result []domain.Alert
	for id := range s.alerts {
		alert := s.alerts[id]
		if alert.ProjectID != projectID {
			continue
		}
		if len(wanted) > 0 && !wanted[alert.Chapter] {
			continue
		}
		result = append(result, alert)
	}
	sortAlerts(result)
	return result, nil
}

// ListAlerts returns the project's alerts matching the filter.
func (s *AlertStore) ListAlerts(_ context.Context, projectID string, filter domain.AlertFilter) ([]domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Alert
	for id := range s.alerts {
		alert := s.alerts[id]
		if alert.ProjectID != projectID || !filter.Matches(&alert) {
			continue
		}
		result = append(result, alert)
	}
	sortAlerts(result)
	return result, nil
}

// sortAlerts orders by chapter, then creation time, then ID for a
// stable listing.
func sortAlerts(alerts []domain.Alert) {
	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Chapter != alerts[j].Chapter {
			return alerts[i].Chapter < alerts[j].Chapter
		}
		if !alerts[i].CreatedAt.Equal(alerts[j].CreatedAt) {
			return alerts[i].CreatedAt.Before(alerts[j].CreatedAt)
		}
		return alerts[i].ID < alerts[j].ID
	})
}
