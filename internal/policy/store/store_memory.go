package store

import (
	"context"
	"sync"

	"pwpolicy/internal/policy/models"
)

// InMemoryStore keeps history in process. Used for local runs and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string][]models.HistoryRecord
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string][]models.HistoryRecord),
	}
}

func (s *InMemoryStore) Exists(_ context.Context, userID, fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records[userID] {
		if r.Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) Insert(_ context.Context, record models.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.UserID] = append(s.records[record.UserID], record)
	return nil
}

// Records returns a copy of userID's history in insertion order.
func (s *InMemoryStore) Records(userID string) []models.HistoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryRecord, len(s.records[userID]))
	copy(out, s.records[userID])
	return out
}
