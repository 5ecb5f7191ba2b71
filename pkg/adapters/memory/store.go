// Package memory provides the default in-process SnapshotStore.
package memory

import (
	"context"
	"sync"

	"github.com/drumtwinlabs/drumtwin/pkg/domain"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]*domain.Snapshot)}
}

// Save publishes the snapshot, replacing any previous one.
func (s *Store) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	// Copy so the caller can't mutate the published snapshot by pointer.
	copied := *snap
	copied.Alarms = append([]string(nil), snap.Alarms...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = &copied
	return nil
}

// Load retrieves the last published snapshot.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	ret := *snap
	ret.Alarms = append([]string(nil), snap.Alarms...)
	return &ret, nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns session IDs with a published snapshot.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
