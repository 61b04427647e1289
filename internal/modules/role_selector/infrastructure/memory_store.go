package infrastructure

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

// MemoryStore is an in-memory implementation of SelectorRepository.
// Records do not survive a restart.
type MemoryStore struct {
	mu        sync.RWMutex
	selectors map[snowflake.ID]domain.PersistedSelector
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		selectors: make(map[snowflake.ID]domain.PersistedSelector),
	}
}

// Insert stores the selector. Existing records are left untouched.
func (s *MemoryStore) Insert(_ context.Context, selector domain.PersistedSelector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selectors[selector.MessageID]; !ok {
		s.selectors[selector.MessageID] = selector
	}
	return nil
}

// Exists reports whether the message is a live selector.
func (s *MemoryStore) Exists(_ context.Context, messageID snowflake.ID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.selectors[messageID]
	return ok, nil
}

// Delete removes the selector record.
func (s *MemoryStore) Delete(_ context.Context, messageID snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.selectors, messageID)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements SelectorRepository.
var _ domain.SelectorRepository = (*MemoryStore)(nil)
