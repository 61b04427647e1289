package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/domain"
)

// SessionRegistry is an in-memory implementation of SessionRepository.
// Sessions are indexed by owner message and, in edit mode, by the selector being edited.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*domain.SelectorSession
	editing  map[snowflake.ID]snowflake.ID // edit target -> owner message
}

// NewSessionRegistry creates a new SessionRegistry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[snowflake.ID]*domain.SelectorSession),
		editing:  make(map[snowflake.ID]snowflake.ID),
	}
}

// Get returns the session owning the given setup message.
func (r *SessionRegistry) Get(ownerMessageID snowflake.ID) (*domain.SelectorSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[ownerMessageID]
	return s, ok
}

// Save registers the session under its owner message.
func (r *SessionRegistry) Save(session *domain.SelectorSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner := session.OwnerMessageID()
	if session.IsEditing() {
		if other, ok := r.editing[session.EditTarget()]; ok && other != owner {
			return domain.ErrEditInProgress
		}
		r.editing[session.EditTarget()] = owner
	}
	r.sessions[owner] = session
	return nil
}

// Delete removes the session owning the given setup message.
func (r *SessionRegistry) Delete(ownerMessageID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[ownerMessageID]
	if !ok {
		return
	}
	if s.IsEditing() && r.editing[s.EditTarget()] == ownerMessageID {
		delete(r.editing, s.EditTarget())
	}
	delete(r.sessions, ownerMessageID)
}

// FindByEditTarget returns the session currently editing the given selector.
func (r *SessionRegistry) FindByEditTarget(messageID snowflake.ID) (*domain.SelectorSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.editing[messageID]
	if !ok {
		return nil, false
	}
	s, ok := r.sessions[owner]
	return s, ok
}

// Count returns the number of sessions (for testing/monitoring).
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Ensure SessionRegistry implements SessionRepository.
var _ domain.SessionRepository = (*SessionRegistry)(nil)
