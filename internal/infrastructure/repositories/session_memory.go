package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/marecop/YAweb/domain"
)

// MemorySessionRepository implements domain.SessionRepository in process
// memory. Used standalone in the in-memory backend and as the degraded-mode
// fallback when redis is unreachable.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewMemorySessionRepository creates an empty in-memory session store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]domain.Session)}
}

// Create implements domain.SessionRepository.
func (r *MemorySessionRepository) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token] = *session
	return nil
}

// FindByToken implements domain.SessionRepository. An expired session is
// evicted and reported as not found.
func (r *MemorySessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.Expired(time.Now()) {
		delete(r.sessions, token)
		return nil, domain.ErrSessionNotFound
	}
	copy := s
	return &copy, nil
}

// Delete implements domain.SessionRepository. Deleting an absent token is
// not an error.
func (r *MemorySessionRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// DeleteExpired implements domain.SessionRepository.
func (r *MemorySessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	count := 0
	for token, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, token)
			count++
		}
	}
	return count, nil
}

var _ domain.SessionRepository = (*MemorySessionRepository)(nil)
