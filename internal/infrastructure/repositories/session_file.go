package repositories

import (
	"context"
	"time"

	"github.com/marecop/YAweb/domain"
)

const sessionsFile = "sessions.json"

// FileSessionRepository implements domain.SessionRepository over a flat JSON
// file. Sessions reuse domain.Session's own JSON shape.
type FileSessionRepository struct {
	col *fileCollection
}

// NewFileSessionRepository creates a session store backed by
// <dir>/sessions.json.
func NewFileSessionRepository(dir string) (*FileSessionRepository, error) {
	col, err := newFileCollection(dir, sessionsFile)
	if err != nil {
		return nil, err
	}
	return &FileSessionRepository{col: col}, nil
}

// Create implements domain.SessionRepository.
func (r *FileSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var sessions []domain.Session
	if err := r.col.load(&sessions); err != nil {
		return err
	}
	sessions = append(sessions, *session)
	return r.col.save(sessions)
}

// FindByToken implements domain.SessionRepository. An expired session is
// removed from the file and reported as not found.
func (r *FileSessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var sessions []domain.Session
	if err := r.col.load(&sessions); err != nil {
		return nil, err
	}
	for i, s := range sessions {
		if s.Token != token {
			continue
		}
		if s.Expired(time.Now()) {
			sessions = append(sessions[:i], sessions[i+1:]...)
			if err := r.col.save(sessions); err != nil {
				return nil, err
			}
			return nil, domain.ErrSessionNotFound
		}
		copy := s
		return &copy, nil
	}
	return nil, domain.ErrSessionNotFound
}

// Delete implements domain.SessionRepository.
func (r *FileSessionRepository) Delete(ctx context.Context, token string) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var sessions []domain.Session
	if err := r.col.load(&sessions); err != nil {
		return err
	}
	for i, s := range sessions {
		if s.Token == token {
			sessions = append(sessions[:i], sessions[i+1:]...)
			return r.col.save(sessions)
		}
	}
	return nil
}

// DeleteExpired implements domain.SessionRepository.
func (r *FileSessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var sessions []domain.Session
	if err := r.col.load(&sessions); err != nil {
		return 0, err
	}

	now := time.Now()
	kept := sessions[:0]
	count := 0
	for _, s := range sessions {
		if s.Expired(now) {
			count++
			continue
		}
		kept = append(kept, s)
	}
	if count == 0 {
		return 0, nil
	}
	if err := r.col.save(kept); err != nil {
		return 0, err
	}
	return count, nil
}

var _ domain.SessionRepository = (*FileSessionRepository)(nil)
