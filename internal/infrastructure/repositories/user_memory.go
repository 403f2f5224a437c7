package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/marecop/YAweb/domain"
)

// MemoryUserRepository implements domain.UserRepository with an in-process
// map. Constructed explicitly and injected; there is no ambient global store.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
	order []string
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

// Create implements domain.UserRepository.
func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, id := range r.order {
		if strings.ToLower(r.users[id].Email) == email {
			return domain.ErrUserAlreadyExists
		}
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	r.users[user.ID] = *user
	r.order = append(r.order, user.ID)
	return nil
}

// FindByEmail implements domain.UserRepository. The lookup is
// case-insensitive.
func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, id := range r.order {
		if u := r.users[id]; strings.ToLower(u.Email) == email {
			copy := u
			return &copy, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// FindByID implements domain.UserRepository.
func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copy := u
	return &copy, nil
}

// Update implements domain.UserRepository.
func (r *MemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// UpdateProfile implements domain.UserRepository. Only allow-listed profile
// fields are applied.
func (r *MemoryUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	applyProfileUpdate(&u, update)
	u.UpdatedAt = time.Now()
	r.users[id] = u
	copy := u
	return &copy, nil
}

// Delete implements domain.UserRepository.
func (r *MemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List implements domain.UserRepository, in insertion order.
func (r *MemoryUserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out, nil
}

// applyProfileUpdate copies the allow-listed fields. Shared by every backend
// so the mutable-field contract cannot drift between adapters.
func applyProfileUpdate(u *domain.User, update domain.ProfileUpdate) {
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.DateOfBirth != nil {
		u.DateOfBirth = *update.DateOfBirth
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Address != nil {
		u.Address = *update.Address
	}
	if update.Country != nil {
		u.Country = *update.Country
	}
	if update.City != nil {
		u.City = *update.City
	}
	if update.PostalCode != nil {
		u.PostalCode = *update.PostalCode
	}
}

var _ domain.UserRepository = (*MemoryUserRepository)(nil)
