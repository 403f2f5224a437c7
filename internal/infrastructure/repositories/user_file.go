package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/marecop/YAweb/domain"
)

// usersFile is the on-disk collection name, one JSON array of users.
const usersFile = "users.json"

// fileUser is the JSON representation of a user on disk. The password field
// holds the bcrypt hash.
type fileUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        string    `json:"role"`
	TotalMiles  int       `json:"totalMiles"`
	MemberLevel string    `json:"memberLevel,omitempty"`
	IsMember    bool      `json:"isMember"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Country     string    `json:"country,omitempty"`
	City        string    `json:"city,omitempty"`
	PostalCode  string    `json:"postalCode,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func userToFile(u *domain.User) fileUser {
	return fileUser{
		ID:          u.ID,
		Email:       u.Email,
		Password:    u.PasswordHash,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		TotalMiles:  u.TotalMiles,
		MemberLevel: string(u.MemberLevel),
		IsMember:    u.IsMember,
		DateOfBirth: u.DateOfBirth,
		Phone:       u.Phone,
		Address:     u.Address,
		Country:     u.Country,
		City:        u.City,
		PostalCode:  u.PostalCode,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (f fileUser) toDomain() domain.User {
	return domain.User{
		ID:           f.ID,
		Email:        f.Email,
		PasswordHash: f.Password,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Role:         f.Role,
		TotalMiles:   f.TotalMiles,
		MemberLevel:  domain.Tier(f.MemberLevel),
		IsMember:     f.IsMember,
		DateOfBirth:  f.DateOfBirth,
		Phone:        f.Phone,
		Address:      f.Address,
		Country:      f.Country,
		City:         f.City,
		PostalCode:   f.PostalCode,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// FileUserRepository implements domain.UserRepository over a flat JSON file.
type FileUserRepository struct {
	col *fileCollection
}

// NewFileUserRepository creates a user store backed by <dir>/users.json.
func NewFileUserRepository(dir string) (*FileUserRepository, error) {
	col, err := newFileCollection(dir, usersFile)
	if err != nil {
		return nil, err
	}
	return &FileUserRepository{col: col}, nil
}

// Create implements domain.UserRepository.
func (r *FileUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var users []fileUser
	if err := r.col.load(&users); err != nil {
		return err
	}

	email := strings.ToLower(user.Email)
	for _, u := range users {
		if strings.ToLower(u.Email) == email {
			return domain.ErrUserAlreadyExists
		}
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	users = append(users, userToFile(user))
	return r.col.save(users)
}

// FindByEmail implements domain.UserRepository.
func (r *FileUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var users []fileUser
	if err := r.col.load(&users); err != nil {
		return nil, err
	}

	email = strings.ToLower(email)
	for _, u := range users {
		if strings.ToLower(u.Email) == email {
			du := u.toDomain()
			return &du, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// FindByID implements domain.UserRepository.
func (r *FileUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var users []fileUser
	if err := r.col.load(&users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			du := u.toDomain()
			return &du, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Update implements domain.UserRepository.
func (r *FileUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var users []fileUser
	if err := r.col.load(&users); err != nil {
		return err
	}
	for i, u := range users {
		if u.ID == user.ID {
			user.UpdatedAt = time.Now()
			users[i] = userToFile(user)
			return r.col.save(users)
		}
	}
	return domain.ErrUserNotFound
}

// UpdateProfile implements domain.UserRepository.
func (r *FileUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var users []fileUser
	if err := r.col.load(&users); err != nil {
		return nil, err
	}
	for i, u := range users {
		if u.ID == id {
			du := u.toDomain()
			applyProfileUpdate(&du, update)
			du.UpdatedAt = time.Now()
			users[i] = userToFile(&du)
			if err := r.col.save(users); err != nil {
				return nil, err
			}
			return &du, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Delete implements domain.UserRepository.
func (r *FileUserRepository) Delete(ctx context.Context, id string) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var users []fileUser
	if err := r.col.load(&users); err != nil {
		return err
	}
	for i, u := range users {
		if u.ID == id {
			users = append(users[:i], users[i+1:]...)
			return r.col.save(users)
		}
	}
	return domain.ErrUserNotFound
}

// List implements domain.UserRepository.
func (r *FileUserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var users []fileUser
	if err := r.col.load(&users); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.toDomain())
	}
	return out, nil
}

var _ domain.UserRepository = (*FileUserRepository)(nil)
