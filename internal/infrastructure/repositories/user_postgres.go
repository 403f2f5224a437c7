package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/marecop/YAweb/domain"
)

// GormUserRepository implements domain.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// DBUser is the database model for User (with GORM tags).
type DBUser struct {
	ID           string `gorm:"primaryKey;size:64"`
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string `gorm:"column:password"`
	FirstName    string `gorm:"size:128"`
	LastName     string `gorm:"size:128"`
	Role         string `gorm:"index;size:32"`
	TotalMiles   int
	MemberLevel  string `gorm:"size:32"`
	IsMember     bool
	DateOfBirth  string `gorm:"size:32"`
	Phone        string `gorm:"size:32"`
	Address      string `gorm:"size:255"`
	Country      string `gorm:"size:64"`
	City         string `gorm:"size:64"`
	PostalCode   string `gorm:"size:32"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM.
func (DBUser) TableName() string {
	return "users"
}

// NewGormUserRepository creates a user repository on a GORM database.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create implements domain.UserRepository.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(userToDB(user)).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrUserAlreadyExists
	}
	return err
}

// FindByEmail implements domain.UserRepository.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return dbUserToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository.
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return dbUserToDomain(&dbUser), nil
}

// Update implements domain.UserRepository.
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(userToDB(user)).Error
}

// UpdateProfile implements domain.UserRepository.
func (r *GormUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	cols := map[string]any{}
	if update.FirstName != nil {
		cols["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		cols["last_name"] = *update.LastName
	}
	if update.DateOfBirth != nil {
		cols["date_of_birth"] = *update.DateOfBirth
	}
	if update.Phone != nil {
		cols["phone"] = *update.Phone
	}
	if update.Address != nil {
		cols["address"] = *update.Address
	}
	if update.Country != nil {
		cols["country"] = *update.Country
	}
	if update.City != nil {
		cols["city"] = *update.City
	}
	if update.PostalCode != nil {
		cols["postal_code"] = *update.PostalCode
	}

	if len(cols) > 0 {
		result := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Updates(cols)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, domain.ErrUserNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Delete implements domain.UserRepository.
func (r *GormUserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBUser{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List implements domain.UserRepository.
func (r *GormUserRepository) List(ctx context.Context) ([]domain.User, error) {
	var dbUsers []DBUser
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&dbUsers).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(dbUsers))
	for i := range dbUsers {
		users = append(users, *dbUserToDomain(&dbUsers[i]))
	}
	return users, nil
}

func userToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:           user.ID,
		Email:        strings.ToLower(user.Email),
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
		TotalMiles:   user.TotalMiles,
		MemberLevel:  string(user.MemberLevel),
		IsMember:     user.IsMember,
		DateOfBirth:  user.DateOfBirth,
		Phone:        user.Phone,
		Address:      user.Address,
		Country:      user.Country,
		City:         user.City,
		PostalCode:   user.PostalCode,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func dbUserToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:           dbUser.ID,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		FirstName:    dbUser.FirstName,
		LastName:     dbUser.LastName,
		Role:         dbUser.Role,
		TotalMiles:   dbUser.TotalMiles,
		MemberLevel:  domain.Tier(dbUser.MemberLevel),
		IsMember:     dbUser.IsMember,
		DateOfBirth:  dbUser.DateOfBirth,
		Phone:        dbUser.Phone,
		Address:      dbUser.Address,
		Country:      dbUser.Country,
		City:         dbUser.City,
		PostalCode:   dbUser.PostalCode,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}

var _ domain.UserRepository = (*GormUserRepository)(nil)
