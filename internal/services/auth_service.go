package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/pkg/logger"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// seedAccount is a bootstrap login provisioned lazily the first time its
// email authenticates against an empty store.
type seedAccount struct {
	id        string
	password  string
	firstName string
	lastName  string
	role      string
}

var seedAccounts = map[string]seedAccount{
	"admin@yellairlines.com": {
		id:        "admin1",
		password:  "admin123",
		firstName: "Admin",
		lastName:  "User",
		role:      domain.RoleAdmin,
	},
	"test@example.com": {
		id:        "1",
		password:  "password123",
		firstName: "Test",
		lastName:  "User",
		role:      domain.RoleUser,
	},
}

// AuthServiceImpl implements domain.AuthService.
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	sessionTTL  time.Duration
	log         logger.Logger
}

// NewAuthService creates the authentication service. sessionTTL bounds the
// validity window stamped on every new session.
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	sessionTTL time.Duration,
	log logger.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		sessionTTL:  sessionTTL,
		log:         log,
	}
}

// Register implements domain.AuthService. A successful registration logs the
// new account in immediately and returns its session token.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.SafeUser, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, "", domain.ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, "", domain.ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         domain.RoleUser,
		TotalMiles:   0,
		MemberLevel:  domain.TierStandard,
		IsMember:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, "", domain.ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user registered", "userId", user.ID, "email", user.Email)
	return domain.NewSafeUser(user), token, nil
}

// Login implements domain.AuthService. Each login opens a fresh session;
// existing sessions for the same account stay valid.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.SafeUser, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", fmt.Errorf("failed to look up user: %w", err)
		}
		user, err = s.provisionSeedAccount(ctx, email)
		if err != nil {
			return nil, "", err
		}
		if user == nil {
			return nil, "", domain.ErrInvalidCredentials
		}
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user logged in", "userId", user.ID)
	return domain.NewSafeUser(user), token, nil
}

// CheckSession implements domain.AuthService.
func (s *AuthServiceImpl) CheckSession(ctx context.Context, token string) (*domain.SafeUser, error) {
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Account deleted out from under a live session.
			s.sessionRepo.Delete(ctx, token)
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to look up session user: %w", err)
	}

	return domain.NewSafeUser(user), nil
}

// Logout implements domain.AuthService. Logging out an unknown token is not
// an error.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// UpdateProfile implements domain.AuthService.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.SafeUser, error) {
	user, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return domain.NewSafeUser(user), nil
}

func (s *AuthServiceImpl) openSession(ctx context.Context, userID string) (string, error) {
	token, err := s.tokenSvc.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// provisionSeedAccount creates the built-in demo accounts on first login.
// Returns (nil, nil) when the email is not a seed account.
func (s *AuthServiceImpl) provisionSeedAccount(ctx context.Context, email string) (*domain.User, error) {
	seed, ok := seedAccounts[email]
	if !ok {
		return nil, nil
	}

	hashedPassword, err := s.passwordSvc.Hash(seed.password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           seed.id,
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    seed.firstName,
		LastName:     seed.lastName,
		Role:         seed.role,
		MemberLevel:  domain.TierStandard,
		IsMember:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first login.
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return s.userRepo.FindByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to provision seed account: %w", err)
	}

	s.log.Info("seed account provisioned", "userId", user.ID)
	return user, nil
}

var _ domain.AuthService = (*AuthServiceImpl)(nil)
