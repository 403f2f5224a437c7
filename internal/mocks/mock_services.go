package mocks

import (
	"context"

	"github.com/marecop/YAweb/domain"
)

// MockAuthService implements domain.AuthService for handler tests.
type MockAuthService struct {
	RegisterFunc      func(ctx context.Context, email, password, firstName, lastName string) (*domain.SafeUser, string, error)
	LoginFunc         func(ctx context.Context, email, password string) (*domain.SafeUser, string, error)
	CheckSessionFunc  func(ctx context.Context, token string) (*domain.SafeUser, error)
	LogoutFunc        func(ctx context.Context, token string) error
	UpdateProfileFunc func(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.SafeUser, error)
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.SafeUser, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, firstName, lastName)
	}
	return nil, "", domain.ErrInvalidEmail
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.SafeUser, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, "", domain.ErrInvalidCredentials
}

func (m *MockAuthService) CheckSession(ctx context.Context, token string) (*domain.SafeUser, error) {
	if m.CheckSessionFunc != nil {
		return m.CheckSessionFunc(ctx, token)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.SafeUser, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}
	return nil, domain.ErrUserNotFound
}

var _ domain.AuthService = (*MockAuthService)(nil)

// MockBookingService implements domain.BookingService for handler tests.
type MockBookingService struct {
	CreateFunc      func(ctx context.Context, userID string, input domain.BookingInput) (*domain.Booking, error)
	ListForUserFunc func(ctx context.Context, userID string) ([]domain.Booking, error)
	ListAllFunc     func(ctx context.Context) ([]domain.Booking, error)
	GetByIDFunc     func(ctx context.Context, id string) (*domain.Booking, error)
	CancelFunc      func(ctx context.Context, bookingID, requesterID, requesterRole string) (*domain.Booking, error)
	ConfirmFunc     func(ctx context.Context, bookingID, requesterRole string) (*domain.Booking, error)
}

func NewMockBookingService() *MockBookingService {
	return &MockBookingService{}
}

func (m *MockBookingService) Create(ctx context.Context, userID string, input domain.BookingInput) (*domain.Booking, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, input)
	}
	return nil, domain.ErrInvalidBooking
}

func (m *MockBookingService) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBookingService) ListAll(ctx context.Context) ([]domain.Booking, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockBookingService) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingService) Cancel(ctx context.Context, bookingID, requesterID, requesterRole string) (*domain.Booking, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, bookingID, requesterID, requesterRole)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingService) Confirm(ctx context.Context, bookingID, requesterRole string) (*domain.Booking, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, bookingID, requesterRole)
	}
	return nil, domain.ErrBookingNotFound
}

var _ domain.BookingService = (*MockBookingService)(nil)

// MockMileageService implements domain.MileageService for handler tests.
type MockMileageService struct {
	RecordsForFunc      func(ctx context.Context, userID string) ([]domain.MileageRecord, error)
	AwardFunc           func(ctx context.Context, userID string, amount int, description, flightID string) (*domain.MileageRecord, error)
	RedeemFunc          func(ctx context.Context, userID string, amount int, description string) (*domain.MileageRecord, error)
	SummaryFunc         func(ctx context.Context, userID string) (*domain.MileageSummary, error)
	CompletePendingFunc func(ctx context.Context) (int, error)
}

func NewMockMileageService() *MockMileageService {
	return &MockMileageService{}
}

func (m *MockMileageService) RecordsFor(ctx context.Context, userID string) ([]domain.MileageRecord, error) {
	if m.RecordsForFunc != nil {
		return m.RecordsForFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockMileageService) Award(ctx context.Context, userID string, amount int, description, flightID string) (*domain.MileageRecord, error) {
	if m.AwardFunc != nil {
		return m.AwardFunc(ctx, userID, amount, description, flightID)
	}
	return &domain.MileageRecord{UserID: userID, Amount: amount, Type: domain.MileageEarned, Status: domain.MileageCompleted}, nil
}

func (m *MockMileageService) Redeem(ctx context.Context, userID string, amount int, description string) (*domain.MileageRecord, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, userID, amount, description)
	}
	return nil, domain.ErrInsufficientMiles
}

func (m *MockMileageService) Summary(ctx context.Context, userID string) (*domain.MileageSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockMileageService) CompletePending(ctx context.Context) (int, error) {
	if m.CompletePendingFunc != nil {
		return m.CompletePendingFunc(ctx)
	}
	return 0, nil
}

var _ domain.MileageService = (*MockMileageService)(nil)
