package mocks

import (
	"context"

	"github.com/marecop/YAweb/domain"
)

// MockBookingRepository implements domain.BookingRepository for testing.
type MockBookingRepository struct {
	CreateFunc       func(ctx context.Context, booking *domain.Booking) error
	FindByIDFunc     func(ctx context.Context, id string) (*domain.Booking, error)
	FindByUserIDFunc func(ctx context.Context, userID string) ([]domain.Booking, error)
	ListFunc         func(ctx context.Context) ([]domain.Booking, error)
	UpdateStatusFunc func(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error)
}

// NewMockBookingRepository creates a MockBookingRepository with default behaviors.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{}
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, from, to)
	}
	return nil, domain.ErrBookingNotFound
}

var _ domain.BookingRepository = (*MockBookingRepository)(nil)
