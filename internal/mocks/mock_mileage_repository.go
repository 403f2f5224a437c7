package mocks

import (
	"context"

	"github.com/marecop/YAweb/domain"
)

// MockMileageRepository implements domain.MileageRepository for testing.
type MockMileageRepository struct {
	CreateFunc           func(ctx context.Context, record *domain.MileageRecord) error
	FindByUserIDFunc     func(ctx context.Context, userID string) ([]domain.MileageRecord, error)
	ListFunc             func(ctx context.Context) ([]domain.MileageRecord, error)
	UpdateStatusFunc     func(ctx context.Context, id string, status domain.MileageStatus) (*domain.MileageRecord, error)
	CompletedBalanceFunc func(ctx context.Context, userID string) (int, error)
}

// NewMockMileageRepository creates a MockMileageRepository with default behaviors.
func NewMockMileageRepository() *MockMileageRepository {
	return &MockMileageRepository{}
}

func (m *MockMileageRepository) Create(ctx context.Context, record *domain.MileageRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	return nil
}

func (m *MockMileageRepository) FindByUserID(ctx context.Context, userID string) ([]domain.MileageRecord, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockMileageRepository) List(ctx context.Context) ([]domain.MileageRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockMileageRepository) UpdateStatus(ctx context.Context, id string, status domain.MileageStatus) (*domain.MileageRecord, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil, domain.ErrMileageNotFound
}

func (m *MockMileageRepository) CompletedBalance(ctx context.Context, userID string) (int, error) {
	if m.CompletedBalanceFunc != nil {
		return m.CompletedBalanceFunc(ctx, userID)
	}
	return 0, nil
}

var _ domain.MileageRepository = (*MockMileageRepository)(nil)
