package services

import (
	"context"
	"errors"
	"testing"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/internal/mocks"
	"github.com/marecop/YAweb/pkg/logger"
)

func newMileageServiceForTest(
	mileageRepo *mocks.MockMileageRepository,
	userRepo *mocks.MockUserRepository,
) *MileageServiceImpl {
	if mileageRepo == nil {
		mileageRepo = mocks.NewMockMileageRepository()
	}
	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	return NewMileageService(mileageRepo, userRepo, logger.NewNop())
}

func TestMileageServiceImpl_Award(t *testing.T) {
	tests := []struct {
		name          string
		amount        int
		expectedError error
	}{
		{name: "positive amount", amount: 1500},
		{name: "zero amount rejected", amount: 0, expectedError: domain.ErrInvalidMileage},
		{name: "negative amount rejected", amount: -5, expectedError: domain.ErrInvalidMileage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *domain.MileageRecord
			mileageRepo := mocks.NewMockMileageRepository()
			mileageRepo.CreateFunc = func(ctx context.Context, record *domain.MileageRecord) error {
				created = record
				return nil
			}

			svc := newMileageServiceForTest(mileageRepo, nil)
			record, err := svc.Award(context.Background(), "u1", tt.amount, "Flight YA101", "b1")

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if created != nil {
					t.Error("invalid award must not reach the store")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if record.Type != domain.MileageEarned {
				t.Errorf("expected earned record, got %s", record.Type)
			}
			if record.Status != domain.MileageCompleted {
				t.Errorf("awards post completed, got %s", record.Status)
			}
			if record.FlightID != "b1" {
				t.Errorf("expected flight id b1, got %s", record.FlightID)
			}
		})
	}
}

func TestMileageServiceImpl_Award_SyncsTier(t *testing.T) {
	user := &domain.User{ID: "u1", TotalMiles: 24000, MemberLevel: domain.TierStandard}

	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		return user, nil
	}
	var updated *domain.User
	userRepo.UpdateFunc = func(ctx context.Context, u *domain.User) error {
		updated = u
		return nil
	}

	mileageRepo := mocks.NewMockMileageRepository()
	mileageRepo.CompletedBalanceFunc = func(ctx context.Context, userID string) (int, error) {
		return 26000, nil
	}

	svc := newMileageServiceForTest(mileageRepo, userRepo)
	if _, err := svc.Award(context.Background(), "u1", 2000, "Flight", "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated == nil {
		t.Fatal("expected the user record to be updated")
	}
	if updated.TotalMiles != 26000 {
		t.Errorf("expected total 26000, got %d", updated.TotalMiles)
	}
	// 26000 crosses the silver threshold.
	if updated.MemberLevel != domain.TierSilver {
		t.Errorf("expected silver tier, got %s", updated.MemberLevel)
	}
}

func TestMileageServiceImpl_Redeem(t *testing.T) {
	tests := []struct {
		name          string
		balance       int
		amount        int
		expectedError error
	}{
		{name: "sufficient balance", balance: 5000, amount: 3000},
		{name: "exact balance", balance: 3000, amount: 3000},
		{name: "insufficient balance", balance: 1000, amount: 3000, expectedError: domain.ErrInsufficientMiles},
		{name: "zero amount", balance: 5000, amount: 0, expectedError: domain.ErrInvalidMileage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mileageRepo := mocks.NewMockMileageRepository()
			mileageRepo.CompletedBalanceFunc = func(ctx context.Context, userID string) (int, error) {
				return tt.balance, nil
			}
			userRepo := mocks.NewMockUserRepository()
			userRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id}, nil
			}

			svc := newMileageServiceForTest(mileageRepo, userRepo)
			record, err := svc.Redeem(context.Background(), "u1", tt.amount, "Upgrade")

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if record.Type != domain.MileageUsed {
				t.Errorf("expected used record, got %s", record.Type)
			}
		})
	}
}

func TestMileageServiceImpl_Summary(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		return &domain.User{ID: id, TotalMiles: 120000}, nil
	}

	svc := newMileageServiceForTest(nil, userRepo)
	summary, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.MemberLevel != domain.TierDiamond {
		t.Errorf("expected diamond, got %s", summary.MemberLevel)
	}
	if summary.DisplayName != "Diamond Card Member" {
		t.Errorf("unexpected display name %q", summary.DisplayName)
	}
	if summary.MarketingName != "Platinum" {
		t.Errorf("unexpected marketing name %q", summary.MarketingName)
	}
	if len(summary.Benefits) == 0 {
		t.Error("expected benefits list")
	}
}

func TestMileageServiceImpl_CompletePending(t *testing.T) {
	records := []domain.MileageRecord{
		{ID: "m1", UserID: "u1", Amount: 100, Type: domain.MileageEarned, Status: domain.MileagePending},
		{ID: "m2", UserID: "u1", Amount: 200, Type: domain.MileageEarned, Status: domain.MileageCompleted},
		{ID: "m3", UserID: "u2", Amount: 300, Type: domain.MileageEarned, Status: domain.MileagePending},
	}

	var flipped []string
	mileageRepo := mocks.NewMockMileageRepository()
	mileageRepo.ListFunc = func(ctx context.Context) ([]domain.MileageRecord, error) {
		return records, nil
	}
	mileageRepo.UpdateStatusFunc = func(ctx context.Context, id string, status domain.MileageStatus) (*domain.MileageRecord, error) {
		flipped = append(flipped, id)
		return &domain.MileageRecord{ID: id, Status: status}, nil
	}

	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		return &domain.User{ID: id}, nil
	}

	svc := newMileageServiceForTest(mileageRepo, userRepo)
	n, err := svc.CompletePending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 completed, got %d", n)
	}
	if len(flipped) != 2 {
		t.Errorf("expected 2 status flips, got %v", flipped)
	}
}
