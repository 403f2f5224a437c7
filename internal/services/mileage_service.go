package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/pkg/logger"
)

// MileageServiceImpl implements domain.MileageService. It owns the mileage
// ledger and keeps the derived tier on the user record in step with the
// completed balance.
type MileageServiceImpl struct {
	mileageRepo domain.MileageRepository
	userRepo    domain.UserRepository
	log         logger.Logger
}

// NewMileageService creates the mileage service.
func NewMileageService(
	mileageRepo domain.MileageRepository,
	userRepo domain.UserRepository,
	log logger.Logger,
) *MileageServiceImpl {
	return &MileageServiceImpl{
		mileageRepo: mileageRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

// RecordsFor implements domain.MileageService.
func (s *MileageServiceImpl) RecordsFor(ctx context.Context, userID string) ([]domain.MileageRecord, error) {
	return s.mileageRepo.FindByUserID(ctx, userID)
}

// Award implements domain.MileageService. The record posts as completed and
// the owner's total and tier update immediately.
func (s *MileageServiceImpl) Award(ctx context.Context, userID string, amount int, description, flightID string) (*domain.MileageRecord, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidMileage
	}

	record := &domain.MileageRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Type:        domain.MileageEarned,
		Description: description,
		Date:        time.Now(),
		Status:      domain.MileageCompleted,
		FlightID:    flightID,
	}
	if err := s.mileageRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create mileage record: %w", err)
	}

	if err := s.syncUserTier(ctx, userID); err != nil {
		s.log.Error("failed to sync tier after award", "userId", userID, "error", err)
	}
	return record, nil
}

// Redeem implements domain.MileageService. Redemption fails when the
// completed balance cannot cover the amount.
func (s *MileageServiceImpl) Redeem(ctx context.Context, userID string, amount int, description string) (*domain.MileageRecord, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidMileage
	}

	balance, err := s.mileageRepo.CompletedBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	if balance < amount {
		return nil, domain.ErrInsufficientMiles
	}

	record := &domain.MileageRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Type:        domain.MileageUsed,
		Description: description,
		Date:        time.Now(),
		Status:      domain.MileageCompleted,
	}
	if err := s.mileageRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create mileage record: %w", err)
	}

	if err := s.syncUserTier(ctx, userID); err != nil {
		s.log.Error("failed to sync tier after redemption", "userId", userID, "error", err)
	}
	return record, nil
}

// Summary implements domain.MileageService.
func (s *MileageServiceImpl) Summary(ctx context.Context, userID string) (*domain.MileageSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tier := domain.TierForMiles(user.TotalMiles)
	return &domain.MileageSummary{
		TotalMiles:    user.TotalMiles,
		MemberLevel:   tier,
		DisplayName:   domain.DisplayName(tier),
		MarketingName: domain.MarketingName(tier),
		Benefits:      domain.Benefits(tier),
	}, nil
}

// CompletePending implements domain.MileageService. The background worker
// calls this to flip pending postings to completed and refresh the affected
// users' tiers. Returns the number of records completed.
func (s *MileageServiceImpl) CompletePending(ctx context.Context) (int, error) {
	records, err := s.mileageRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list mileage records: %w", err)
	}

	completed := 0
	touched := map[string]struct{}{}
	for _, record := range records {
		if record.Status != domain.MileagePending {
			continue
		}
		if _, err := s.mileageRepo.UpdateStatus(ctx, record.ID, domain.MileageCompleted); err != nil {
			if errors.Is(err, domain.ErrMileageNotFound) {
				continue
			}
			return completed, fmt.Errorf("failed to complete record %s: %w", record.ID, err)
		}
		completed++
		touched[record.UserID] = struct{}{}
	}

	for userID := range touched {
		if err := s.syncUserTier(ctx, userID); err != nil {
			s.log.Error("failed to sync tier after sweep", "userId", userID, "error", err)
		}
	}
	return completed, nil
}

// syncUserTier recomputes the stored mileage total and tier from the ledger.
func (s *MileageServiceImpl) syncUserTier(ctx context.Context, userID string) error {
	balance, err := s.mileageRepo.CompletedBalance(ctx, userID)
	if err != nil {
		return err
	}
	if balance < 0 {
		balance = 0
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	tier := domain.TierForMiles(balance)
	if user.TotalMiles == balance && user.MemberLevel == tier {
		return nil
	}
	user.TotalMiles = balance
	user.MemberLevel = tier
	user.UpdatedAt = time.Now()
	return s.userRepo.Update(ctx, user)
}

var _ domain.MileageService = (*MileageServiceImpl)(nil)
