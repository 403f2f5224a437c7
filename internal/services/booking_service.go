package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/pkg/logger"
)

// BookingServiceImpl implements domain.BookingService.
type BookingServiceImpl struct {
	bookingRepo domain.BookingRepository
	mileageSvc  domain.MileageService
	producer    domain.EventProducer
	log         logger.Logger
}

// NewBookingService creates the booking service. producer may be nil when
// event publishing is disabled.
func NewBookingService(
	bookingRepo domain.BookingRepository,
	mileageSvc domain.MileageService,
	producer domain.EventProducer,
	log logger.Logger,
) *BookingServiceImpl {
	return &BookingServiceImpl{
		bookingRepo: bookingRepo,
		mileageSvc:  mileageSvc,
		producer:    producer,
		log:         log,
	}
}

// Create implements domain.BookingService.
func (s *BookingServiceImpl) Create(ctx context.Context, userID string, input domain.BookingInput) (*domain.Booking, error) {
	if err := validateBookingInput(input); err != nil {
		return nil, err
	}

	status := domain.BookingStatusPending
	if input.Confirmed {
		status = domain.BookingStatusConfirmed
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:            uuid.NewString(),
		UserID:        userID,
		FlightNumber:  strings.TrimSpace(input.FlightNumber),
		Departure:     strings.TrimSpace(input.Departure),
		Destination:   strings.TrimSpace(input.Destination),
		DepartureDate: input.DepartureDate,
		DepartureTime: input.DepartureTime,
		ReturnDate:    input.ReturnDate,
		ReturnTime:    input.ReturnTime,
		CabinClass:    input.CabinClass,
		Passengers:    input.Passengers,
		TotalPrice:    input.TotalPrice,
		BookingDate:   now,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if status == domain.BookingStatusConfirmed {
		s.accrue(ctx, booking)
	}

	s.publish(ctx, "booking_created", booking)
	s.log.Info("booking created", "bookingId", booking.ID, "userId", userID, "status", booking.Status)
	return booking, nil
}

// ListForUser implements domain.BookingService.
func (s *BookingServiceImpl) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookingRepo.FindByUserID(ctx, userID)
}

// ListAll implements domain.BookingService.
func (s *BookingServiceImpl) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookingRepo.List(ctx)
}

// GetByID implements domain.BookingService. Ownership filtering happens at
// the handler, which hides foreign bookings as not found.
func (s *BookingServiceImpl) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookingRepo.FindByID(ctx, id)
}

// Cancel implements domain.BookingService. Owners and admins may cancel;
// canceling an already-canceled booking is rejected rather than absorbed.
func (s *BookingServiceImpl) Cancel(ctx context.Context, bookingID, requesterID, requesterRole string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if requesterRole != domain.RoleAdmin && booking.UserID != requesterID {
		return nil, domain.ErrBookingAccessDenied
	}
	if booking.Status == domain.BookingStatusCanceled {
		return nil, domain.ErrBookingAlreadyCancelled
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, domain.BookingStatusCanceled)
	if err != nil {
		if errors.Is(err, domain.ErrBookingStatusConflict) {
			// Raced with another transition; re-read to report the truth.
			current, findErr := s.bookingRepo.FindByID(ctx, bookingID)
			if findErr == nil && current.Status == domain.BookingStatusCanceled {
				return nil, domain.ErrBookingAlreadyCancelled
			}
			return nil, domain.ErrBookingStatusConflict
		}
		return nil, err
	}

	s.publish(ctx, "booking_cancelled", updated)
	s.log.Info("booking cancelled", "bookingId", bookingID, "requesterId", requesterID)
	return updated, nil
}

// Confirm implements domain.BookingService. Admin-only; confirming credits
// the owner's mileage account with one mile per currency unit paid.
func (s *BookingServiceImpl) Confirm(ctx context.Context, bookingID, requesterRole string) (*domain.Booking, error) {
	if requesterRole != domain.RoleAdmin {
		return nil, domain.ErrAdminRequired
	}

	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, domain.ErrBookingNotPending
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		if errors.Is(err, domain.ErrBookingStatusConflict) {
			return nil, domain.ErrBookingNotPending
		}
		return nil, err
	}

	s.accrue(ctx, updated)
	s.publish(ctx, "booking_confirmed", updated)
	s.log.Info("booking confirmed", "bookingId", bookingID)
	return updated, nil
}

// accrue credits the booking owner with earned miles. Failure to post the
// record does not undo the confirmation.
func (s *BookingServiceImpl) accrue(ctx context.Context, booking *domain.Booking) {
	miles := int(booking.TotalPrice)
	if miles <= 0 {
		return
	}
	description := fmt.Sprintf("Flight %s: %s to %s", booking.FlightNumber, booking.Departure, booking.Destination)
	if _, err := s.mileageSvc.Award(ctx, booking.UserID, miles, description, booking.ID); err != nil {
		s.log.Error("failed to award miles", "bookingId", booking.ID, "error", err)
	}
}

func (s *BookingServiceImpl) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil {
		return
	}
	event := domain.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		FlightNumber: booking.FlightNumber,
		Status:       booking.Status,
		OccurredAt:   time.Now(),
	}
	if err := s.producer.Publish(ctx, booking.ID, event); err != nil {
		s.log.Error("failed to publish booking event", "type", eventType, "bookingId", booking.ID, "error", err)
	}
}

func validateBookingInput(input domain.BookingInput) error {
	if strings.TrimSpace(input.FlightNumber) == "" ||
		strings.TrimSpace(input.Departure) == "" ||
		strings.TrimSpace(input.Destination) == "" ||
		strings.TrimSpace(input.DepartureDate) == "" {
		return domain.ErrInvalidBooking
	}
	if !domain.ValidCabinClass(input.CabinClass) {
		return domain.ErrInvalidBooking
	}
	if input.TotalPrice < 0 {
		return domain.ErrInvalidBooking
	}
	total := 0
	for _, p := range input.Passengers {
		if p.Count < 0 {
			return domain.ErrInvalidBooking
		}
		total += p.Count
	}
	if total == 0 {
		return domain.ErrInvalidBooking
	}
	return nil
}

var _ domain.BookingService = (*BookingServiceImpl)(nil)
