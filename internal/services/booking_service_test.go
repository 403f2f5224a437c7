package services

import (
	"context"
	"errors"
	"testing"

	"github.com/marecop/YAweb/domain"
	"github.com/marecop/YAweb/internal/mocks"
	"github.com/marecop/YAweb/pkg/logger"
)

func validBookingInput() domain.BookingInput {
	return domain.BookingInput{
		FlightNumber:  "YA101",
		Departure:     "LHR",
		Destination:   "JFK",
		DepartureDate: "2026-09-15",
		CabinClass:    domain.CabinEconomy,
		Passengers:    []domain.PassengerCount{{Label: "adult", Count: 1}},
		TotalPrice:    850,
	}
}

func newBookingServiceForTest(
	bookingRepo *mocks.MockBookingRepository,
	mileageSvc *mocks.MockMileageService,
	producer *mocks.MockEventProducer,
) *BookingServiceImpl {
	if bookingRepo == nil {
		bookingRepo = mocks.NewMockBookingRepository()
	}
	if mileageSvc == nil {
		mileageSvc = mocks.NewMockMileageService()
	}
	var p domain.EventProducer
	if producer != nil {
		p = producer
	}
	return NewBookingService(bookingRepo, mileageSvc, p, logger.NewNop())
}

func TestBookingServiceImpl_Create(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(*domain.BookingInput)
		expectedError  error
		expectedStatus domain.BookingStatus
	}{
		{
			name:           "valid booking starts pending",
			mutate:         func(input *domain.BookingInput) {},
			expectedStatus: domain.BookingStatusPending,
		},
		{
			name:           "instant purchase starts confirmed",
			mutate:         func(input *domain.BookingInput) { input.Confirmed = true },
			expectedStatus: domain.BookingStatusConfirmed,
		},
		{
			name:          "missing flight number",
			mutate:        func(input *domain.BookingInput) { input.FlightNumber = "  " },
			expectedError: domain.ErrInvalidBooking,
		},
		{
			name:          "missing destination",
			mutate:        func(input *domain.BookingInput) { input.Destination = "" },
			expectedError: domain.ErrInvalidBooking,
		},
		{
			name:          "bad cabin class",
			mutate:        func(input *domain.BookingInput) { input.CabinClass = "premium-plus" },
			expectedError: domain.ErrInvalidBooking,
		},
		{
			name:          "negative price",
			mutate:        func(input *domain.BookingInput) { input.TotalPrice = -10 },
			expectedError: domain.ErrInvalidBooking,
		},
		{
			name:          "no passengers",
			mutate:        func(input *domain.BookingInput) { input.Passengers = nil },
			expectedError: domain.ErrInvalidBooking,
		},
		{
			name: "zero passenger total",
			mutate: func(input *domain.BookingInput) {
				input.Passengers = []domain.PassengerCount{{Label: "adult", Count: 0}}
			},
			expectedError: domain.ErrInvalidBooking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *domain.Booking
			bookingRepo := mocks.NewMockBookingRepository()
			bookingRepo.CreateFunc = func(ctx context.Context, booking *domain.Booking) error {
				created = booking
				return nil
			}

			svc := newBookingServiceForTest(bookingRepo, nil, nil)
			input := validBookingInput()
			tt.mutate(&input)

			booking, err := svc.Create(context.Background(), "u1", input)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if created != nil {
					t.Error("invalid input must not reach the store")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if booking.Status != tt.expectedStatus {
				t.Errorf("expected status %s, got %s", tt.expectedStatus, booking.Status)
			}
			if booking.UserID != "u1" {
				t.Errorf("expected owner u1, got %s", booking.UserID)
			}
			if booking.ID == "" {
				t.Error("expected generated booking id")
			}
		})
	}
}

func TestBookingServiceImpl_Create_InstantPurchaseAwardsMiles(t *testing.T) {
	var awarded int
	mileageSvc := mocks.NewMockMileageService()
	mileageSvc.AwardFunc = func(ctx context.Context, userID string, amount int, description, flightID string) (*domain.MileageRecord, error) {
		awarded = amount
		return &domain.MileageRecord{UserID: userID, Amount: amount}, nil
	}

	svc := newBookingServiceForTest(nil, mileageSvc, nil)
	input := validBookingInput()
	input.Confirmed = true
	input.TotalPrice = 1234.99

	if _, err := svc.Create(context.Background(), "u1", input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Fractional currency truncates.
	if awarded != 1234 {
		t.Errorf("expected 1234 miles awarded, got %d", awarded)
	}
}

func TestBookingServiceImpl_Cancel(t *testing.T) {
	tests := []struct {
		name          string
		bookingStatus domain.BookingStatus
		bookingOwner  string
		requesterID   string
		requesterRole string
		expectedError error
	}{
		{
			name:          "owner cancels pending booking",
			bookingStatus: domain.BookingStatusPending,
			bookingOwner:  "u1",
			requesterID:   "u1",
			requesterRole: domain.RoleUser,
		},
		{
			name:          "owner cancels confirmed booking",
			bookingStatus: domain.BookingStatusConfirmed,
			bookingOwner:  "u1",
			requesterID:   "u1",
			requesterRole: domain.RoleUser,
		},
		{
			name:          "admin cancels someone else's booking",
			bookingStatus: domain.BookingStatusPending,
			bookingOwner:  "u1",
			requesterID:   "admin1",
			requesterRole: domain.RoleAdmin,
		},
		{
			name:          "stranger denied",
			bookingStatus: domain.BookingStatusPending,
			bookingOwner:  "u1",
			requesterID:   "u2",
			requesterRole: domain.RoleUser,
			expectedError: domain.ErrBookingAccessDenied,
		},
		{
			name:          "already canceled rejected",
			bookingStatus: domain.BookingStatusCanceled,
			bookingOwner:  "u1",
			requesterID:   "u1",
			requesterRole: domain.RoleUser,
			expectedError: domain.ErrBookingAlreadyCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var transitioned bool
			bookingRepo := mocks.NewMockBookingRepository()
			bookingRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
				return &domain.Booking{ID: id, UserID: tt.bookingOwner, Status: tt.bookingStatus}, nil
			}
			bookingRepo.UpdateStatusFunc = func(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
				transitioned = true
				return &domain.Booking{ID: id, UserID: tt.bookingOwner, Status: to}, nil
			}

			svc := newBookingServiceForTest(bookingRepo, nil, nil)
			booking, err := svc.Cancel(context.Background(), "b1", tt.requesterID, tt.requesterRole)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if transitioned {
					t.Error("denied cancel must not change state")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if booking.Status != domain.BookingStatusCanceled {
				t.Errorf("expected canceled, got %s", booking.Status)
			}
		})
	}
}

func TestBookingServiceImpl_Cancel_RaceReportsAlreadyCancelled(t *testing.T) {
	status := domain.BookingStatusPending
	bookingRepo := mocks.NewMockBookingRepository()
	bookingRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
		return &domain.Booking{ID: id, UserID: "u1", Status: status}, nil
	}
	bookingRepo.UpdateStatusFunc = func(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
		// Another cancel won between read and write.
		status = domain.BookingStatusCanceled
		return nil, domain.ErrBookingStatusConflict
	}

	svc := newBookingServiceForTest(bookingRepo, nil, nil)
	_, err := svc.Cancel(context.Background(), "b1", "u1", domain.RoleUser)
	if !errors.Is(err, domain.ErrBookingAlreadyCancelled) {
		t.Errorf("expected ErrBookingAlreadyCancelled after losing the race, got %v", err)
	}
}

func TestBookingServiceImpl_Confirm(t *testing.T) {
	tests := []struct {
		name          string
		bookingStatus domain.BookingStatus
		requesterRole string
		expectedError error
	}{
		{
			name:          "admin confirms pending booking",
			bookingStatus: domain.BookingStatusPending,
			requesterRole: domain.RoleAdmin,
		},
		{
			name:          "non-admin rejected",
			bookingStatus: domain.BookingStatusPending,
			requesterRole: domain.RoleUser,
			expectedError: domain.ErrAdminRequired,
		},
		{
			name:          "confirmed booking cannot confirm again",
			bookingStatus: domain.BookingStatusConfirmed,
			requesterRole: domain.RoleAdmin,
			expectedError: domain.ErrBookingNotPending,
		},
		{
			name:          "canceled booking cannot be confirmed",
			bookingStatus: domain.BookingStatusCanceled,
			requesterRole: domain.RoleAdmin,
			expectedError: domain.ErrBookingNotPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookingRepo := mocks.NewMockBookingRepository()
			bookingRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
				return &domain.Booking{ID: id, UserID: "u1", Status: tt.bookingStatus, TotalPrice: 500}, nil
			}
			bookingRepo.UpdateStatusFunc = func(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
				return &domain.Booking{ID: id, UserID: "u1", Status: to, TotalPrice: 500}, nil
			}

			var awarded int
			mileageSvc := mocks.NewMockMileageService()
			mileageSvc.AwardFunc = func(ctx context.Context, userID string, amount int, description, flightID string) (*domain.MileageRecord, error) {
				awarded = amount
				return &domain.MileageRecord{UserID: userID, Amount: amount}, nil
			}

			svc := newBookingServiceForTest(bookingRepo, mileageSvc, nil)
			booking, err := svc.Confirm(context.Background(), "b1", tt.requesterRole)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if awarded != 0 {
					t.Error("rejected confirm must not award miles")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if booking.Status != domain.BookingStatusConfirmed {
				t.Errorf("expected confirmed, got %s", booking.Status)
			}
			if awarded != 500 {
				t.Errorf("expected 500 miles awarded, got %d", awarded)
			}
		})
	}
}

func TestBookingServiceImpl_Confirm_PublishesEvent(t *testing.T) {
	bookingRepo := mocks.NewMockBookingRepository()
	bookingRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.Booking, error) {
		return &domain.Booking{ID: id, UserID: "u1", Status: domain.BookingStatusPending, FlightNumber: "YA101", TotalPrice: 100}, nil
	}
	bookingRepo.UpdateStatusFunc = func(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
		return &domain.Booking{ID: id, UserID: "u1", Status: to, FlightNumber: "YA101", TotalPrice: 100}, nil
	}

	producer := mocks.NewMockEventProducer()
	svc := newBookingServiceForTest(bookingRepo, nil, producer)

	if _, err := svc.Confirm(context.Background(), "b1", domain.RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events := producer.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	event, ok := events[0].Event.(domain.BookingEvent)
	if !ok {
		t.Fatalf("unexpected event payload %T", events[0].Event)
	}
	if event.Type != "booking_confirmed" || event.BookingID != "b1" {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestBookingServiceImpl_Create_EventFailureDoesNotFailBooking(t *testing.T) {
	producer := mocks.NewMockEventProducer()
	producer.PublishFunc = func(ctx context.Context, key string, event any) error {
		return errors.New("broker down")
	}

	svc := newBookingServiceForTest(nil, nil, producer)
	booking, err := svc.Create(context.Background(), "u1", validBookingInput())
	if err != nil {
		t.Fatalf("booking must survive a publish failure, got %v", err)
	}
	if booking == nil {
		t.Fatal("expected booking")
	}
}
