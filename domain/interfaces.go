package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations. Every backend
// (memory, file, mongo, postgres) honors the same contract: email lookups
// are case-insensitive and Create rejects duplicate emails.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]User, error)
}

// SessionRepository defines session data access operations. FindByToken
// treats an expired session as absent and evicts it as a side effect.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int, error)
}

// BookingRepository defines booking data access operations. UpdateStatus
// persists synchronously; backends with conditional updates use them so a
// concurrent cancel/confirm race cannot resurrect a terminal state.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	FindByUserID(ctx context.Context, userID string) ([]Booking, error)
	List(ctx context.Context) ([]Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to BookingStatus) (*Booking, error)
}

// MileageRepository defines mileage-ledger data access operations.
type MileageRepository interface {
	Create(ctx context.Context, record *MileageRecord) error
	FindByUserID(ctx context.Context, userID string) ([]MileageRecord, error)
	List(ctx context.Context) ([]MileageRecord, error)
	UpdateStatus(ctx context.Context, id string, status MileageStatus) (*MileageRecord, error)
	CompletedBalance(ctx context.Context, userID string) (int, error)
}

// AuthService defines the authentication business logic.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*SafeUser, string, error)
	Login(ctx context.Context, email, password string) (*SafeUser, string, error)
	CheckSession(ctx context.Context, token string) (*SafeUser, error)
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*SafeUser, error)
}

// BookingInput is the caller-supplied part of a new booking.
type BookingInput struct {
	FlightNumber  string           `json:"flightNumber"`
	Departure     string           `json:"departure"`
	Destination   string           `json:"destination"`
	DepartureDate string           `json:"departureDate"`
	DepartureTime string           `json:"departureTime"`
	ReturnDate    string           `json:"returnDate"`
	ReturnTime    string           `json:"returnTime"`
	CabinClass    string           `json:"cabinClass"`
	Passengers    []PassengerCount `json:"passengers"`
	TotalPrice    float64          `json:"totalPrice"`
	// Instant-purchase entry flows create the booking already confirmed.
	Confirmed bool `json:"confirmed"`
}

// BookingService owns the booking state machine and its authorization rules.
type BookingService interface {
	Create(ctx context.Context, userID string, input BookingInput) (*Booking, error)
	ListForUser(ctx context.Context, userID string) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	Cancel(ctx context.Context, bookingID, requesterID, requesterRole string) (*Booking, error)
	Confirm(ctx context.Context, bookingID, requesterRole string) (*Booking, error)
}

// MileageService maintains the mileage ledger and keeps the derived
// membership tier on the user record in step with the completed balance.
type MileageService interface {
	RecordsFor(ctx context.Context, userID string) ([]MileageRecord, error)
	Award(ctx context.Context, userID string, amount int, description, flightID string) (*MileageRecord, error)
	Redeem(ctx context.Context, userID string, amount int, description string) (*MileageRecord, error)
	Summary(ctx context.Context, userID string) (*MileageSummary, error)
	CompletePending(ctx context.Context) (int, error)
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService produces opaque, cryptographically unguessable session tokens.
type TokenService interface {
	Generate() (string, error)
}

// EventProducer publishes booking lifecycle events. Implementations must be
// safe to skip entirely (a nil producer disables publishing).
type EventProducer interface {
	Publish(ctx context.Context, key string, event any) error
}

// BookingEvent is the payload published on booking lifecycle transitions.
type BookingEvent struct {
	Type         string        `json:"type"`
	BookingID    string        `json:"bookingId"`
	UserID       string        `json:"userId"`
	FlightNumber string        `json:"flightNumber"`
	Status       BookingStatus `json:"status"`
	OccurredAt   time.Time     `json:"occurredAt"`
}
