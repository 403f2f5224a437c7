package domain

import "errors"

// Validation errors
var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidBooking   = errors.New("invalid booking data")
	ErrInvalidMileage   = errors.New("mileage amount must be positive")
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Authorization errors
var (
	ErrAdminRequired       = errors.New("admin role required")
	ErrBookingAccessDenied = errors.New("booking belongs to another user")
)

// Booking state errors
var (
	ErrBookingNotFound         = errors.New("booking not found")
	ErrBookingNotPending       = errors.New("booking is not pending")
	ErrBookingAlreadyCancelled = errors.New("booking is already canceled")
	ErrBookingStatusConflict   = errors.New("booking status changed concurrently")
)

// Mileage errors
var (
	ErrMileageNotFound   = errors.New("mileage record not found")
	ErrInsufficientMiles = errors.New("insufficient mileage balance")
)

// Infrastructure errors
var (
	ErrStoreUnavailable = errors.New("backing store unavailable")
)
