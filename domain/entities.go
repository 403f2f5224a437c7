package domain

import "time"

// Role values a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a customer (or administrator) account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
	TotalMiles   int
	MemberLevel  Tier
	IsMember     bool
	DateOfBirth  string
	Phone        string
	Address      string
	Country      string
	City         string
	PostalCode   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SafeUser is the password-stripped view of a User handed to clients.
// The membership flag is normalized: administrators are always members.
type SafeUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        string    `json:"role"`
	TotalMiles  int       `json:"totalMiles"`
	MemberLevel Tier      `json:"memberLevel"`
	IsMember    bool      `json:"isMember"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	Country     string    `json:"country,omitempty"`
	City        string    `json:"city,omitempty"`
	PostalCode  string    `json:"postalCode,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewSafeUser derives the client-facing view of a user.
func NewSafeUser(u *User) *SafeUser {
	return &SafeUser{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		TotalMiles:  u.TotalMiles,
		MemberLevel: TierForMiles(u.TotalMiles),
		IsMember:    u.IsAdmin() || u.IsMember,
		DateOfBirth: u.DateOfBirth,
		Phone:       u.Phone,
		Address:     u.Address,
		Country:     u.Country,
		City:        u.City,
		PostalCode:  u.PostalCode,
		CreatedAt:   u.CreatedAt,
	}
}

// ProfileUpdate carries the only user fields mutable through the
// profile-update path. Email, password, role and id are never touched here.
type ProfileUpdate struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DateOfBirth *string `json:"dateOfBirth"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postalCode"`
}

// Session ties an opaque token to a user for a bounded validity window.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session's validity window has passed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
)

// CabinClass values accepted on a booking.
const (
	CabinEconomy  = "economy"
	CabinBusiness = "business"
	CabinFirst    = "first"
)

// ValidCabinClass reports whether c is one of the accepted cabin classes.
func ValidCabinClass(c string) bool {
	switch c {
	case CabinEconomy, CabinBusiness, CabinFirst:
		return true
	}
	return false
}

// PassengerCount is one line of a booking's passenger breakdown,
// e.g. {"adult", 2}.
type PassengerCount struct {
	Label string `json:"label" bson:"label"`
	Count int    `json:"count" bson:"count"`
}

// Booking is a purchased flight reservation. UserID is the immutable owner;
// totalPrice and the passenger breakdown are immutable after creation.
type Booking struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	FlightNumber  string           `json:"flightNumber"`
	Departure     string           `json:"departure"`
	Destination   string           `json:"destination"`
	DepartureDate string           `json:"departureDate"`
	DepartureTime string           `json:"departureTime,omitempty"`
	ReturnDate    string           `json:"returnDate,omitempty"`
	ReturnTime    string           `json:"returnTime,omitempty"`
	CabinClass    string           `json:"cabinClass"`
	Passengers    []PassengerCount `json:"passengers"`
	TotalPrice    float64          `json:"totalPrice"`
	BookingDate   time.Time        `json:"bookingDate"`
	Status        BookingStatus    `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// MileageType distinguishes accrual from redemption records.
type MileageType string

const (
	MileageEarned MileageType = "earned"
	MileageUsed   MileageType = "used"
)

// MileageStatus is the posting state of a mileage record. Only completed
// records count toward a user's balance.
type MileageStatus string

const (
	MileagePending   MileageStatus = "pending"
	MileageCompleted MileageStatus = "completed"
)

// MileageRecord is a single earn or burn entry on a user's mileage account.
type MileageRecord struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Amount      int           `json:"amount"`
	Type        MileageType   `json:"type"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	Status      MileageStatus `json:"status"`
	FlightID    string        `json:"flightId,omitempty"`
}

// MileageSummary is the aggregate view of a user's loyalty standing.
type MileageSummary struct {
	TotalMiles    int      `json:"totalMiles"`
	MemberLevel   Tier     `json:"memberLevel"`
	DisplayName   string   `json:"displayName"`
	MarketingName string   `json:"marketingName"`
	Benefits      []string `json:"benefits"`
}
