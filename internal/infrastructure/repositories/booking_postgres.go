package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/marecop/YAweb/domain"
)

// GormBookingRepository implements domain.BookingRepository using GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

// DBBooking is the database model for Booking. The passenger breakdown is
// stored as a JSON column since it is read and written only as a whole.
type DBBooking struct {
	ID            string `gorm:"primaryKey;size:64"`
	UserID        string `gorm:"index;size:64"`
	FlightNumber  string `gorm:"size:16"`
	Departure     string `gorm:"size:128"`
	Destination   string `gorm:"size:128"`
	DepartureDate string `gorm:"size:32"`
	DepartureTime string `gorm:"size:16"`
	ReturnDate    string `gorm:"size:32"`
	ReturnTime    string `gorm:"size:16"`
	CabinClass    string `gorm:"size:16"`
	Passengers    string `gorm:"type:text"`
	TotalPrice    float64
	BookingDate   time.Time
	Status        string    `gorm:"index;size:16"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM.
func (DBBooking) TableName() string {
	return "bookings"
}

// NewGormBookingRepository creates a booking repository on a GORM database.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Create implements domain.BookingRepository.
func (r *GormBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	if booking.BookingDate.IsZero() {
		booking.BookingDate = now
	}

	dbBooking, err := bookingToDB(booking)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(dbBooking).Error
}

// FindByID implements domain.BookingRepository.
func (r *GormBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	var dbBooking DBBooking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbBooking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return dbBookingToDomain(&dbBooking)
}

// FindByUserID implements domain.BookingRepository, oldest booking first so
// every backend lists in creation order.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	var dbBookings []DBBooking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&dbBookings).Error
	if err != nil {
		return nil, err
	}
	return dbBookingsToDomain(dbBookings)
}

// List implements domain.BookingRepository.
func (r *GormBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	var dbBookings []DBBooking
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&dbBookings).Error; err != nil {
		return nil, err
	}
	return dbBookingsToDomain(dbBookings)
}

// UpdateStatus implements domain.BookingRepository. The UPDATE is guarded by
// the expected current status, so concurrent transitions race at the row and
// exactly one wins.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	result := r.db.WithContext(ctx).Model(&DBBooking{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&DBBooking{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, domain.ErrBookingNotFound
		}
		return nil, domain.ErrBookingStatusConflict
	}
	return r.FindByID(ctx, id)
}

func bookingToDB(b *domain.Booking) (*DBBooking, error) {
	passengers, err := json.Marshal(b.Passengers)
	if err != nil {
		return nil, err
	}
	return &DBBooking{
		ID:            b.ID,
		UserID:        b.UserID,
		FlightNumber:  b.FlightNumber,
		Departure:     b.Departure,
		Destination:   b.Destination,
		DepartureDate: b.DepartureDate,
		DepartureTime: b.DepartureTime,
		ReturnDate:    b.ReturnDate,
		ReturnTime:    b.ReturnTime,
		CabinClass:    b.CabinClass,
		Passengers:    string(passengers),
		TotalPrice:    b.TotalPrice,
		BookingDate:   b.BookingDate,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}, nil
}

func dbBookingToDomain(dbBooking *DBBooking) (*domain.Booking, error) {
	var passengers []domain.PassengerCount
	if dbBooking.Passengers != "" {
		if err := json.Unmarshal([]byte(dbBooking.Passengers), &passengers); err != nil {
			return nil, err
		}
	}
	return &domain.Booking{
		ID:            dbBooking.ID,
		UserID:        dbBooking.UserID,
		FlightNumber:  dbBooking.FlightNumber,
		Departure:     dbBooking.Departure,
		Destination:   dbBooking.Destination,
		DepartureDate: dbBooking.DepartureDate,
		DepartureTime: dbBooking.DepartureTime,
		ReturnDate:    dbBooking.ReturnDate,
		ReturnTime:    dbBooking.ReturnTime,
		CabinClass:    dbBooking.CabinClass,
		Passengers:    passengers,
		TotalPrice:    dbBooking.TotalPrice,
		BookingDate:   dbBooking.BookingDate,
		Status:        domain.BookingStatus(dbBooking.Status),
		CreatedAt:     dbBooking.CreatedAt,
		UpdatedAt:     dbBooking.UpdatedAt,
	}, nil
}

func dbBookingsToDomain(dbBookings []DBBooking) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0, len(dbBookings))
	for i := range dbBookings {
		b, err := dbBookingToDomain(&dbBookings[i])
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

var _ domain.BookingRepository = (*GormBookingRepository)(nil)
