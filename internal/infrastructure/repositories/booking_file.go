package repositories

import (
	"context"
	"time"

	"github.com/marecop/YAweb/domain"
)

const bookingsFile = "bookings.json"

// fileBooking is the JSON representation of a booking on disk.
type fileBooking struct {
	ID            string                  `json:"id"`
	UserID        string                  `json:"userId"`
	FlightNumber  string                  `json:"flightNumber"`
	Departure     string                  `json:"departure"`
	Destination   string                  `json:"destination"`
	DepartureDate string                  `json:"departureDate"`
	DepartureTime string                  `json:"departureTime,omitempty"`
	ReturnDate    string                  `json:"returnDate,omitempty"`
	ReturnTime    string                  `json:"returnTime,omitempty"`
	CabinClass    string                  `json:"cabinClass"`
	Passengers    []domain.PassengerCount `json:"passengers"`
	TotalPrice    float64                 `json:"totalPrice"`
	BookingDate   time.Time               `json:"bookingDate"`
	Status        string                  `json:"status"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

func bookingToFile(b *domain.Booking) fileBooking {
	return fileBooking{
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
		Passengers:    b.Passengers,
		TotalPrice:    b.TotalPrice,
		BookingDate:   b.BookingDate,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (f fileBooking) toDomain() domain.Booking {
	return domain.Booking{
		ID:            f.ID,
		UserID:        f.UserID,
		FlightNumber:  f.FlightNumber,
		Departure:     f.Departure,
		Destination:   f.Destination,
		DepartureDate: f.DepartureDate,
		DepartureTime: f.DepartureTime,
		ReturnDate:    f.ReturnDate,
		ReturnTime:    f.ReturnTime,
		CabinClass:    f.CabinClass,
		Passengers:    f.Passengers,
		TotalPrice:    f.TotalPrice,
		BookingDate:   f.BookingDate,
		Status:        domain.BookingStatus(f.Status),
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// FileBookingRepository implements domain.BookingRepository over a flat JSON
// file.
type FileBookingRepository struct {
	col *fileCollection
}

// NewFileBookingRepository creates a booking store backed by
// <dir>/bookings.json.
func NewFileBookingRepository(dir string) (*FileBookingRepository, error) {
	col, err := newFileCollection(dir, bookingsFile)
	if err != nil {
		return nil, err
	}
	return &FileBookingRepository{col: col}, nil
}

// Create implements domain.BookingRepository.
func (r *FileBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var bookings []fileBooking
	if err := r.col.load(&bookings); err != nil {
		return err
	}

	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	bookings = append(bookings, bookingToFile(booking))
	return r.col.save(bookings)
}

// FindByID implements domain.BookingRepository.
func (r *FileBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var bookings []fileBooking
	if err := r.col.load(&bookings); err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if b.ID == id {
			db := b.toDomain()
			return &db, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

// FindByUserID implements domain.BookingRepository, in insertion order.
func (r *FileBookingRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var bookings []fileBooking
	if err := r.col.load(&bookings); err != nil {
		return nil, err
	}
	var out []domain.Booking
	for _, b := range bookings {
		if b.UserID == userID {
			out = append(out, b.toDomain())
		}
	}
	return out, nil
}

// List implements domain.BookingRepository.
func (r *FileBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var bookings []fileBooking
	if err := r.col.load(&bookings); err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.toDomain())
	}
	return out, nil
}

// UpdateStatus implements domain.BookingRepository. The whole-file rewrite
// happens under the collection mutex, so the check-then-set is atomic within
// the process.
func (r *FileBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var bookings []fileBooking
	if err := r.col.load(&bookings); err != nil {
		return nil, err
	}
	for i, b := range bookings {
		if b.ID != id {
			continue
		}
		if domain.BookingStatus(b.Status) != from {
			return nil, domain.ErrBookingStatusConflict
		}
		bookings[i].Status = string(to)
		bookings[i].UpdatedAt = time.Now()
		if err := r.col.save(bookings); err != nil {
			return nil, err
		}
		db := bookings[i].toDomain()
		return &db, nil
	}
	return nil, domain.ErrBookingNotFound
}

var _ domain.BookingRepository = (*FileBookingRepository)(nil)
