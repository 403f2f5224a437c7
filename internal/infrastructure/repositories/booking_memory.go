package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/marecop/YAweb/domain"
)

// MemoryBookingRepository implements domain.BookingRepository in process
// memory. Bookings are never removed, only status-changed.
type MemoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]domain.Booking
	order    []string
}

// NewMemoryBookingRepository creates an empty in-memory booking store.
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{bookings: make(map[string]domain.Booking)}
}

// Create implements domain.BookingRepository.
func (r *MemoryBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	r.bookings[booking.ID] = *booking
	r.order = append(r.order, booking.ID)
	return nil
}

// FindByID implements domain.BookingRepository.
func (r *MemoryBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	copy := b
	return &copy, nil
}

// FindByUserID implements domain.BookingRepository, in insertion order.
func (r *MemoryBookingRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Booking
	for _, id := range r.order {
		if b := r.bookings[id]; b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// List implements domain.BookingRepository, in insertion order.
func (r *MemoryBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Booking, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.bookings[id])
	}
	return out, nil
}

// UpdateStatus implements domain.BookingRepository. The transition applies
// only when the stored status still equals from, so a concurrent
// cancel/confirm race cannot overwrite a terminal state.
func (r *MemoryBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if b.Status != from {
		return nil, domain.ErrBookingStatusConflict
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	r.bookings[id] = b
	copy := b
	return &copy, nil
}

var _ domain.BookingRepository = (*MemoryBookingRepository)(nil)
