package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/marecop/YAweb/domain"
)

// MemoryMileageRepository implements domain.MileageRepository in process
// memory.
type MemoryMileageRepository struct {
	mu      sync.Mutex
	records map[string]domain.MileageRecord
	order   []string
}

// NewMemoryMileageRepository creates an empty in-memory mileage ledger.
func NewMemoryMileageRepository() *MemoryMileageRepository {
	return &MemoryMileageRepository{records: make(map[string]domain.MileageRecord)}
}

// Create implements domain.MileageRepository.
func (r *MemoryMileageRepository) Create(ctx context.Context, record *domain.MileageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	r.records[record.ID] = *record
	r.order = append(r.order, record.ID)
	return nil
}

// FindByUserID implements domain.MileageRepository, in insertion order.
func (r *MemoryMileageRepository) FindByUserID(ctx context.Context, userID string) ([]domain.MileageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.MileageRecord
	for _, id := range r.order {
		if rec := r.records[id]; rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// List implements domain.MileageRepository, in insertion order.
func (r *MemoryMileageRepository) List(ctx context.Context) ([]domain.MileageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.MileageRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out, nil
}

// UpdateStatus implements domain.MileageRepository.
func (r *MemoryMileageRepository) UpdateStatus(ctx context.Context, id string, status domain.MileageStatus) (*domain.MileageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrMileageNotFound
	}
	rec.Status = status
	r.records[id] = rec
	copy := rec
	return &copy, nil
}

// CompletedBalance implements domain.MileageRepository: completed earned
// minus completed used.
func (r *MemoryMileageRepository) CompletedBalance(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance := 0
	for _, id := range r.order {
		rec := r.records[id]
		if rec.UserID != userID || rec.Status != domain.MileageCompleted {
			continue
		}
		switch rec.Type {
		case domain.MileageEarned:
			balance += rec.Amount
		case domain.MileageUsed:
			balance -= rec.Amount
		}
	}
	return balance, nil
}

var _ domain.MileageRepository = (*MemoryMileageRepository)(nil)
