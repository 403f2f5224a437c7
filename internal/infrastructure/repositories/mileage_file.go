package repositories

import (
	"context"
	"time"

	"github.com/marecop/YAweb/domain"
)

// Historical name, kept for compatibility with existing data directories.
const milesFile = "miles.json"

// fileMileageRecord is the JSON representation of a mileage record on disk.
type fileMileageRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Amount      int       `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	FlightID    string    `json:"flightId,omitempty"`
}

func mileageToFile(m *domain.MileageRecord) fileMileageRecord {
	return fileMileageRecord{
		ID:          m.ID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Type:        string(m.Type),
		Description: m.Description,
		Date:        m.Date,
		Status:      string(m.Status),
		FlightID:    m.FlightID,
	}
}

func (f fileMileageRecord) toDomain() domain.MileageRecord {
	return domain.MileageRecord{
		ID:          f.ID,
		UserID:      f.UserID,
		Amount:      f.Amount,
		Type:        domain.MileageType(f.Type),
		Description: f.Description,
		Date:        f.Date,
		Status:      domain.MileageStatus(f.Status),
		FlightID:    f.FlightID,
	}
}

// FileMileageRepository implements domain.MileageRepository over a flat JSON
// file.
type FileMileageRepository struct {
	col *fileCollection
}

// NewFileMileageRepository creates a mileage ledger backed by
// <dir>/miles.json.
func NewFileMileageRepository(dir string) (*FileMileageRepository, error) {
	col, err := newFileCollection(dir, milesFile)
	if err != nil {
		return nil, err
	}
	return &FileMileageRepository{col: col}, nil
}

// Create implements domain.MileageRepository.
func (r *FileMileageRepository) Create(ctx context.Context, record *domain.MileageRecord) error {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var records []fileMileageRecord
	if err := r.col.load(&records); err != nil {
		return err
	}
	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	records = append(records, mileageToFile(record))
	return r.col.save(records)
}

// FindByUserID implements domain.MileageRepository.
func (r *FileMileageRepository) FindByUserID(ctx context.Context, userID string) ([]domain.MileageRecord, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var records []fileMileageRecord
	if err := r.col.load(&records); err != nil {
		return nil, err
	}
	var out []domain.MileageRecord
	for _, rec := range records {
		if rec.UserID == userID {
			out = append(out, rec.toDomain())
		}
	}
	return out, nil
}

// List implements domain.MileageRepository.
func (r *FileMileageRepository) List(ctx context.Context) ([]domain.MileageRecord, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var records []fileMileageRecord
	if err := r.col.load(&records); err != nil {
		return nil, err
	}
	out := make([]domain.MileageRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

// UpdateStatus implements domain.MileageRepository.
func (r *FileMileageRepository) UpdateStatus(ctx context.Context, id string, status domain.MileageStatus) (*domain.MileageRecord, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var records []fileMileageRecord
	if err := r.col.load(&records); err != nil {
		return nil, err
	}
	for i, rec := range records {
		if rec.ID == id {
			records[i].Status = string(status)
			if err := r.col.save(records); err != nil {
				return nil, err
			}
			dr := records[i].toDomain()
			return &dr, nil
		}
	}
	return nil, domain.ErrMileageNotFound
}

// CompletedBalance implements domain.MileageRepository.
func (r *FileMileageRepository) CompletedBalance(ctx context.Context, userID string) (int, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()

	var records []fileMileageRecord
	if err := r.col.load(&records); err != nil {
		return 0, err
	}
	balance := 0
	for _, rec := range records {
		if rec.UserID != userID || domain.MileageStatus(rec.Status) != domain.MileageCompleted {
			continue
		}
		switch domain.MileageType(rec.Type) {
		case domain.MileageEarned:
			balance += rec.Amount
		case domain.MileageUsed:
			balance -= rec.Amount
		}
	}
	return balance, nil
}

var _ domain.MileageRepository = (*FileMileageRepository)(nil)
