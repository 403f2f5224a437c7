package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/marecop/YAweb/domain"
)

// GormMileageRepository implements domain.MileageRepository using GORM.
type GormMileageRepository struct {
	db *gorm.DB
}

// DBMileageRecord is the database model for MileageRecord.
type DBMileageRecord struct {
	ID          string `gorm:"primaryKey;size:64"`
	UserID      string `gorm:"index;size:64"`
	Amount      int
	Type        string    `gorm:"size:16"`
	Description string    `gorm:"size:255"`
	Date        time.Time `gorm:"index"`
	Status      string    `gorm:"index;size:16"`
	FlightID    string    `gorm:"size:64"`
}

// TableName returns the table name for GORM.
func (DBMileageRecord) TableName() string {
	return "mileage_records"
}

// NewGormMileageRepository creates a mileage repository on a GORM database.
func NewGormMileageRepository(db *gorm.DB) *GormMileageRepository {
	return &GormMileageRepository{db: db}
}

// Create implements domain.MileageRepository.
func (r *GormMileageRepository) Create(ctx context.Context, record *domain.MileageRecord) error {
	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	return r.db.WithContext(ctx).Create(mileageToDB(record)).Error
}

// FindByUserID implements domain.MileageRepository.
func (r *GormMileageRepository) FindByUserID(ctx context.Context, userID string) ([]domain.MileageRecord, error) {
	var dbRecords []DBMileageRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc").
		Find(&dbRecords).Error
	if err != nil {
		return nil, err
	}
	return dbMileageToDomain(dbRecords), nil
}

// List implements domain.MileageRepository.
func (r *GormMileageRepository) List(ctx context.Context) ([]domain.MileageRecord, error) {
	var dbRecords []DBMileageRecord
	if err := r.db.WithContext(ctx).Order("date desc").Find(&dbRecords).Error; err != nil {
		return nil, err
	}
	return dbMileageToDomain(dbRecords), nil
}

// UpdateStatus implements domain.MileageRepository.
func (r *GormMileageRepository) UpdateStatus(ctx context.Context, id string, status domain.MileageStatus) (*domain.MileageRecord, error) {
	result := r.db.WithContext(ctx).Model(&DBMileageRecord{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrMileageNotFound
	}

	var dbRecord DBMileageRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbRecord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMileageNotFound
		}
		return nil, err
	}
	record := dbRecordToDomain(&dbRecord)
	return &record, nil
}

// CompletedBalance implements domain.MileageRepository. Earned records add,
// used records subtract; only completed postings count.
func (r *GormMileageRepository) CompletedBalance(ctx context.Context, userID string) (int, error) {
	type row struct {
		Type  string
		Total int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&DBMileageRecord{}).
		Select("type, COALESCE(SUM(amount), 0) as total").
		Where("user_id = ? AND status = ?", userID, string(domain.MileageCompleted)).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	balance := 0
	for _, r := range rows {
		switch domain.MileageType(r.Type) {
		case domain.MileageEarned:
			balance += r.Total
		case domain.MileageUsed:
			balance -= r.Total
		}
	}
	return balance, nil
}

func mileageToDB(m *domain.MileageRecord) *DBMileageRecord {
	return &DBMileageRecord{
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

func dbRecordToDomain(dbRecord *DBMileageRecord) domain.MileageRecord {
	return domain.MileageRecord{
		ID:          dbRecord.ID,
		UserID:      dbRecord.UserID,
		Amount:      dbRecord.Amount,
		Type:        domain.MileageType(dbRecord.Type),
		Description: dbRecord.Description,
		Date:        dbRecord.Date,
		Status:      domain.MileageStatus(dbRecord.Status),
		FlightID:    dbRecord.FlightID,
	}
}

func dbMileageToDomain(dbRecords []DBMileageRecord) []domain.MileageRecord {
	records := make([]domain.MileageRecord, 0, len(dbRecords))
	for i := range dbRecords {
		records = append(records, dbRecordToDomain(&dbRecords[i]))
	}
	return records
}

var _ domain.MileageRepository = (*GormMileageRepository)(nil)
