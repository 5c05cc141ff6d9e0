package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	List(ctx context.Context, status *string, recType *RecordType) ([]Record, error)

	// UpdateStatusIf is the optimistic concurrency write: it only succeeds
	// when the stored status still matches what the caller read.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed repository and migrates its table.
func NewRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate records: %w", err)
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) Create(ctx context.Context, rec *Record) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &rec, nil
}

func (r *gormRepository) List(ctx context.Context, status *string, recType *RecordType) ([]Record, error) {
	query := r.db.WithContext(ctx).Model(&Record{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if recType != nil {
		query = query.Where("record_type = ?", *recType)
	}

	var recs []Record
	if err := query.Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return recs, nil
}

func (r *gormRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Record{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Update("status", newStatus)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update record status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
