package compliance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an obligation does not exist.
var ErrNotFound = errors.New("obligation not found")

type Repository interface {
	Create(ctx context.Context, ob *Obligation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Obligation, error)
	List(ctx context.Context, category *string) ([]Obligation, error)

	// CompleteReviewIf persists the outcome of a conducted review in one
	// conditional write keyed on the status that was read.
	CompleteReviewIf(ctx context.Context, ob *Obligation, expectedStatus string) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed repository and migrates its table.
func NewRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Obligation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate obligations: %w", err)
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) Create(ctx context.Context, ob *Obligation) error {
	if err := r.db.WithContext(ctx).Create(ob).Error; err != nil {
		return fmt.Errorf("failed to create obligation: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Obligation, error) {
	var ob Obligation
	err := r.db.WithContext(ctx).First(&ob, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}
	return &ob, nil
}

func (r *gormRepository) List(ctx context.Context, category *string) ([]Obligation, error) {
	query := r.db.WithContext(ctx).Model(&Obligation{})
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var obs []Obligation
	if err := query.Find(&obs).Error; err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	return obs, nil
}

func (r *gormRepository) CompleteReviewIf(ctx context.Context, ob *Obligation, expectedStatus string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Obligation{}).
		Where("id = ? AND status = ?", ob.ID, expectedStatus).
		Updates(map[string]interface{}{
			"status":           ob.Status,
			"last_review_date": ob.LastReviewDate,
			"next_review_date": ob.NextReviewDate,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to complete obligation review: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
