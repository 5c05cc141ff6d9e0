package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

type Repository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context, status *string, docType *DocumentType) ([]Document, error)
	Update(ctx context.Context, doc *Document) error

	// UpdateStatusIf sets the status only when the stored value still matches
	// expectedStatus. The false return is the optimistic concurrency signal:
	// the document changed between read and write.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed repository and migrates its table.
func NewRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents: %w", err)
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) Create(ctx context.Context, doc *Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (r *gormRepository) List(ctx context.Context, status *string, docType *DocumentType) ([]Document, error) {
	query := r.db.WithContext(ctx).Model(&Document{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if docType != nil {
		query = query.Where("document_type = ?", *docType)
	}

	var docs []Document
	if err := query.Order("updated_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (r *gormRepository) Update(ctx context.Context, doc *Document) error {
	if err := r.db.WithContext(ctx).Save(doc).Error; err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

func (r *gormRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expectedStatus, newStatus string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Document{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Update("status", newStatus)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update document status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
