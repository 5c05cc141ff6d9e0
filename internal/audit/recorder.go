package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

// Recorder appends transition history and reads it back in append order.
type Recorder interface {
	Append(ctx context.Context, kind workflow.Kind, entry workflow.AuditEntry) error
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]Entry, error)
}

type gormRecorder struct {
	db *gorm.DB
}

// NewRecorder creates a gorm-backed recorder and migrates its table.
func NewRecorder(db *gorm.DB) (Recorder, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate audit trail: %w", err)
	}
	return &gormRecorder{db: db}, nil
}

func (r *gormRecorder) Append(ctx context.Context, kind workflow.Kind, entry workflow.AuditEntry) error {
	row := Entry{
		EntityID:   entry.EntityID,
		EntityKind: string(kind),
		ActorRole:  entry.ActorRole,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		Action:     string(entry.Action),
		Comment:    entry.Comment,
		Timestamp:  entry.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListByEntity returns an entity's history in the order it was appended, so
// the transition sequence can be reconstructed exactly.
func (r *gormRecorder) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	if err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
