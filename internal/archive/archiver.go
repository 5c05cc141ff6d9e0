package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/storage"
)

// Archiver moves a year's review evidence out of the live prefix so the next
// review cycle starts clean. Archived objects are copied under archive/ and
// removed from the live location; nothing is ever deleted from the archive.
type Archiver interface {
	ArchiveEvidence(ctx context.Context, entityID uuid.UUID, year int) (int, error)
}

type s3Archiver struct {
	store  storage.ObjectStore
	bucket string
	logger *zap.Logger
}

// NewS3Archiver creates an archiver over the portal's evidence bucket.
func NewS3Archiver(store storage.ObjectStore, bucket string, logger *zap.Logger) Archiver {
	return &s3Archiver{store: store, bucket: bucket, logger: logger}
}

// ArchiveEvidence relocates every live evidence object for the entity and
// year under the archive prefix. Returns the number of objects moved.
func (a *s3Archiver) ArchiveEvidence(ctx context.Context, entityID uuid.UUID, year int) (int, error) {
	livePrefix := fmt.Sprintf("evidence/%s/%d/", entityID, year)

	keys, err := a.store.ListKeys(ctx, a.bucket, livePrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list evidence for %s: %w", entityID, err)
	}

	moved := 0
	for _, key := range keys {
		dst := "archive/" + strings.TrimPrefix(key, "evidence/")
		if err := a.store.Copy(ctx, a.bucket, key, dst); err != nil {
			return moved, fmt.Errorf("failed to archive %s: %w", key, err)
		}
		if err := a.store.Delete(ctx, a.bucket, key); err != nil {
			return moved, fmt.Errorf("failed to remove live copy %s: %w", key, err)
		}
		moved++
	}

	a.logger.Info("archived review evidence",
		zap.String("entity_id", entityID.String()),
		zap.Int("year", year),
		zap.Int("objects", moved))
	return moved, nil
}
