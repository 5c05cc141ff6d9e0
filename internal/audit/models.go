package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one immutable row of the transition history. Rows are append-only:
// nothing in this package updates or deletes them.
type Entry struct {
	ID         uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	EntityID   uuid.UUID `json:"entity_id" gorm:"type:uuid;index:idx_audit_entity"`
	EntityKind string    `json:"entity_kind"`
	ActorRole  string    `json:"actor_role"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Action     string    `json:"action"`
	Comment    string    `json:"comment"`
	Timestamp  time.Time `json:"timestamp" gorm:"index:idx_audit_entity"`
}

// TableName keeps the historical table name used by the portal.
func (Entry) TableName() string {
	return "audit_trail"
}
