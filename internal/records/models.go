package records

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecordType classifies an HSSE record awaiting review.
type RecordType string

const (
	TypeIncident    RecordType = "INCIDENT"
	TypeInspection  RecordType = "INSPECTION"
	TypeTraining    RecordType = "TRAINING"
	TypePPEIssuance RecordType = "PPE_ISSUANCE"
)

// Record is an HSSE record with a single-stage review: a reviewer either
// approves it or rejects it with a reason.
type Record struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string         `json:"title"`
	RecordType  RecordType     `json:"record_type"`
	Status      string         `json:"status" gorm:"index"`
	SubmittedBy uuid.UUID      `json:"submitted_by" gorm:"type:uuid;index"`
	Details     datatypes.JSON `json:"details"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
