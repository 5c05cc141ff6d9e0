package documents

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DocumentType classifies a controlled HSSE document.
type DocumentType string

const (
	TypePolicy          DocumentType = "POLICY"
	TypeProcedure       DocumentType = "PROCEDURE"
	TypeWorkInstruction DocumentType = "WORK_INSTRUCTION"
	TypeForm            DocumentType = "FORM"
)

// Document is a controlled document moving through the review chain
// DRAFT -> HSSE_REVIEW -> OPS_REVIEW -> MD_APPROVAL -> APPROVED, with
// rejection possible at every review stage.
type Document struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	DocumentType   DocumentType   `json:"document_type"`
	Status         string         `json:"status" gorm:"index"`
	OwnerID        uuid.UUID      `json:"owner_id" gorm:"type:uuid;index"`
	S3Key          string         `json:"s3_key"`
	S3Bucket       string         `json:"s3_bucket"`
	CurrentVersion int            `json:"current_version"`
	Metadata       datatypes.JSON `json:"metadata"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
