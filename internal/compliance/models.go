package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

// Obligation is one entry of the legal register: a recurring compliance
// requirement whose review cycles rather than terminates. Compliance status
// values come from the obligation-review workflow definition.
type Obligation struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Reference        string         `json:"reference"`
	Title            string         `json:"title"`
	Category         string         `json:"category"`
	Status           string         `json:"status" gorm:"index"`
	OwnerID          uuid.UUID      `json:"owner_id" gorm:"type:uuid;index"`
	LastReviewDate   *time.Time     `json:"last_review_date,omitempty"`
	NextReviewDate   *time.Time     `json:"next_review_date,omitempty"`
	ReviewPeriodDays int            `json:"review_period_days"`
	Notes            datatypes.JSON `json:"notes"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// RegisterEntry is an obligation decorated with its urgency classification,
// as presented on the legal register screen.
type RegisterEntry struct {
	Obligation
	DaysUntilDue int                  `json:"days_until_due"`
	Urgency      workflow.UrgencyTier `json:"urgency"`
}
