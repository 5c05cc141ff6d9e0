package notify

import (
	"time"

	"github.com/google/uuid"
)

// Delivery statuses recorded per attempt.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Contact is a reachable person, addressed either directly by user id or
// collectively through a role.
type Contact struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name"`
	Role      string    `json:"role" gorm:"index"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// DeliveryLog records one delivery attempt per channel.
type DeliveryLog struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	EntityID    uuid.UUID `json:"entity_id" gorm:"type:uuid;index"`
	ContactID   uuid.UUID `json:"contact_id" gorm:"type:uuid"`
	Channel     string    `json:"channel"`
	TemplateKey string    `json:"template_key"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

// Message is the rendered content handed to a channel.
type Message struct {
	Subject string
	Body    string
}

// templates maps the engine's template keys to message content. Body text
// carries the entity id; richer templating lives with the front-end emails.
var templates = map[string]Message{
	"review_requested": {
		Subject: "Action required: item awaiting your review",
		Body:    "An item has reached your review stage in the HSSE portal. Reference: %s",
	},
	"approved": {
		Subject: "Your submission was approved",
		Body:    "Your submission completed its approval chain. Reference: %s",
	},
	"rejected": {
		Subject: "Your submission was rejected",
		Body:    "Your submission was rejected during review. See the portal for the reviewer's reason. Reference: %s",
	},
	"review_due": {
		Subject: "Compliance review due",
		Body:    "A compliance obligation you own is due for review. Reference: %s",
	},
	"review_overdue": {
		Subject: "Compliance review overdue",
		Body:    "A compliance obligation you own is overdue for review. Reference: %s",
	},
}
