package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hsse-suite/hsse-portal/hsse-portal-backend/pkg/workflow"
)

// Service resolves notify intents to contacts and delivers them over the
// configured channels. A recipient that parses as a UUID is a direct user
// id; anything else is treated as a role name and fanned out.
type Service struct {
	db     *gorm.DB
	email  *EmailChannel
	sms    *SMSChannel
	logger *zap.Logger
}

// NewService creates a notification service and migrates its tables.
func NewService(db *gorm.DB, email *EmailChannel, sms *SMSChannel, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&Contact{}, &DeliveryLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate notification tables: %w", err)
	}
	return &Service{db: db, email: email, sms: sms, logger: logger}, nil
}

// Dispatch delivers every notify intent in the list; other side-effect
// intents are not this collaborator's concern and are skipped. Delivery
// failures are logged per attempt and do not abort the batch: the transition
// has already been accepted and persisted by the time intents reach us.
func (s *Service) Dispatch(ctx context.Context, effects []workflow.SideEffect) error {
	for _, eff := range effects {
		if eff.Type != workflow.EffectNotify {
			continue
		}
		if err := s.deliver(ctx, eff); err != nil {
			s.logger.Warn("notification delivery failed",
				zap.String("recipient", eff.Recipient),
				zap.String("template", eff.TemplateKey),
				zap.Error(err))
		}
	}
	return nil
}

// Notify sends a template directly to a recipient, a user id or a role name.
// Used by the review scanner for due-date reminders, outside any transition.
func (s *Service) Notify(ctx context.Context, recipient, templateKey string, entityID uuid.UUID) error {
	return s.deliver(ctx, workflow.SideEffect{
		Type:        workflow.EffectNotify,
		Recipient:   recipient,
		TemplateKey: templateKey,
		EntityID:    entityID,
	})
}

func (s *Service) deliver(ctx context.Context, eff workflow.SideEffect) error {
	msg, ok := templates[eff.TemplateKey]
	if !ok {
		return fmt.Errorf("unknown notification template %q", eff.TemplateKey)
	}
	msg.Body = fmt.Sprintf(msg.Body, eff.EntityID)

	contacts, err := s.resolve(ctx, eff.Recipient)
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		return fmt.Errorf("no contacts found for recipient %q", eff.Recipient)
	}

	for _, contact := range contacts {
		s.sendToContact(ctx, contact, eff, msg)
	}
	return nil
}

func (s *Service) resolve(ctx context.Context, recipient string) ([]Contact, error) {
	var contacts []Contact
	if id, err := uuid.Parse(recipient); err == nil {
		err := s.db.WithContext(ctx).Where("id = ?", id).Find(&contacts).Error
		if err != nil {
			return nil, fmt.Errorf("failed to resolve contact %s: %w", recipient, err)
		}
		return contacts, nil
	}
	if err := s.db.WithContext(ctx).Where("role = ?", recipient).Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve role %s: %w", recipient, err)
	}
	return contacts, nil
}

func (s *Service) sendToContact(ctx context.Context, contact Contact, eff workflow.SideEffect, msg Message) {
	if contact.Email != "" {
		s.logAttempt(ctx, contact, eff, "email", s.email.Send(ctx, contact.Email, msg))
	}
	if contact.Phone != "" && s.sms != nil {
		s.logAttempt(ctx, contact, eff, "sms", s.sms.Send(ctx, contact.Phone, msg))
	}
}

func (s *Service) logAttempt(ctx context.Context, contact Contact, eff workflow.SideEffect, channel string, sendErr error) {
	entry := DeliveryLog{
		EntityID:    eff.EntityID,
		ContactID:   contact.ID,
		Channel:     channel,
		TemplateKey: eff.TemplateKey,
		Status:      StatusSent,
		SentAt:      time.Now(),
	}
	if sendErr != nil {
		entry.Status = StatusFailed
		entry.Error = sendErr.Error()
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Warn("failed to record delivery attempt", zap.Error(err))
	}
}
