package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI is the slice of the SNS client the SMS channel uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSChannel delivers short notifications over SNS.
type SMSChannel struct {
	client SNSAPI
}

// NewSMSChannel creates an SMS channel.
func NewSMSChannel(client SNSAPI) *SMSChannel {
	return &SMSChannel{client: client}
}

// Send publishes one message to one phone number.
func (c *SMSChannel) Send(ctx context.Context, phone string, msg Message) error {
	if phone == "" {
		return fmt.Errorf("contact has no phone number")
	}
	_, err := c.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(msg.Subject + ": " + msg.Body),
	})
	if err != nil {
		return fmt.Errorf("failed to send sms to %s: %w", phone, err)
	}
	return nil
}
