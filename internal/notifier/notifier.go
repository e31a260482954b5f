// Package notifier hands verification emails off to the notification service
// over Kafka. This service never talks SMTP itself.
package notifier

import (
	"context"
	"fmt"

	"github.com/ArturPrzybyloo/testingforge-auth/pkg/kafka"
)

const (
	// TopicEmailVerification is consumed by the notification service.
	TopicEmailVerification = "testingforge.notification.email_verification"

	typeEmailVerification = "notification.email_verification"
	source                = "auth-service"
)

type publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// EmailVerificationData is the payload the notification service renders into
// an email. The raw token is carried here and nowhere else; only its digest is
// stored.
type EmailVerificationData struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	VerifyURL string `json:"verify_url"`
}

// KafkaNotifier publishes email-verification requests to Kafka.
type KafkaNotifier struct {
	publisher publisher
	baseURL   string
}

// NewKafkaNotifier creates a notifier. baseURL is the public URL the
// verification link is built against.
func NewKafkaNotifier(p publisher, baseURL string) *KafkaNotifier {
	return &KafkaNotifier{publisher: p, baseURL: baseURL}
}

// SendVerificationEmail publishes a verification email request for the user.
func (n *KafkaNotifier) SendVerificationEmail(ctx context.Context, email, username, token string) error {
	evt, err := kafka.NewEvent(typeEmailVerification, email, "notification", source, EmailVerificationData{
		Email:     email,
		Username:  username,
		Token:     token,
		VerifyURL: fmt.Sprintf("%s/api/v1/auth/verify-email/%s", n.baseURL, token),
	})
	if err != nil {
		return err
	}

	if err := n.publisher.Publish(ctx, TopicEmailVerification, evt); err != nil {
		return fmt.Errorf("publish verification email request: %w", err)
	}

	return nil
}
