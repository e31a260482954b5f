package event

import (
	"context"

	"github.com/ArturPrzybyloo/testingforge-auth/pkg/kafka"
	"github.com/ArturPrzybyloo/testingforge-auth/pkg/logger"

	"github.com/ArturPrzybyloo/testingforge-auth/internal/domain"
)

const (
	source = "auth-service"

	// Topics.
	TopicUserRegistered = "testingforge.user.registered"
	TopicUserVerified   = "testingforge.user.verified"

	// Event types.
	TypeUserRegistered = "user.registered"
	TypeUserVerified   = "user.verified"
)

// publisher is the subset of the Kafka producer used here.
type publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// UserRegisteredData is the payload of a user.registered event.
type UserRegisteredData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UserVerifiedData is the payload of a user.verified event.
type UserVerifiedData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Producer publishes account lifecycle events.
type Producer struct {
	publisher publisher
}

// NewProducer creates an account event producer on top of a Kafka producer.
func NewProducer(p publisher) *Producer {
	return &Producer{publisher: p}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	evt, err := kafka.NewEvent(TypeUserRegistered, user.ID, "user", source, UserRegisteredData{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		return err
	}
	evt.CorrelationID = logger.CorrelationIDFromContext(ctx)

	return p.publisher.Publish(ctx, TopicUserRegistered, evt)
}

// PublishUserVerified publishes a user.verified event.
func (p *Producer) PublishUserVerified(ctx context.Context, user *domain.User) error {
	evt, err := kafka.NewEvent(TypeUserVerified, user.ID, "user", source, UserVerifiedData{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return err
	}
	evt.CorrelationID = logger.CorrelationIDFromContext(ctx)

	return p.publisher.Publish(ctx, TopicUserVerified, evt)
}
