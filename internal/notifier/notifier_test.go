package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArturPrzybyloo/testingforge-auth/pkg/kafka"
)

type capturingPublisher struct {
	topic string
	event *kafka.Event
}

func (c *capturingPublisher) Publish(_ context.Context, topic string, event *kafka.Event) error {
	c.topic = topic
	c.event = event
	return nil
}

func TestSendVerificationEmail_PublishesRequest(t *testing.T) {
	pub := &capturingPublisher{}
	n := NewKafkaNotifier(pub, "https://testingforge.example.com")

	err := n.SendVerificationEmail(context.Background(), "alice@example.com", "alice", "raw-token-123")
	require.NoError(t, err)

	assert.Equal(t, TopicEmailVerification, pub.topic)
	require.NotNil(t, pub.event)
	assert.Equal(t, "notification.email_verification", pub.event.EventType)
	assert.Equal(t, "alice@example.com", pub.event.AggregateID)

	var data EmailVerificationData
	require.NoError(t, pub.event.UnmarshalData(&data))
	assert.Equal(t, "alice", data.Username)
	assert.Equal(t, "raw-token-123", data.Token)
	assert.Equal(t, "https://testingforge.example.com/api/v1/auth/verify-email/raw-token-123", data.VerifyURL)
}
