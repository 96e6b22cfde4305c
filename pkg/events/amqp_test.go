package events

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisherPublish(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "registrations", logger: zap.NewNop()}

	require.NoError(t, p.Publish(context.Background(), Event{Type: RegistrationCompleted, Reference: "REF1", Email: "ada@example.com"}))
	assert.Equal(t, "registrations", ch.exchange)
	assert.Equal(t, RegistrationCompleted, ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "REF1:registration.completed", ch.msg.MessageId)

	var evt Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &evt))
	assert.Equal(t, "REF1", evt.Reference)
	assert.False(t, evt.OccurredAt.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
