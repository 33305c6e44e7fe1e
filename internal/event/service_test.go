package event_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/event"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	running  bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	c.running = true
	return func() { c.running = false }, nil
}

func TestService(t *testing.T) {
	var logs bytes.Buffer
	consumer := &fakeConsumer{handlers: map[string]mq.HandlerFunc{}}
	svc := event.New(slog.New(slog.NewJSONHandler(&logs, nil)), consumer)

	cleanup, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, consumer.running)
	require.Contains(t, consumer.handlers, event.TopicProductCreated)
	require.Contains(t, consumer.handlers, event.TopicInventoryChanged)

	t.Run("Should warn when stock reaches zero", func(t *testing.T) {
		payload, err := json.Marshal(event.InventoryChangedEvent{
			ProductID: uuid.New(), StoreID: uuid.New(), Delta: -3, Quantity: 0, Reason: event.ReasonQuantitySet,
		})
		require.NoError(t, err)

		require.NoError(t, consumer.handlers[event.TopicInventoryChanged](context.Background(), event.TopicInventoryChanged, payload))
		assert.Contains(t, logs.String(), `"level":"WARN"`)
		assert.Contains(t, logs.String(), "product out of stock at store")
	})

	t.Run("Should reject malformed payloads", func(t *testing.T) {
		err := consumer.handlers[event.TopicProductCreated](context.Background(), event.TopicProductCreated, []byte("{"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshal product.created event")
	})

	cleanup()
	assert.False(t, consumer.running)
}
