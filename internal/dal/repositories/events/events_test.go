package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/corray333/backend-labs/shop/internal/service/models/event"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	key  string
	msgs []amqp.Publishing
	err  error
}

func (f *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	f.key = key
	f.msgs = append(f.msgs, msg)

	return f.err
}

func TestPublish(t *testing.T) {
	ch := &fakeChannel{}
	repo := &EventRabbitMQRepository{channel: ch, queue: "shop.orders"}

	e := event.OrderEvent{
		Type:       event.TypeOrderCreated,
		OrderID:    7,
		UserID:     3,
		ItemIDs:    []int64{1, 2},
		TotalPrice: decimal.RequireFromString("12.5"),
		Status:     "pending",
		OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, repo.Publish(context.Background(), e))

	require.Len(t, ch.msgs, 1)
	assert.Equal(t, "shop.orders", ch.key)
	assert.Equal(t, "application/json", ch.msgs[0].ContentType)
	assert.Equal(t, "order.created", ch.msgs[0].Type)

	var got event.OrderEvent
	require.NoError(t, json.Unmarshal(ch.msgs[0].Body, &got))
	assert.Equal(t, int64(7), got.OrderID)
	assert.Equal(t, []int64{1, 2}, got.ItemIDs)
	assert.True(t, got.TotalPrice.Equal(e.TotalPrice))
}

func TestPublish_Error(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	repo := &EventRabbitMQRepository{channel: ch, queue: "q"}

	err := repo.Publish(context.Background(), event.OrderEvent{Type: event.TypeOrderDeleted})
	assert.ErrorContains(t, err, "order.deleted")
	assert.Len(t, ch.msgs, 1)
}

func TestPublish_CancelledContext(t *testing.T) {
	ch := &fakeChannel{}
	repo := &EventRabbitMQRepository{channel: ch, queue: "q"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Publish(ctx, event.OrderEvent{}), context.Canceled)
	assert.Empty(t, ch.msgs)
}
