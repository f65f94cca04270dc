package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/corray333/backend-labs/shop/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/shop/internal/service/models/event"
	"github.com/streadway/amqp"
)

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// EventRabbitMQRepository publishes order events to a RabbitMQ queue.
type EventRabbitMQRepository struct {
	// amqp channels are not safe for concurrent publishing
	mu      sync.Mutex
	channel channel
	queue   string
}

// NewEventRabbitMQRepository returns a publisher bound to the client's queue.
func NewEventRabbitMQRepository(client *rabbitmq.Client) *EventRabbitMQRepository {
	return &EventRabbitMQRepository{
		channel: client.Channel(),
		queue:   client.Queue(),
	}
}

// Publish sends the event once. Delivery failures are returned, never retried.
func (r *EventRabbitMQRepository) Publish(ctx context.Context, e event.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.Publish(
		"",
		r.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         string(e.Type),
			Timestamp:    e.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}

	return nil
}

// Noop drops every event. It is used when the broker is disabled.
type Noop struct{}

func (Noop) Publish(context.Context, event.OrderEvent) error {
	return nil
}
