package rabbitmq

import (
	"fmt"
	"log/slog"

	"github.com/corray333/backend-labs/shop/internal/config"
	"github.com/streadway/amqp"
)

// Client holds the broker connection and the channel bound to the order events queue.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// MustNewClient dials the broker and declares the durable order events queue.
func MustNewClient(cfg config.RabbitMQ) *Client {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to rabbitmq: %v", err))
	}

	c := &Client{conn: conn}
	if err := c.open(cfg.Queue); err != nil {
		_ = conn.Close()
		panic(err)
	}

	go c.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))

	slog.Info("rabbitmq connected", "queue", c.queue)

	return c
}

func (c *Client) open(queue string) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	c.channel = ch
	c.queue = q.Name

	return nil
}

// watch logs an unexpected connection loss. Publishing fails afterwards.
func (c *Client) watch(closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		slog.Error("rabbitmq connection lost", "code", err.Code, "reason", err.Reason)
	}
}

// Channel returns the channel the queue was declared on.
func (c *Client) Channel() *amqp.Channel {
	return c.channel
}

// Queue returns the declared queue name.
func (c *Client) Queue() string {
	return c.queue
}

// Close closes the channel and then the connection.
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return err
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}
