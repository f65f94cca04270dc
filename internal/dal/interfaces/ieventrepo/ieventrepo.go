package ieventrepo

import (
	"context"

	"github.com/corray333/backend-labs/shop/internal/service/models/event"
)

// IEventRepository publishes order events to the message broker.
type IEventRepository interface {
	Publish(ctx context.Context, e event.OrderEvent) error
}
