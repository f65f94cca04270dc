package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the kind of an order event.
type Type string

const (
	TypeOrderCreated Type = "order.created"
	TypeOrderDeleted Type = "order.deleted"
)

// OrderEvent is published to the message broker after an order changes.
type OrderEvent struct {
	Type       Type            `json:"type"`
	OrderID    int64           `json:"orderId"`
	UserID     int64           `json:"userId"`
	ItemIDs    []int64         `json:"itemIds"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	OccurredAt time.Time       `json:"occurredAt"`
}
