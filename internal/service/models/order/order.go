package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/corray333/backend-labs/shop/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/shop/internal/service/models/user"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// StatusPending is the status of a freshly placed order.
const StatusPending = "pending"

// Order represents a placed order. TotalPrice is a snapshot taken at creation.
type Order struct {
	ID               int64                 `json:"id"`
	OrderItems       []orderitem.OrderItem `json:"orderItems"`
	ShippingAddress1 string                `json:"shippingAddress1"`
	ShippingAddress2 string                `json:"shippingAddress2"`
	City             string                `json:"city"`
	Zip              string                `json:"zip"`
	Country          string                `json:"country"`
	Phone            string                `json:"phone"`
	Status           string                `json:"status"`
	TotalPrice       decimal.Decimal       `json:"totalPrice"`
	UserID           int64                 `json:"userId"`
	User             *user.Summary         `json:"user,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// ItemIDs returns the ids of the order items in order.
func (o *Order) ItemIDs() []int64 {
	ids := make([]int64, len(o.OrderItems))
	for i, item := range o.OrderItems {
		ids[i] = item.ID
	}

	return ids
}

// CreateCommand is a validated cart submission.
type CreateCommand struct {
	OrderItems       []orderitem.LineItem `validate:"required,min=1,dive"`
	ShippingAddress1 string               `validate:"required"`
	ShippingAddress2 string
	City             string `validate:"required"`
	Zip              string `validate:"required"`
	Country          string `validate:"required"`
	Phone            string `validate:"required"`
	Status           string
	UserID           int64 `validate:"gt=0"`
}

// Validate trims the command, applies defaults and validates it.
func (c *CreateCommand) Validate() error {
	c.ShippingAddress1 = strings.TrimSpace(c.ShippingAddress1)
	c.ShippingAddress2 = strings.TrimSpace(c.ShippingAddress2)
	c.City = strings.TrimSpace(c.City)
	c.Zip = strings.TrimSpace(c.Zip)
	c.Country = strings.TrimSpace(c.Country)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Status = strings.TrimSpace(c.Status)
	if c.Status == "" {
		c.Status = StatusPending
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid order: %w", err)
	}

	return nil
}
