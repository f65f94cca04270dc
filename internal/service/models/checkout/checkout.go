package checkout

import (
	"fmt"

	"github.com/corray333/backend-labs/shop/internal/service/models/currency"
	"github.com/go-playground/validator/v10"
)

// Item is a product the customer wants to pay for.
type Item struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int64 `json:"quantity" validate:"gt=0,lte=2147483647"`
}

// CreateCommand is a request to open a checkout session.
type CreateCommand struct {
	Items []Item `validate:"min=1,dive"`
}

// Validate validates the command.
func (c *CreateCommand) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid checkout: %w", err)
	}

	return nil
}

// LineItem is a priced line submitted to the payment gateway.
// UnitAmount is in minor units (cents).
type LineItem struct {
	Name       string
	Image      string
	UnitAmount int64
	Currency   currency.Currency
	Quantity   int64
}

// SessionRequest describes a checkout session to create.
type SessionRequest struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

// Session is a checkout session issued by the payment gateway.
type Session struct {
	ID string `json:"id"`
}
