package stripe

import (
	"context"
	"fmt"

	"github.com/corray333/backend-labs/shop/internal/config"
	"github.com/corray333/backend-labs/shop/internal/service/models/checkout"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type sessions interface {
	New(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
}

// Client creates hosted checkout sessions in Stripe.
type Client struct {
	sessions sessions
}

// NewClient creates a new Stripe client.
func NewClient(cfg config.Stripe) *Client {
	return &Client{
		sessions: client.New(cfg.SecretKey, nil).CheckoutSessions,
	}
}

// CreateSession creates a card payment session for the given lines.
func (c *Client) CreateSession(ctx context.Context, req checkout.SessionRequest) (checkout.Session, error) {
	s, err := c.sessions.New(sessionParams(ctx, req))
	if err != nil {
		return checkout.Session{}, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return checkout.Session{ID: s.ID}, nil
}

func sessionParams(ctx context.Context, req checkout.SessionRequest) *stripego.CheckoutSessionParams {
	lines := make([]*stripego.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		productData := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripego.String(li.Name),
		}
		if li.Image != "" {
			productData.Images = stripego.StringSlice([]string{li.Image})
		}

		lines = append(lines, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(string(li.Currency)),
				ProductData: productData,
				UnitAmount:  stripego.Int64(li.UnitAmount),
			},
			Quantity: stripego.Int64(li.Quantity),
		})
	}

	params := &stripego.CheckoutSessionParams{
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		LineItems:          lines,
		SuccessURL:         stripego.String(req.SuccessURL),
		CancelURL:          stripego.String(req.CancelURL),
	}
	params.Context = ctx

	return params
}
