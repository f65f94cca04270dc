package stripe

import (
	"context"
	"errors"
	"testing"

	"github.com/corray333/backend-labs/shop/internal/service/models/checkout"
	"github.com/corray333/backend-labs/shop/internal/service/models/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v76"
)

type fakeSessions struct {
	params *stripego.CheckoutSessionParams
	err    error
}

func (f *fakeSessions) New(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}

	return &stripego.CheckoutSession{ID: "cs_test_1"}, nil
}

func TestCreateSession(t *testing.T) {
	fake := &fakeSessions{}
	c := &Client{sessions: fake}

	s, err := c.CreateSession(context.Background(), checkout.SessionRequest{
		LineItems: []checkout.LineItem{
			{Name: "Phone", Image: "https://img/p.png", UnitAmount: 19999, Currency: currency.CurrencyUSD, Quantity: 2},
			{Name: "Case", UnitAmount: 500, Currency: currency.CurrencyUSD, Quantity: 1},
		},
		SuccessURL: "http://localhost:4200/success",
		CancelURL:  "http://localhost:4200/error",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", s.ID)

	p := fake.params
	require.Len(t, p.LineItems, 2)
	assert.Equal(t, "payment", stripego.StringValue(p.Mode))
	assert.Equal(t, "http://localhost:4200/success", stripego.StringValue(p.SuccessURL))
	assert.Equal(t, "http://localhost:4200/error", stripego.StringValue(p.CancelURL))

	first := p.LineItems[0]
	assert.Equal(t, int64(19999), stripego.Int64Value(first.PriceData.UnitAmount))
	assert.Equal(t, "usd", stripego.StringValue(first.PriceData.Currency))
	assert.Equal(t, "Phone", stripego.StringValue(first.PriceData.ProductData.Name))
	require.Len(t, first.PriceData.ProductData.Images, 1)
	assert.Equal(t, "https://img/p.png", stripego.StringValue(first.PriceData.ProductData.Images[0]))
	assert.Equal(t, int64(2), stripego.Int64Value(first.Quantity))

	assert.Nil(t, p.LineItems[1].PriceData.ProductData.Images)
}

func TestCreateSession_Error(t *testing.T) {
	c := &Client{sessions: &fakeSessions{err: errors.New("card declined")}}

	_, err := c.CreateSession(context.Background(), checkout.SessionRequest{})
	assert.ErrorContains(t, err, "card declined")
}
