package checkout

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) CreateSession(ctx context.Context, cmd checkout.CreateCommand) (checkout.Session, error) {
	args := m.Called(ctx, cmd)

	return args.Get(0).(checkout.Session), args.Error(1)
}

func post(svc service, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout/create-checkout-session", strings.NewReader(body))
	CreateSession(rec, req, svc)

	return rec
}

func TestCreateSession(t *testing.T) {
	svc := &serviceMock{}
	svc.On("CreateSession", mock.Anything, checkout.CreateCommand{Items: []checkout.Item{{ProductID: 1, Quantity: 2}}}).
		Return(checkout.Session{ID: "cs_1"}, nil).Once()

	rec := post(svc, `[{"productId":1,"quantity":2}]`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"cs_1"}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestCreateSession_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		want       int
	}{
		{name: "malformed", body: `{"productId":1}`, want: http.StatusBadRequest},
		{name: "unknown product", body: `[{"productId":9,"quantity":1}]`,
			serviceErr: fmt.Errorf("%w: product 9", errs.ErrProductNotFound), want: http.StatusBadRequest},
		{name: "gateway", body: `[{"productId":1,"quantity":1}]`,
			serviceErr: fmt.Errorf("%w: card_declined", errs.ErrPaymentGateway), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &serviceMock{}
			if tt.serviceErr != nil {
				svc.On("CreateSession", mock.Anything, mock.Anything).Return(checkout.Session{}, tt.serviceErr).Once()
			}

			rec := post(svc, tt.body)

			assert.Equal(t, tt.want, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
