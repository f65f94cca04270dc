package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/checkout"
	"github.com/corray333/backend-labs/shop/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	CreateSession(ctx context.Context, cmd checkout.CreateCommand) (checkout.Session, error)
}

// CreateSession handles the create checkout session request. The body is a
// JSON array of {productId, quantity}.
func CreateSession(w http.ResponseWriter, r *http.Request, service service) {
	var items []checkout.Item
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		respond.Error(w, r, "Error decoding request body for checkout",
			fmt.Errorf("%w: invalid request body: %w", errs.ErrValidation, err))

		return
	}

	session, err := service.CreateSession(r.Context(), checkout.CreateCommand{Items: items})
	if err != nil {
		respond.Error(w, r, "Error creating checkout session", err)

		return
	}

	respond.JSON(w, http.StatusOK, session)
}
