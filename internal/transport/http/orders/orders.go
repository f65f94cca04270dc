package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/order"
	"github.com/corray333/backend-labs/shop/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/shop/internal/transport/http/middleware/auth"
	"github.com/corray333/backend-labs/shop/internal/transport/http/respond"
	"github.com/shopspring/decimal"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, cmd order.CreateCommand) (order.Order, error)
	List(ctx context.Context) ([]order.Order, error)
	Get(ctx context.Context, id int64) (order.Order, error)
	UserOrders(ctx context.Context, userID int64) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (order.Order, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	TotalSales(ctx context.Context) (decimal.Decimal, error)
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	OrderItems       []orderitem.LineItem `json:"orderItems"`
	ShippingAddress1 string               `json:"shippingAddress1"`
	ShippingAddress2 string               `json:"shippingAddress2"`
	City             string               `json:"city"`
	Zip              string               `json:"zip"`
	Country          string               `json:"country"`
	Phone            string               `json:"phone"`
	Status           string               `json:"status"`
	UserID           int64                `json:"userId"`
}

// toCommand converts the request to a command. The user defaults to the caller.
func (req *createOrderRequest) toCommand(claims *auth.Claims) order.CreateCommand {
	userID := req.UserID
	if userID == 0 && claims != nil {
		userID = claims.UserID
	}

	return order.CreateCommand{
		OrderItems:       req.OrderItems,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           req.Status,
		UserID:           userID,
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type countResponse struct {
	OrderCount int64 `json:"orderCount"`
}

type totalSalesResponse struct {
	TotalSales decimal.Decimal `json:"totalsales"`
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", errs.ErrValidation, err)
	}

	return nil
}

// Create handles the place order request.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	var req createOrderRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, "Error decoding request body for create order", err)

		return
	}

	claims, _ := auth.ClaimsFromContext(r.Context())
	created, err := service.Create(r.Context(), req.toCommand(claims))
	if err != nil {
		respond.Error(w, r, "Error creating order", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// List handles the list orders request.
func List(w http.ResponseWriter, r *http.Request, service service) {
	orders, err := service.List(r.Context())
	if err != nil {
		respond.Error(w, r, "Error listing orders", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}

// Get handles the get order request.
func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing order id", err)

		return
	}

	o, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, "Error getting order", err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}

// UserOrders handles the list orders of a user request.
func UserOrders(w http.ResponseWriter, r *http.Request, service service) {
	userID, err := respond.PathID(r, "userId")
	if err != nil {
		respond.Error(w, r, "Error parsing user id", err)

		return
	}

	orders, err := service.UserOrders(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, "Error listing user orders", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}

// UpdateStatus handles the update order status request.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing order id", err)

		return
	}

	var req updateStatusRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, "Error decoding request body for update order", err)

		return
	}

	updated, err := service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respond.Error(w, r, "Error updating order", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

// Delete handles the delete order request. It answers once the order and its
// items are gone.
func Delete(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing order id", err)

		return
	}

	if err := service.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, "Error deleting order", err)

		return
	}

	respond.Success(w, "the order is deleted")
}

// Count handles the order count request.
func Count(w http.ResponseWriter, r *http.Request, service service) {
	count, err := service.Count(r.Context())
	if err != nil {
		respond.Error(w, r, "Error counting orders", err)

		return
	}

	respond.JSON(w, http.StatusOK, countResponse{OrderCount: count})
}

// TotalSales handles the total sales request.
func TotalSales(w http.ResponseWriter, r *http.Request, service service) {
	total, err := service.TotalSales(r.Context())
	if err != nil {
		respond.Error(w, r, "Error computing total sales", err)

		return
	}

	respond.JSON(w, http.StatusOK, totalSalesResponse{TotalSales: total})
}
