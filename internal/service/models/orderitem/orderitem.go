package orderitem

import (
	"github.com/corray333/backend-labs/shop/internal/service/models/product"
)

// OrderItem represents a single persisted line of an order.
// Product is populated only on detailed reads.
type OrderItem struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product,omitempty"`
}

// LineItem is a {product, quantity} pair of a cart or checkout request.
type LineItem struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gt=0,lte=2147483647"`
}
