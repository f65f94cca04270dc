package iorderitemrepo

import (
	"context"

	"github.com/corray333/backend-labs/shop/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for order item postgres repository.
type IOrderItemRepository interface {
	Insert(ctx context.Context, item orderitem.OrderItem) (orderitem.OrderItem, error)
	GetByIDs(ctx context.Context, ids []int64) ([]orderitem.OrderItem, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}
