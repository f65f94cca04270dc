package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	"github.com/corray333/backend-labs/shop/internal/service/models/orderitem"
)

// OrderItemDal represents order item data access layer model.
type OrderItemDal struct {
	Id        int64 `db:"id"`
	ProductId int64 `db:"product_id"`
	Quantity  int   `db:"quantity"`
}

// ToModel converts OrderItemDal to service layer OrderItem model.
func (oi *OrderItemDal) ToModel() orderitem.OrderItem {
	return orderitem.OrderItem{
		ID:        oi.Id,
		ProductID: oi.ProductId,
		Quantity:  oi.Quantity,
	}
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn postgres.Conn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert persists a single order item and returns it with its ID.
func (r *PostgresOrderItemRepository) Insert(
	ctx context.Context,
	item orderitem.OrderItem,
) (orderitem.OrderItem, error) {
	sql, args, err := r.sb.
		Insert("order_items").
		Columns("product_id", "quantity").
		Values(item.ProductID, item.Quantity).
		Suffix("RETURNING id, product_id, quantity").
		ToSql()
	if err != nil {
		return orderitem.OrderItem{}, fmt.Errorf("failed to build query: %w", err)
	}

	var dal OrderItemDal
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&dal.Id, &dal.ProductId, &dal.Quantity); err != nil {
		return orderitem.OrderItem{}, fmt.Errorf("failed to insert order item: %w", err)
	}

	return dal.ToModel(), nil
}

// GetByIDs retrieves the order items with the given IDs in no particular order.
func (r *PostgresOrderItemRepository) GetByIDs(
	ctx context.Context,
	ids []int64,
) ([]orderitem.OrderItem, error) {
	if len(ids) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	sql, args, err := r.sb.
		Select("id", "product_id", "quantity").
		From("order_items").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	result := make([]orderitem.OrderItem, 0, len(ids))
	for rows.Next() {
		var dal OrderItemDal
		if err := rows.Scan(&dal.Id, &dal.ProductId, &dal.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result = append(result, dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// DeleteByIDs removes the order items with the given IDs and reports how many were removed.
func (r *PostgresOrderItemRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sql, args, err := r.sb.
		Delete("order_items").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete order items: %w", err)
	}

	return tag.RowsAffected(), nil
}
