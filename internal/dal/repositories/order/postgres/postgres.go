package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/order"
	"github.com/corray333/backend-labs/shop/internal/service/models/orderitem"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var orderColumns = []string{
	"id",
	"order_items",
	"shipping_address1",
	"shipping_address2",
	"city",
	"zip",
	"country",
	"phone",
	"status",
	"total_price",
	"user_id",
	"created_at",
}

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id               int64           `db:"id"`
	OrderItems       []int64         `db:"order_items"`
	ShippingAddress1 string          `db:"shipping_address1"`
	ShippingAddress2 string          `db:"shipping_address2"`
	City             string          `db:"city"`
	Zip              string          `db:"zip"`
	Country          string          `db:"country"`
	Phone            string          `db:"phone"`
	Status           string          `db:"status"`
	TotalPrice       decimal.Decimal `db:"total_price"`
	UserId           int64           `db:"user_id"`
	CreatedAt        time.Time       `db:"created_at"`
}

// ToModel converts OrderDal to service layer Order model.
// Order items carry only their IDs; they are populated separately.
func (o *OrderDal) ToModel() order.Order {
	items := make([]orderitem.OrderItem, len(o.OrderItems))
	for i, id := range o.OrderItems {
		items[i] = orderitem.OrderItem{ID: id}
	}

	return order.Order{
		ID:               o.Id,
		OrderItems:       items,
		ShippingAddress1: o.ShippingAddress1,
		ShippingAddress2: o.ShippingAddress2,
		City:             o.City,
		Zip:              o.Zip,
		Country:          o.Country,
		Phone:            o.Phone,
		Status:           o.Status,
		TotalPrice:       o.TotalPrice,
		UserID:           o.UserId,
		CreatedAt:        o.CreatedAt,
	}
}

func scanOrder(row pgx.Row) (order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.OrderItems,
		&dal.ShippingAddress1,
		&dal.ShippingAddress2,
		&dal.City,
		&dal.Zip,
		&dal.Country,
		&dal.Phone,
		&dal.Status,
		&dal.TotalPrice,
		&dal.UserId,
		&dal.CreatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}

	return dal.ToModel(), nil
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.Conn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert persists an order and returns it with its ID and creation time.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns(
			"order_items",
			"shipping_address1",
			"shipping_address2",
			"city",
			"zip",
			"country",
			"phone",
			"status",
			"total_price",
			"user_id",
			"created_at",
		).
		Values(
			o.ItemIDs(),
			o.ShippingAddress1,
			o.ShippingAddress2,
			o.City,
			o.Zip,
			o.Country,
			o.Phone,
			o.Status,
			o.TotalPrice,
			o.UserID,
			o.CreatedAt,
		).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build query: %w", err)
	}

	created, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return created, nil
}

// GetByID retrieves a single order.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (order.Order, error) {
	sql, args, err := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build query: %w", err)
	}

	o, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, fmt.Errorf("order %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return o, nil
}

// Query retrieves orders based on filter criteria, newest first.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC", "id DESC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.UserIds) > 0 {
		query = query.Where(sq.Eq{"user_id": filter.UserIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	result := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets the status of an order and returns the updated order.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id int64, status string) (order.Order, error) {
	sql, args, err := r.sb.
		Update("orders").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build query: %w", err)
	}

	o, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, fmt.Errorf("order %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to update order: %w", err)
	}

	return o, nil
}

// Delete removes an order and returns the removed row.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id int64) (order.Order, error) {
	sql, args, err := r.sb.
		Delete("orders").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build query: %w", err)
	}

	o, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, fmt.Errorf("order %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to delete order: %w", err)
	}

	return o, nil
}

// Count returns the number of orders.
func (r *PostgresOrderRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("orders").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

// TotalSales returns the sum of total prices over all orders.
func (r *PostgresOrderRepository) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	sql, args, err := r.sb.Select("COALESCE(SUM(total_price), 0)").From("orders").ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build query: %w", err)
	}

	var total decimal.Decimal
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum order totals: %w", err)
	}

	return total, nil
}
