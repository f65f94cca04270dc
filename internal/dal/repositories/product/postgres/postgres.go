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
	"github.com/corray333/backend-labs/shop/internal/service/models/product"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var productColumns = []string{
	"id",
	"name",
	"description",
	"rich_description",
	"image",
	"images",
	"brand",
	"price",
	"category_id",
	"count_in_stock",
	"rating",
	"num_reviews",
	"is_featured",
	"created_at",
}

// ProductDal represents product data access layer model.
type ProductDal struct {
	Id              int64           `db:"id"`
	Name            string          `db:"name"`
	Description     string          `db:"description"`
	RichDescription string          `db:"rich_description"`
	Image           string          `db:"image"`
	Images          []string        `db:"images"`
	Brand           string          `db:"brand"`
	Price           decimal.Decimal `db:"price"`
	CategoryId      int64           `db:"category_id"`
	CountInStock    int             `db:"count_in_stock"`
	Rating          float64         `db:"rating"`
	NumReviews      int             `db:"num_reviews"`
	IsFeatured      bool            `db:"is_featured"`
	CreatedAt       time.Time       `db:"created_at"`
}

// ToModel converts ProductDal to service layer Product model.
func (p *ProductDal) ToModel() product.Product {
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return product.Product{
		ID:              p.Id,
		Name:            p.Name,
		Description:     p.Description,
		RichDescription: p.RichDescription,
		Image:           p.Image,
		Images:          images,
		Brand:           p.Brand,
		Price:           p.Price,
		CategoryID:      p.CategoryId,
		CountInStock:    p.CountInStock,
		Rating:          p.Rating,
		NumReviews:      p.NumReviews,
		IsFeatured:      p.IsFeatured,
		CreatedAt:       p.CreatedAt,
	}
}

func scanProduct(row pgx.Row) (product.Product, error) {
	var dal ProductDal
	err := row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Description,
		&dal.RichDescription,
		&dal.Image,
		&dal.Images,
		&dal.Brand,
		&dal.Price,
		&dal.CategoryId,
		&dal.CountInStock,
		&dal.Rating,
		&dal.NumReviews,
		&dal.IsFeatured,
		&dal.CreatedAt,
	)
	if err != nil {
		return product.Product{}, err
	}

	return dal.ToModel(), nil
}

// PostgresProductRepository represents a Postgres product repository.
type PostgresProductRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresProductRepository creates a new Postgres product repository.
func NewPostgresProductRepository(conn postgres.Conn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert persists a product and returns it with its ID.
func (r *PostgresProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}

	sql, args, err := r.sb.
		Insert("products").
		Columns(
			"name",
			"description",
			"rich_description",
			"image",
			"images",
			"brand",
			"price",
			"category_id",
			"count_in_stock",
			"rating",
			"num_reviews",
			"is_featured",
		).
		Values(
			p.Name,
			p.Description,
			p.RichDescription,
			p.Image,
			images,
			p.Brand,
			p.Price,
			p.CategoryID,
			p.CountInStock,
			p.Rating,
			p.NumReviews,
			p.IsFeatured,
		).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build query: %w", err)
	}

	created, err := scanProduct(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	return created, nil
}

// GetByID retrieves a single product.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (product.Product, error) {
	sql, args, err := r.sb.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build query: %w", err)
	}

	p, err := scanProduct(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, fmt.Errorf("product %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// Query retrieves products based on filter criteria.
func (r *PostgresProductRepository) Query(
	ctx context.Context,
	filter *product.QueryProductsModel,
) ([]product.Product, error) {
	query := r.sb.
		Select(productColumns...).
		From("products").
		OrderBy("id")

	if len(filter.CategoryIds) > 0 {
		query = query.Where(sq.Eq{"category_id": filter.CategoryIds})
	}

	if filter.FeaturedOnly {
		query = query.Where(sq.Eq{"is_featured": true})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	result := []product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetByIDs retrieves the products with the given IDs keyed by ID.
// Missing IDs are absent from the result.
func (r *PostgresProductRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]product.Product, error) {
	result := make(map[int64]product.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	sql, args, err := r.sb.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result[p.ID] = p
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Update overwrites every writable field of the product, images included.
func (r *PostgresProductRepository) Update(ctx context.Context, p product.Product) (product.Product, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}

	sql, args, err := r.sb.
		Update("products").
		SetMap(map[string]any{
			"name":             p.Name,
			"description":      p.Description,
			"rich_description": p.RichDescription,
			"image":            p.Image,
			"images":           images,
			"brand":            p.Brand,
			"price":            p.Price,
			"category_id":      p.CategoryID,
			"count_in_stock":   p.CountInStock,
			"rating":           p.Rating,
			"num_reviews":      p.NumReviews,
			"is_featured":      p.IsFeatured,
		}).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build query: %w", err)
	}

	updated, err := scanProduct(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, fmt.Errorf("product %d: %w", p.ID, errs.ErrNotFound)
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}

// Delete removes a product and returns the removed row.
func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) (product.Product, error) {
	sql, args, err := r.sb.
		Delete("products").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build query: %w", err)
	}

	p, err := scanProduct(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, fmt.Errorf("product %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to delete product: %w", err)
	}

	return p, nil
}

// Count returns the number of products.
func (r *PostgresProductRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("products").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}
