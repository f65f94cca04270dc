package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/category"
	"github.com/jackc/pgx/v5"
)

const categoryReturning = "RETURNING id, name, icon, color, image, created_at"

// CategoryDal represents category data access layer model.
type CategoryDal struct {
	Id        int64     `db:"id"`
	Name      string    `db:"name"`
	Icon      string    `db:"icon"`
	Color     string    `db:"color"`
	Image     string    `db:"image"`
	CreatedAt time.Time `db:"created_at"`
}

// ToModel converts CategoryDal to service layer Category model.
func (c *CategoryDal) ToModel() category.Category {
	return category.Category{
		ID:        c.Id,
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		Image:     c.Image,
		CreatedAt: c.CreatedAt,
	}
}

func scanCategory(row pgx.Row) (category.Category, error) {
	var dal CategoryDal
	if err := row.Scan(&dal.Id, &dal.Name, &dal.Icon, &dal.Color, &dal.Image, &dal.CreatedAt); err != nil {
		return category.Category{}, err
	}

	return dal.ToModel(), nil
}

// PostgresCategoryRepository represents a Postgres category repository.
type PostgresCategoryRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresCategoryRepository creates a new Postgres category repository.
func NewPostgresCategoryRepository(conn postgres.Conn) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostgresCategoryRepository) selectCategories() sq.SelectBuilder {
	return r.sb.
		Select("id", "name", "icon", "color", "image", "created_at").
		From("categories")
}

// Insert persists a category and returns it with its ID.
func (r *PostgresCategoryRepository) Insert(ctx context.Context, c category.Category) (category.Category, error) {
	sql, args, err := r.sb.
		Insert("categories").
		Columns("name", "icon", "color", "image").
		Values(c.Name, c.Icon, c.Color, c.Image).
		Suffix(categoryReturning).
		ToSql()
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to build query: %w", err)
	}

	created, err := scanCategory(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}

	return created, nil
}

// GetByID retrieves a single category.
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (category.Category, error) {
	sql, args, err := r.selectCategories().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to build query: %w", err)
	}

	c, err := scanCategory(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return category.Category{}, fmt.Errorf("category %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

// GetByIDs retrieves the categories with the given IDs keyed by ID.
func (r *PostgresCategoryRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]category.Category, error) {
	result := make(map[int64]category.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	categories, err := r.query(ctx, r.selectCategories().Where(sq.Eq{"id": ids}))
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		result[c.ID] = c
	}

	return result, nil
}

// List retrieves every category.
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	return r.query(ctx, r.selectCategories().OrderBy("id"))
}

func (r *PostgresCategoryRepository) query(ctx context.Context, q sq.SelectBuilder) ([]category.Category, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	result := []category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result = append(result, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Update overwrites the writable fields of a category.
func (r *PostgresCategoryRepository) Update(ctx context.Context, c category.Category) (category.Category, error) {
	sql, args, err := r.sb.
		Update("categories").
		Set("name", c.Name).
		Set("icon", c.Icon).
		Set("color", c.Color).
		Set("image", c.Image).
		Where(sq.Eq{"id": c.ID}).
		Suffix(categoryReturning).
		ToSql()
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to build query: %w", err)
	}

	updated, err := scanCategory(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return category.Category{}, fmt.Errorf("category %d: %w", c.ID, errs.ErrNotFound)
	}
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to update category: %w", err)
	}

	return updated, nil
}

// Delete removes a category and returns the removed row.
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) (category.Category, error) {
	sql, args, err := r.sb.
		Delete("categories").
		Where(sq.Eq{"id": id}).
		Suffix(categoryReturning).
		ToSql()
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to build query: %w", err)
	}

	c, err := scanCategory(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return category.Category{}, fmt.Errorf("category %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return category.Category{}, fmt.Errorf("failed to delete category: %w", err)
	}

	return c, nil
}
