package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

var userColumns = []string{
	"id", "name", "email", "password_hash", "phone", "is_admin",
	"street", "apartment", "zip", "city", "country", "created_at",
}

const userReturning = "RETURNING id, name, email, password_hash, phone, is_admin, " +
	"street, apartment, zip, city, country, created_at"

// UserDal represents user data access layer model.
type UserDal struct {
	Id           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Phone        string    `db:"phone"`
	IsAdmin      bool      `db:"is_admin"`
	Street       string    `db:"street"`
	Apartment    string    `db:"apartment"`
	Zip          string    `db:"zip"`
	City         string    `db:"city"`
	Country      string    `db:"country"`
	CreatedAt    time.Time `db:"created_at"`
}

// ToModel converts UserDal to service layer User model.
func (u *UserDal) ToModel() user.User {
	return user.User{
		ID:           u.Id,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		IsAdmin:      u.IsAdmin,
		Street:       u.Street,
		Apartment:    u.Apartment,
		Zip:          u.Zip,
		City:         u.City,
		Country:      u.Country,
		CreatedAt:    u.CreatedAt,
	}
}

func scanUser(row pgx.Row) (user.User, error) {
	var dal UserDal
	err := row.Scan(
		&dal.Id, &dal.Name, &dal.Email, &dal.PasswordHash, &dal.Phone, &dal.IsAdmin,
		&dal.Street, &dal.Apartment, &dal.Zip, &dal.City, &dal.Country, &dal.CreatedAt,
	)
	if err != nil {
		return user.User{}, err
	}

	return dal.ToModel(), nil
}

// wrapWriteErr maps a duplicate email to a validation error.
func wrapWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: email already registered", errs.ErrValidation)
	}

	return fmt.Errorf("failed to %s user: %w", op, err)
}

// PostgresUserRepository represents a Postgres user repository.
type PostgresUserRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewPostgresUserRepository creates a new Postgres user repository.
func NewPostgresUserRepository(conn postgres.Conn) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert persists a user and returns it with its ID.
func (r *PostgresUserRepository) Insert(ctx context.Context, u user.User) (user.User, error) {
	sql, args, err := r.sb.
		Insert("users").
		Columns(
			"name", "email", "password_hash", "phone", "is_admin",
			"street", "apartment", "zip", "city", "country",
		).
		Values(
			u.Name, u.Email, u.PasswordHash, u.Phone, u.IsAdmin,
			u.Street, u.Apartment, u.Zip, u.City, u.Country,
		).
		Suffix(userReturning).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build query: %w", err)
	}

	created, err := scanUser(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		return user.User{}, wrapWriteErr("insert", err)
	}

	return created, nil
}

// GetByID retrieves a single user.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, fmt.Sprintf("user %d", id))
}

// GetByEmail retrieves a user by their lower-cased email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email}, "user "+email)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, where sq.Eq, what string) (user.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build query: %w", err)
	}

	u, err := scanUser(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, fmt.Errorf("%s: %w", what, errs.ErrNotFound)
	}
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetSummaries retrieves {id, name} of the given users keyed by ID.
func (r *PostgresUserRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]user.Summary, error) {
	result := make(map[int64]user.Summary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	sql, args, err := r.sb.Select("id", "name").From("users").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s user.Summary
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result[s.ID] = s
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// List retrieves every user.
func (r *PostgresUserRepository) List(ctx context.Context) ([]user.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	result := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Update overwrites the profile and password hash of a user.
func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	sql, args, err := r.sb.
		Update("users").
		SetMap(map[string]any{
			"name":          u.Name,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"phone":         u.Phone,
			"is_admin":      u.IsAdmin,
			"street":        u.Street,
			"apartment":     u.Apartment,
			"zip":           u.Zip,
			"city":          u.City,
			"country":       u.Country,
		}).
		Where(sq.Eq{"id": u.ID}).
		Suffix(userReturning).
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to build query: %w", err)
	}

	updated, err := scanUser(r.conn.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, fmt.Errorf("user %d: %w", u.ID, errs.ErrNotFound)
	}
	if err != nil {
		return user.User{}, wrapWriteErr("update", err)
	}

	return updated, nil
}

// Delete removes a user.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
	}

	return nil
}

// Count returns the number of users.
func (r *PostgresUserRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
