package iuserrepo

import (
	"context"

	"github.com/corray333/backend-labs/shop/internal/service/models/user"
)

// IUserRepository is an interface for user postgres repository.
type IUserRepository interface {
	Insert(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetSummaries(ctx context.Context, ids []int64) (map[int64]user.Summary, error)
	List(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
