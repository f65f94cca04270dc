package icategoryrepo

import (
	"context"

	"github.com/corray333/backend-labs/shop/internal/service/models/category"
)

// ICategoryRepository is an interface for category postgres repository.
type ICategoryRepository interface {
	Insert(ctx context.Context, c category.Category) (category.Category, error)
	GetByID(ctx context.Context, id int64) (category.Category, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
	Update(ctx context.Context, c category.Category) (category.Category, error)
	Delete(ctx context.Context, id int64) (category.Category, error)
}
