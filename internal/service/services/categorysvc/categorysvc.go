package categorysvc

import (
	"context"
	"fmt"

	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/icategoryrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	categoryrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/category/postgres"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/category"
	"github.com/corray333/backend-labs/shop/internal/service/models/upload"
)

type images interface {
	Save(ctx context.Context, f upload.File) (string, error)
	Remove(ctx context.Context, url string)
}

// CategoryService is a service for managing product categories.
type CategoryService struct {
	categoryRepo icategoryrepo.ICategoryRepository
	images       images
}

// option is a function that configures the CategoryService.
type option func(*CategoryService)

// MustNewCategoryService creates a new CategoryService.
func MustNewCategoryService(opts ...option) *CategoryService {
	s := &CategoryService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.categoryRepo == nil || s.images == nil {
		panic("category service: dependencies are not configured")
	}

	return s
}

// WithPostgresClient binds the repository to the Postgres pool.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CategoryService) {
		s.categoryRepo = categoryrepo.NewPostgresCategoryRepository(pgClient.Pool())
	}
}

// WithRepository sets the repository explicitly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo icategoryrepo.ICategoryRepository) option {
	return func(s *CategoryService) {
		s.categoryRepo = repo
	}
}

// WithImageStore sets the store of category images.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithImageStore(store images) option {
	return func(s *CategoryService) {
		s.images = store
	}
}

func (s *CategoryService) List(ctx context.Context) ([]category.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (category.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// Create stores the image and inserts the category.
func (s *CategoryService) Create(ctx context.Context, in category.Input, image *upload.File) (category.Category, error) {
	if err := in.Validate(); err != nil {
		return category.Category{}, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}
	if image == nil {
		return category.Category{}, fmt.Errorf("%w: image is required", errs.ErrValidation)
	}

	url, err := s.images.Save(ctx, *image)
	if err != nil {
		return category.Category{}, err
	}

	return s.categoryRepo.Insert(ctx, category.Category{
		Name:  in.Name,
		Icon:  in.Icon,
		Color: in.Color,
		Image: url,
	})
}

// Update overwrites the category. A new image replaces the old one.
func (s *CategoryService) Update(
	ctx context.Context,
	id int64,
	in category.Input,
	image *upload.File,
) (category.Category, error) {
	if err := in.Validate(); err != nil {
		return category.Category{}, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return category.Category{}, err
	}
	oldImage := c.Image

	if image != nil {
		if c.Image, err = s.images.Save(ctx, *image); err != nil {
			return category.Category{}, err
		}
	}
	c.Name, c.Icon, c.Color = in.Name, in.Icon, in.Color

	updated, err := s.categoryRepo.Update(ctx, c)
	if err != nil {
		return category.Category{}, err
	}

	if image != nil {
		s.images.Remove(ctx, oldImage)
	}

	return updated, nil
}

// Delete removes the category and then its image. Products keep their
// category reference.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	c, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.images.Remove(ctx, c.Image)

	return nil
}
