package productsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/icategoryrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	categoryrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/category/postgres"
	productrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/product/postgres"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/product"
	"github.com/corray333/backend-labs/shop/internal/service/models/upload"
	"golang.org/x/sync/errgroup"
)

type images interface {
	Save(ctx context.Context, f upload.File) (string, error)
	Remove(ctx context.Context, url string)
}

// ProductService is a service for managing the product catalog.
type ProductService struct {
	productRepo  iproductrepo.IProductRepository
	categoryRepo icategoryrepo.ICategoryRepository
	images       images
}

// option is a function that configures the ProductService.
type option func(*ProductService)

// MustNewProductService creates a new ProductService.
func MustNewProductService(opts ...option) *ProductService {
	s := &ProductService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.productRepo == nil || s.categoryRepo == nil || s.images == nil {
		panic("product service: dependencies are not configured")
	}

	return s
}

// WithPostgresClient binds the repositories to the Postgres pool.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *ProductService) {
		s.productRepo = productrepo.NewPostgresProductRepository(pgClient.Pool())
		s.categoryRepo = categoryrepo.NewPostgresCategoryRepository(pgClient.Pool())
	}
}

// WithRepositories sets the repositories explicitly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(products iproductrepo.IProductRepository, categories icategoryrepo.ICategoryRepository) option {
	return func(s *ProductService) {
		s.productRepo = products
		s.categoryRepo = categories
	}
}

// WithImageStore sets the store of product images.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithImageStore(store images) option {
	return func(s *ProductService) {
		s.images = store
	}
}

// List returns the products of the given categories, or all of them.
func (s *ProductService) List(ctx context.Context, categoryIDs []int64) ([]product.Product, error) {
	products, err := s.productRepo.Query(ctx, &product.QueryProductsModel{CategoryIds: categoryIDs})
	if err != nil {
		return nil, err
	}

	if err := s.populateCategories(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// Get returns a product with its category.
func (s *ProductService) Get(ctx context.Context, id int64) (product.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return product.Product{}, err
	}

	products := []product.Product{p}
	if err := s.populateCategories(ctx, products); err != nil {
		return product.Product{}, err
	}

	return products[0], nil
}

// Featured returns up to count featured products. Zero means no limit.
func (s *ProductService) Featured(ctx context.Context, count int) ([]product.Product, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative", errs.ErrValidation)
	}

	return s.productRepo.Query(ctx, &product.QueryProductsModel{FeaturedOnly: true, Limit: count})
}

// Count returns the number of products.
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.productRepo.Count(ctx)
}

// Create stores the image and inserts the product.
func (s *ProductService) Create(ctx context.Context, in product.Input, image *upload.File) (product.Product, error) {
	if err := s.validate(ctx, &in); err != nil {
		return product.Product{}, err
	}
	if image == nil {
		return product.Product{}, fmt.Errorf("%w: image is required", errs.ErrValidation)
	}

	url, err := s.images.Save(ctx, *image)
	if err != nil {
		return product.Product{}, err
	}

	p := product.Product{Image: url, Images: []string{}}
	in.Apply(&p)

	return s.productRepo.Insert(ctx, p)
}

// Update overwrites the product. A new image replaces the old one, which is
// removed once the update is stored.
func (s *ProductService) Update(
	ctx context.Context,
	id int64,
	in product.Input,
	image *upload.File,
) (product.Product, error) {
	if err := s.validate(ctx, &in); err != nil {
		return product.Product{}, err
	}

	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return product.Product{}, err
	}
	oldImage := p.Image

	if image != nil {
		if p.Image, err = s.images.Save(ctx, *image); err != nil {
			return product.Product{}, err
		}
	}
	in.Apply(&p)

	updated, err := s.productRepo.Update(ctx, p)
	if err != nil {
		return product.Product{}, err
	}

	if image != nil {
		s.images.Remove(ctx, oldImage)
	}

	return updated, nil
}

// UpdateGallery replaces the gallery of a product, keeping upload order.
func (s *ProductService) UpdateGallery(ctx context.Context, id int64, files []upload.File) (product.Product, error) {
	if len(files) == 0 {
		return product.Product{}, fmt.Errorf("%w: no images", errs.ErrValidation)
	}
	if len(files) > product.MaxGalleryImages {
		return product.Product{}, fmt.Errorf(
			"%w: at most %d images are allowed", errs.ErrValidation, product.MaxGalleryImages,
		)
	}

	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return product.Product{}, err
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			url, err := s.images.Save(gctx, f)
			if err != nil {
				return err
			}
			urls[i] = url

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return product.Product{}, err
	}

	p.Images = urls

	return s.productRepo.Update(ctx, p)
}

// Delete removes the product and then its images.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	p, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.images.Remove(ctx, p.Image)
	for _, url := range p.Images {
		s.images.Remove(ctx, url)
	}

	return nil
}

func (s *ProductService) validate(ctx context.Context, in *product.Input) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	_, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("%w: invalid category", errs.ErrValidation)
	}

	return err
}

func (s *ProductService) populateCategories(ctx context.Context, products []product.Product) error {
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.CategoryID)
	}

	categories, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range products {
		if c, ok := categories[products[i].CategoryID]; ok {
			products[i].Category = &c
		}
	}

	return nil
}
