package products

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/product"
	"github.com/corray333/backend-labs/shop/internal/service/models/upload"
	"github.com/corray333/backend-labs/shop/internal/transport/http/form"
	"github.com/corray333/backend-labs/shop/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// service is an interface for the service layer.
type service interface {
	List(ctx context.Context, categoryIDs []int64) ([]product.Product, error)
	Get(ctx context.Context, id int64) (product.Product, error)
	Featured(ctx context.Context, count int) ([]product.Product, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, in product.Input, image *upload.File) (product.Product, error)
	Update(ctx context.Context, id int64, in product.Input, image *upload.File) (product.Product, error)
	UpdateGallery(ctx context.Context, id int64, files []upload.File) (product.Product, error)
	Delete(ctx context.Context, id int64) error
}

// productForm represents the text fields of a product multipart form.
type productForm struct {
	Name            string          `schema:"name"`
	Description     string          `schema:"description"`
	RichDescription string          `schema:"richDescription"`
	Brand           string          `schema:"brand"`
	Price           decimal.Decimal `schema:"price"`
	Category        int64           `schema:"category"`
	CountInStock    int             `schema:"countInStock"`
	Rating          float64         `schema:"rating"`
	NumReviews      int             `schema:"numReviews"`
	IsFeatured      bool            `schema:"isFeatured"`
}

func (f *productForm) toInput() product.Input {
	return product.Input{
		Name:            f.Name,
		Description:     f.Description,
		RichDescription: f.RichDescription,
		Brand:           f.Brand,
		Price:           f.Price,
		CategoryID:      f.Category,
		CountInStock:    f.CountInStock,
		Rating:          f.Rating,
		NumReviews:      f.NumReviews,
		IsFeatured:      f.IsFeatured,
	}
}

type countResponse struct {
	ProductCount int64 `json:"productCount"`
}

// parseCategories parses a comma-separated list of category ids.
func parseCategories(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid category id %q", errs.ErrValidation, part)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// List handles the list products request, optionally filtered by ?categories=1,2.
func List(w http.ResponseWriter, r *http.Request, service service) {
	categoryIDs, err := parseCategories(r.URL.Query().Get("categories"))
	if err != nil {
		respond.Error(w, r, "Error parsing categories", err)

		return
	}

	products, err := service.List(r.Context(), categoryIDs)
	if err != nil {
		respond.Error(w, r, "Error listing products", err)

		return
	}

	respond.JSON(w, http.StatusOK, products)
}

// Get handles the get product request.
func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing product id", err)

		return
	}

	p, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, "Error getting product", err)

		return
	}

	respond.JSON(w, http.StatusOK, p)
}

// Featured handles the featured products request. A count of 0 returns all of them.
func Featured(w http.ResponseWriter, r *http.Request, service service) {
	raw := chi.URLParam(r, "count")
	count, err := strconv.Atoi(raw)
	if err != nil {
		respond.Error(w, r, "Error parsing count", fmt.Errorf("%w: invalid count %q", errs.ErrValidation, raw))

		return
	}

	products, err := service.Featured(r.Context(), count)
	if err != nil {
		respond.Error(w, r, "Error listing featured products", err)

		return
	}

	respond.JSON(w, http.StatusOK, products)
}

// Count handles the product count request.
func Count(w http.ResponseWriter, r *http.Request, service service) {
	count, err := service.Count(r.Context())
	if err != nil {
		respond.Error(w, r, "Error counting products", err)

		return
	}

	respond.JSON(w, http.StatusOK, countResponse{ProductCount: count})
}

// Create handles the create product request.
func Create(w http.ResponseWriter, r *http.Request, service service, limits form.Limits) {
	in, image, err := parseProduct(w, r, limits)
	if err != nil {
		respond.Error(w, r, "Error parsing product form", err)

		return
	}

	created, err := service.Create(r.Context(), in, image)
	if err != nil {
		respond.Error(w, r, "Error creating product", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// Update handles the update product request. The image is optional.
func Update(w http.ResponseWriter, r *http.Request, service service, limits form.Limits) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing product id", err)

		return
	}

	in, image, err := parseProduct(w, r, limits)
	if err != nil {
		respond.Error(w, r, "Error parsing product form", err)

		return
	}

	updated, err := service.Update(r.Context(), id, in, image)
	if err != nil {
		respond.Error(w, r, "Error updating product", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

// UpdateGallery handles the replace gallery images request.
func UpdateGallery(w http.ResponseWriter, r *http.Request, service service, limits form.Limits) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing product id", err)

		return
	}

	var ignored struct{}
	if err := form.ParseMultipart(w, r, limits.MaxBody, &ignored); err != nil {
		respond.Error(w, r, "Error parsing gallery form", err)

		return
	}

	files, err := form.Images(r, "images", limits.MaxImage, product.MaxGalleryImages)
	if err != nil {
		respond.Error(w, r, "Error reading gallery images", err)

		return
	}

	updated, err := service.UpdateGallery(r.Context(), id, files)
	if err != nil {
		respond.Error(w, r, "Error updating gallery", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

// Delete handles the delete product request.
func Delete(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing product id", err)

		return
	}

	if err := service.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, "Error deleting product", err)

		return
	}

	respond.Success(w, "the product is deleted")
}

func parseProduct(w http.ResponseWriter, r *http.Request, limits form.Limits) (product.Input, *upload.File, error) {
	var f productForm
	if err := form.ParseMultipart(w, r, limits.MaxBody, &f); err != nil {
		return product.Input{}, nil, err
	}

	image, err := form.Image(r, "image", limits.MaxImage)
	if err != nil {
		return product.Input{}, nil, err
	}

	return f.toInput(), image, nil
}
