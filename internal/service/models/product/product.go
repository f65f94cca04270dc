package product

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/corray333/backend-labs/shop/internal/service/models/category"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MaxGalleryImages is the upper bound of images in a product gallery.
const MaxGalleryImages = 10

var ErrNegativePrice = errors.New("price must not be negative")

// Product represents a product in the catalog.
type Product struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	RichDescription string             `json:"richDescription"`
	Image           string             `json:"image"`
	Images          []string           `json:"images"`
	Brand           string             `json:"brand"`
	Price           decimal.Decimal    `json:"price"`
	CategoryID      int64              `json:"categoryId"`
	Category        *category.Category `json:"category,omitempty"`
	CountInStock    int                `json:"countInStock"`
	Rating          float64            `json:"rating"`
	NumReviews      int                `json:"numReviews"`
	IsFeatured      bool               `json:"isFeatured"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Input carries the writable fields of a product.
type Input struct {
	Name            string `validate:"required"`
	Description     string `validate:"required"`
	RichDescription string
	Brand           string
	Price           decimal.Decimal
	CategoryID      int64   `validate:"gt=0"`
	CountInStock    int     `validate:"min=0,max=255"`
	Rating          float64 `validate:"min=0"`
	NumReviews      int     `validate:"min=0"`
	IsFeatured      bool
}

// Validate validates the product input.
func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Brand = strings.TrimSpace(in.Brand)
	if err := validator.New().Struct(in); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}

	return nil
}

// Apply copies the input onto the product, keeping identity and images.
func (in *Input) Apply(p *Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.RichDescription = in.RichDescription
	p.Brand = in.Brand
	p.Price = in.Price
	p.CategoryID = in.CategoryID
	p.CountInStock = in.CountInStock
	p.Rating = in.Rating
	p.NumReviews = in.NumReviews
	p.IsFeatured = in.IsFeatured
}
