package category

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Category groups products.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

// Input carries the writable fields of a category.
type Input struct {
	Name  string `validate:"required"`
	Icon  string
	Color string
}

// Normalize trims whitespace from every field.
func (in *Input) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	in.Color = strings.TrimSpace(in.Color)
}

// Validate validates the category input.
func (in *Input) Validate() error {
	in.Normalize()
	if err := validator.New().Struct(in); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}

	return nil
}
