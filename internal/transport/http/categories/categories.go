package categories

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/shop/internal/service/models/category"
	"github.com/corray333/backend-labs/shop/internal/service/models/upload"
	"github.com/corray333/backend-labs/shop/internal/transport/http/form"
	"github.com/corray333/backend-labs/shop/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	List(ctx context.Context) ([]category.Category, error)
	Get(ctx context.Context, id int64) (category.Category, error)
	Create(ctx context.Context, in category.Input, image *upload.File) (category.Category, error)
	Update(ctx context.Context, id int64, in category.Input, image *upload.File) (category.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryForm struct {
	Name  string `schema:"name"`
	Icon  string `schema:"icon"`
	Color string `schema:"color"`
}

func List(w http.ResponseWriter, r *http.Request, service service) {
	categories, err := service.List(r.Context())
	if err != nil {
		respond.Error(w, r, "Error listing categories", err)

		return
	}

	respond.JSON(w, http.StatusOK, categories)
}

func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing category id", err)

		return
	}

	c, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, "Error getting category", err)

		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func Create(w http.ResponseWriter, r *http.Request, service service, limits form.Limits) {
	in, image, err := parseCategory(w, r, limits)
	if err != nil {
		respond.Error(w, r, "Error parsing category form", err)

		return
	}

	created, err := service.Create(r.Context(), in, image)
	if err != nil {
		respond.Error(w, r, "Error creating category", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

func Update(w http.ResponseWriter, r *http.Request, service service, limits form.Limits) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing category id", err)

		return
	}

	in, image, err := parseCategory(w, r, limits)
	if err != nil {
		respond.Error(w, r, "Error parsing category form", err)

		return
	}

	updated, err := service.Update(r.Context(), id, in, image)
	if err != nil {
		respond.Error(w, r, "Error updating category", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

func Delete(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing category id", err)

		return
	}

	if err := service.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, "Error deleting category", err)

		return
	}

	respond.Success(w, "the category is deleted")
}

func parseCategory(w http.ResponseWriter, r *http.Request, limits form.Limits) (category.Input, *upload.File, error) {
	var f categoryForm
	if err := form.ParseMultipart(w, r, limits.MaxBody, &f); err != nil {
		return category.Input{}, nil, err
	}

	image, err := form.Image(r, "image", limits.MaxImage)
	if err != nil {
		return category.Input{}, nil, err
	}

	return category.Input{Name: f.Name, Icon: f.Icon, Color: f.Color}, image, nil
}
