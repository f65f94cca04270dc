package categories

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/category"
	"github.com/corray333/backend-labs/shop/internal/service/models/upload"
	"github.com/corray333/backend-labs/shop/internal/transport/http/form"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var limits = form.Limits{MaxBody: 1 << 20, MaxImage: 1 << 10}

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) List(ctx context.Context) ([]category.Category, error) {
	args := m.Called(ctx)

	return args.Get(0).([]category.Category), args.Error(1)
}

func (m *serviceMock) Get(ctx context.Context, id int64) (category.Category, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(category.Category), args.Error(1)
}

func (m *serviceMock) Create(ctx context.Context, in category.Input, image *upload.File) (category.Category, error) {
	args := m.Called(ctx, in, image)

	return args.Get(0).(category.Category), args.Error(1)
}

func (m *serviceMock) Update(ctx context.Context, id int64, in category.Input, image *upload.File) (category.Category, error) {
	args := m.Called(ctx, id, in, image)

	return args.Get(0).(category.Category), args.Error(1)
}

func (m *serviceMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newRouter(svc service) http.Handler {
	r := chi.NewRouter()
	r.Get("/categories", func(w http.ResponseWriter, r *http.Request) { List(w, r, svc) })
	r.Get("/categories/{id}", func(w http.ResponseWriter, r *http.Request) { Get(w, r, svc) })
	r.Post("/categories", func(w http.ResponseWriter, r *http.Request) { Create(w, r, svc, limits) })
	r.Put("/categories/{id}", func(w http.ResponseWriter, r *http.Request) { Update(w, r, svc, limits) })
	r.Delete("/categories/{id}", func(w http.ResponseWriter, r *http.Request) { Delete(w, r, svc) })

	return r
}

func formRequest(t *testing.T, method, target string, withImage bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", " Lighting "))
	require.NoError(t, mw.WriteField("color", "#fff"))
	if withImage {
		w, err := mw.CreatePart(map[string][]string{
			"Content-Disposition": {`form-data; name="image"; filename="l.png"`},
			"Content-Type":        {"image/png"},
		})
		require.NoError(t, err)
		_, err = w.Write([]byte("png"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestCreate(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Create", mock.Anything, category.Input{Name: " Lighting ", Color: "#fff"},
		&upload.File{Filename: "l.png", ContentType: "image/png", Data: []byte("png")}).
		Return(category.Category{ID: 1, Name: "Lighting"}, nil).Once()

	rec := serve(newRouter(svc), formRequest(t, http.MethodPost, "/categories", true))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreate_ImageRequired(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Create", mock.Anything, mock.Anything, (*upload.File)(nil)).
		Return(category.Category{}, fmt.Errorf("%w: image is required", errs.ErrValidation)).Once()

	rec := serve(newRouter(svc), formRequest(t, http.MethodPost, "/categories", false))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"validation error: image is required"}`, rec.Body.String())
}

func TestCreate_NotMultipart(t *testing.T) {
	svc := &serviceMock{}
	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := serve(newRouter(svc), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateGetDelete(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Update", mock.Anything, int64(2), mock.Anything, (*upload.File)(nil)).
		Return(category.Category{ID: 2, Name: "Lighting"}, nil).Once()
	svc.On("Get", mock.Anything, int64(2)).Return(category.Category{ID: 2}, nil).Once()
	svc.On("Delete", mock.Anything, int64(2)).Return(nil).Once()
	svc.On("List", mock.Anything).Return([]category.Category{{ID: 2}}, nil).Once()
	h := newRouter(svc)

	assert.Equal(t, http.StatusOK, serve(h, formRequest(t, http.MethodPut, "/categories/2", false)).Code)
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/categories/2", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/categories", nil)).Code)

	rec := serve(h, httptest.NewRequest(http.MethodDelete, "/categories/2", nil))
	assert.JSONEq(t, `{"success":true,"message":"the category is deleted"}`, rec.Body.String())
	svc.AssertExpectations(t)
}
