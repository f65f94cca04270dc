package users

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/user"
	"github.com/corray333/backend-labs/shop/internal/service/services/usersvc"
	"github.com/corray333/backend-labs/shop/internal/transport/http/middleware/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) Register(ctx context.Context, in user.Input) (user.User, error) {
	args := m.Called(ctx, in)

	return args.Get(0).(user.User), args.Error(1)
}

func (m *serviceMock) Login(ctx context.Context, creds user.Credentials) (usersvc.Session, error) {
	args := m.Called(ctx, creds)

	return args.Get(0).(usersvc.Session), args.Error(1)
}

func (m *serviceMock) List(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)

	return args.Get(0).([]user.User), args.Error(1)
}

func (m *serviceMock) Get(ctx context.Context, id int64) (user.User, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(user.User), args.Error(1)
}

func (m *serviceMock) Update(ctx context.Context, id int64, in user.Input) (user.User, error) {
	args := m.Called(ctx, id, in)

	return args.Get(0).(user.User), args.Error(1)
}

func (m *serviceMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *serviceMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

func newRouter(svc service) http.Handler {
	r := chi.NewRouter()
	r.Post("/users/register", func(w http.ResponseWriter, r *http.Request) { Register(w, r, svc) })
	r.Post("/users/login", func(w http.ResponseWriter, r *http.Request) { Login(w, r, svc) })
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) { Get(w, r, svc) })
	r.Put("/users/{id}", func(w http.ResponseWriter, r *http.Request) { Update(w, r, svc) })
	r.Get("/users/get/count", func(w http.ResponseWriter, r *http.Request) { Count(w, r, svc) })

	return r
}

func serve(h http.Handler, req *http.Request, claims *auth.Claims) *httptest.ResponseRecorder {
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestRegister_DropsAdminFlag(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Register", mock.Anything, mock.MatchedBy(func(in user.Input) bool {
		return in.Email == "ann@example.com" && in.Password == "secret1" && !in.IsAdmin
	})).Return(user.User{ID: 1, Email: "ann@example.com", PasswordHash: "hash"}, nil).Once()

	body := `{"name":"Ann","email":"ann@example.com","password":"secret1","phone":"1","isAdmin":true}`
	rec := serve(newRouter(svc), httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body)), nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")
	svc.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Login", mock.Anything, user.Credentials{Email: "ann@example.com", Password: "secret1"}).
		Return(usersvc.Session{User: "ann@example.com", Token: "tok"}, nil).Once()
	svc.On("Login", mock.Anything, user.Credentials{Email: "ann@example.com", Password: "bad"}).
		Return(usersvc.Session{}, fmt.Errorf("%w: wrong email or password", errs.ErrUnauthorized)).Once()
	h := newRouter(svc)

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"ann@example.com","password":"secret1"}`)), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":"ann@example.com","token":"tok"}`, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodPost, "/users/login",
		strings.NewReader(`{"email":"ann@example.com","password":"bad"}`)), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGet_SelfOrAdmin(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Get", mock.Anything, int64(5)).Return(user.User{ID: 5}, nil)
	h := newRouter(svc)

	tests := []struct {
		name   string
		claims *auth.Claims
		want   int
	}{
		{name: "self", claims: &auth.Claims{UserID: 5}, want: http.StatusOK},
		{name: "admin", claims: &auth.Claims{UserID: 1, IsAdmin: true}, want: http.StatusOK},
		{name: "other user", claims: &auth.Claims{UserID: 6}, want: http.StatusForbidden},
		{name: "anonymous", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/users/5", nil), tt.claims)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestUpdate_NonAdminCannotPromote(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(in user.Input) bool {
		return in.Name == "Ann" && !in.IsAdmin
	})).Return(user.User{ID: 5, Name: "Ann"}, nil).Once()

	body := `{"name":"Ann","email":"ann@example.com","phone":"1","isAdmin":true}`
	rec := serve(newRouter(svc), httptest.NewRequest(http.MethodPut, "/users/5", strings.NewReader(body)),
		&auth.Claims{UserID: 5})

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCount(t *testing.T) {
	svc := &serviceMock{}
	svc.On("Count", mock.Anything).Return(int64(4), nil).Once()

	rec := serve(newRouter(svc), httptest.NewRequest(http.MethodGet, "/users/get/count", nil), nil)

	assert.JSONEq(t, `{"userCount":4}`, rec.Body.String())
}
