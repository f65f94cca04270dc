package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/user"
	"github.com/corray333/backend-labs/shop/internal/service/services/usersvc"
	"github.com/corray333/backend-labs/shop/internal/transport/http/middleware/auth"
	"github.com/corray333/backend-labs/shop/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Register(ctx context.Context, in user.Input) (user.User, error)
	Login(ctx context.Context, creds user.Credentials) (usersvc.Session, error)
	List(ctx context.Context) ([]user.User, error)
	Get(ctx context.Context, id int64) (user.User, error)
	Update(ctx context.Context, id int64, in user.Input) (user.User, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// userRequest represents a create or update user request.
type userRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func (req *userRequest) toInput() user.Input {
	return user.Input{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		IsAdmin:   req.IsAdmin,
		Street:    req.Street,
		Apartment: req.Apartment,
		Zip:       req.Zip,
		City:      req.City,
		Country:   req.Country,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type countResponse struct {
	UserCount int64 `json:"userCount"`
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", errs.ErrValidation, err)
	}

	return nil
}

// selfOrAdmin allows access to the profile of the caller or to any profile for admins.
func selfOrAdmin(r *http.Request, id int64) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return nil, errs.ErrUnauthorized
	}
	if !claims.IsAdmin && claims.UserID != id {
		return nil, fmt.Errorf("%w: user %d", errs.ErrForbidden, id)
	}

	return claims, nil
}

// Register handles the public sign up request. Self-registered users are never admins.
func Register(w http.ResponseWriter, r *http.Request, service service) {
	var req userRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, "Error decoding request body for register", err)

		return
	}

	in := req.toInput()
	in.IsAdmin = false
	created, err := service.Register(r.Context(), in)
	if err != nil {
		respond.Error(w, r, "Error registering user", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// Create handles the admin create user request.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	var req userRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, "Error decoding request body for create user", err)

		return
	}

	created, err := service.Register(r.Context(), req.toInput())
	if err != nil {
		respond.Error(w, r, "Error creating user", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// Login handles the login request.
func Login(w http.ResponseWriter, r *http.Request, service service) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, "Error decoding request body for login", err)

		return
	}

	session, err := service.Login(r.Context(), user.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		respond.Error(w, r, "Error logging in", err)

		return
	}

	respond.JSON(w, http.StatusOK, session)
}

func List(w http.ResponseWriter, r *http.Request, service service) {
	users, err := service.List(r.Context())
	if err != nil {
		respond.Error(w, r, "Error listing users", err)

		return
	}

	respond.JSON(w, http.StatusOK, users)
}

func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing user id", err)

		return
	}
	if _, err := selfOrAdmin(r, id); err != nil {
		respond.Error(w, r, "Error authorizing user read", err)

		return
	}

	u, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, "Error getting user", err)

		return
	}

	respond.JSON(w, http.StatusOK, u)
}

// Update handles the update user request. Only admins may grant the admin flag.
func Update(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing user id", err)

		return
	}
	claims, err := selfOrAdmin(r, id)
	if err != nil {
		respond.Error(w, r, "Error authorizing user update", err)

		return
	}

	var req userRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, "Error decoding request body for update user", err)

		return
	}

	in := req.toInput()
	if !claims.IsAdmin {
		in.IsAdmin = false
	}
	updated, err := service.Update(r.Context(), id, in)
	if err != nil {
		respond.Error(w, r, "Error updating user", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

func Delete(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Error(w, r, "Error parsing user id", err)

		return
	}

	if err := service.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, "Error deleting user", err)

		return
	}

	respond.Success(w, "the user is deleted")
}

func Count(w http.ResponseWriter, r *http.Request, service service) {
	count, err := service.Count(r.Context())
	if err != nil {
		respond.Error(w, r, "Error counting users", err)

		return
	}

	respond.JSON(w, http.StatusOK, countResponse{UserCount: count})
}
