package usersvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iuserrepo"
	"github.com/corray333/backend-labs/shop/internal/dal/postgres"
	userrepo "github.com/corray333/backend-labs/shop/internal/dal/repositories/user/postgres"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/user"
	"golang.org/x/crypto/bcrypt"
)

type tokenIssuer interface {
	Issue(userID int64, isAdmin bool) (string, error)
}

// Session is the result of a successful login.
type Session struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

// UserService is a service for managing users and their credentials.
type UserService struct {
	userRepo iuserrepo.IUserRepository
	issuer   tokenIssuer
	cost     int
}

// option is a function that configures the UserService.
type option func(*UserService)

// MustNewUserService creates a new UserService.
func MustNewUserService(opts ...option) *UserService {
	s := &UserService{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}

	if s.userRepo == nil || s.issuer == nil {
		panic("user service: dependencies are not configured")
	}

	return s
}

// WithPostgresClient binds the repository to the Postgres pool.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *UserService) {
		s.userRepo = userrepo.NewPostgresUserRepository(pgClient.Pool())
	}
}

// WithRepository sets the repository explicitly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo iuserrepo.IUserRepository) option {
	return func(s *UserService) {
		s.userRepo = repo
	}
}

// WithTokenIssuer sets the issuer of access tokens.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTokenIssuer(issuer tokenIssuer) option {
	return func(s *UserService) {
		s.issuer = issuer
	}
}

// Register creates a user. The password is required.
func (s *UserService) Register(ctx context.Context, in user.Input) (user.User, error) {
	if err := in.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}
	if in.Password == "" {
		return user.User{}, fmt.Errorf("%w: password is required", errs.ErrValidation)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return user.User{}, err
	}

	u := user.User{PasswordHash: hash}
	in.Apply(&u)

	return s.userRepo.Insert(ctx, u)
}

// Login checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, creds user.Credentials) (Session, error) {
	if err := creds.Validate(); err != nil {
		return Session{}, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	u, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if errors.Is(err, errs.ErrNotFound) {
		return Session{}, fmt.Errorf("%w: wrong email or password", errs.ErrUnauthorized)
	}
	if err != nil {
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
		return Session{}, fmt.Errorf("%w: wrong email or password", errs.ErrUnauthorized)
	}

	token, err := s.issuer.Issue(u.ID, u.IsAdmin)
	if err != nil {
		return Session{}, err
	}

	return Session{User: u.Email, Token: token}, nil
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

// Update overwrites the profile. The password is rehashed only when given.
func (s *UserService) Update(ctx context.Context, id int64, in user.Input) (user.User, error) {
	if err := in.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %w", errs.ErrValidation, err)
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if in.Password != "" {
		hash, err := s.hash(in.Password)
		if err != nil {
			return user.User{}, err
		}
		u.PasswordHash = hash
	}
	in.Apply(&u)

	return s.userRepo.Update(ctx, u)
}

// hash bcrypt-hashes a password. bcrypt rejects passwords over 72 bytes.
func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password must be at most 72 bytes", errs.ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}
