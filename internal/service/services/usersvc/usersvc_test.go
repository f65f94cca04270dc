package usersvc

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/corray333/backend-labs/shop/internal/dal/interfaces/iuserrepo"
	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/corray333/backend-labs/shop/internal/service/models/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	iuserrepo.IUserRepository

	nextID int64
	users  map[int64]user.User
}

func (f *fakeUserRepo) Insert(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return user.User{}, fmt.Errorf("%w: email already registered", errs.ErrValidation)
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u

	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, errs.ErrNotFound
	}

	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}

	return user.User{}, errs.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u

	return u, nil
}

type issuerFunc func(userID int64, isAdmin bool) (string, error)

func (f issuerFunc) Issue(userID int64, isAdmin bool) (string, error) {
	return f(userID, isAdmin)
}

func newService() (*UserService, *fakeUserRepo) {
	repo := &fakeUserRepo{users: map[int64]user.User{}}
	svc := MustNewUserService(
		WithRepository(repo),
		WithTokenIssuer(issuerFunc(func(userID int64, isAdmin bool) (string, error) {
			return fmt.Sprintf("token-%d-%t", userID, isAdmin), nil
		})),
	)
	svc.cost = bcrypt.MinCost

	return svc, repo
}

func input() user.Input {
	return user.Input{
		Name:     "Ann",
		Email:    " Ann@Example.com ",
		Password: "secret1",
		Phone:    "+420",
		IsAdmin:  true,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo := newService()

	u, err := svc.Register(context.Background(), input())
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "secret1", repo.users[u.ID].PasswordHash)

	session, err := svc.Login(context.Background(), user.Credentials{Email: "ANN@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, Session{User: "ann@example.com", Token: "token-1-true"}, session)
}

func TestRegister_Errors(t *testing.T) {
	svc, repo := newService()

	noPassword := input()
	noPassword.Password = ""
	_, err := svc.Register(context.Background(), noPassword)
	assert.ErrorIs(t, err, errs.ErrValidation)

	badEmail := input()
	badEmail.Email = "nope"
	_, err = svc.Register(context.Background(), badEmail)
	assert.ErrorIs(t, err, errs.ErrValidation)

	longPassword := input()
	longPassword.Password = strings.Repeat("a", 73)
	_, err = svc.Register(context.Background(), longPassword)
	assert.ErrorIs(t, err, errs.ErrValidation)

	// 30 runes pass the length tag but take 90 bytes.
	wideRunes := input()
	wideRunes.Password = strings.Repeat("€", 30)
	_, err = svc.Register(context.Background(), wideRunes)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, repo.users)

	_, err = svc.Register(context.Background(), input())
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), input())
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestLogin_WrongCredentials(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Register(context.Background(), input())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), user.Credentials{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = svc.Login(context.Background(), user.Credentials{Email: "bob@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestUpdate_Password(t *testing.T) {
	svc, repo := newService()
	u, err := svc.Register(context.Background(), input())
	require.NoError(t, err)
	oldHash := repo.users[u.ID].PasswordHash

	in := input()
	in.Password = ""
	in.Name = "Anna"
	updated, err := svc.Update(context.Background(), u.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.Name)
	assert.Equal(t, oldHash, repo.users[u.ID].PasswordHash)

	in.Password = "changed1"
	_, err = svc.Update(context.Background(), u.ID, in)
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, repo.users[u.ID].PasswordHash)

	_, err = svc.Login(context.Background(), user.Credentials{Email: "ann@example.com", Password: "changed1"})
	assert.NoError(t, err)

	in.Password = strings.Repeat("€", 30)
	_, err = svc.Update(context.Background(), u.ID, in)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Update(context.Background(), 9, input())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
