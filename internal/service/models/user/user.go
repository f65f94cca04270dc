package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// User represents a registered customer or administrator.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	IsAdmin      bool      `json:"isAdmin"`
	Street       string    `json:"street"`
	Apartment    string    `json:"apartment"`
	Zip          string    `json:"zip"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Summary is the part of a user embedded into other resources.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Input carries the writable fields of a user.
// Password is required on create and optional on update.
type Input struct {
	Name      string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"omitempty,min=6,max=72"`
	Phone     string `validate:"required"`
	IsAdmin   bool
	Street    string
	Apartment string
	Zip       string
	City      string
	Country   string
}

// Validate validates the user input.
func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validator.New().Struct(in); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	return nil
}

// Apply copies the profile fields onto the user. The password is handled by the caller.
func (in *Input) Apply(u *User) {
	u.Name = in.Name
	u.Email = in.Email
	u.Phone = in.Phone
	u.IsAdmin = in.IsAdmin
	u.Street = in.Street
	u.Apartment = in.Apartment
	u.Zip = in.Zip
	u.City = in.City
	u.Country = in.Country
}

// Credentials is a login attempt.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Validate validates the credentials.
func (c *Credentials) Validate() error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))

	return validator.New().Struct(c)
}
