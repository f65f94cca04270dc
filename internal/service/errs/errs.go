package errs

import "errors"

// Errors returned by the service layer. Transport maps them to HTTP status codes.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")

	// ErrDependencyCreateFailed is returned when an order item could not be persisted.
	ErrDependencyCreateFailed = errors.New("failed to create order item")
	ErrOrderCreateFailed      = errors.New("failed to create order")
	ErrProductNotFound        = errors.New("product not found")
	ErrPaymentGateway         = errors.New("payment gateway error")
)
