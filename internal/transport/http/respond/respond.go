package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/shop/internal/service/errs"
	"github.com/go-chi/chi/v5"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type messageBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Success writes {"success": true, "message": message}.
func Success(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, messageBody{Success: true, Message: message})
}

// Error logs err and writes {"success": false, "error": ...} with the status
// mapped from the error kind. Internal errors are not echoed to the client.
func Error(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := Status(err)

	text := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), msg, "error", err, "path", r.URL.Path)
		text = http.StatusText(status)
	} else {
		slog.WarnContext(r.Context(), msg, "error", err, "path", r.URL.Path, "status", status)
	}

	JSON(w, status, errorBody{Success: false, Error: text})
}

// Status maps a service error to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrProductNotFound):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized), errors.Is(err, errs.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PathID parses a positive int64 URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", errs.ErrValidation, name, raw)
	}

	return id, nil
}
