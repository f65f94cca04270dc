package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerMiddleware_LogsRequestWithID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(newHandler(buf, nil))

	handler := middleware.RequestID(NewLoggerMiddleware(log)(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		},
	)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "HTTP request served", line["msg"])
	assert.Equal(t, "/api/v1/products", line["path"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.EqualValues(t, len("short and stout"), line["bytes"])
	assert.NotEmpty(t, line["request_id"])
}

func TestHandler_WithAttrsKeepsRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(newHandler(buf, nil)).With("component", "test")

	ctx := t.Context()
	log.InfoContext(ctx, "no request id")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "test", line["component"])
	assert.NotContains(t, line, "request_id")
}
