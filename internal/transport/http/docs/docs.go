// Package docs serves the OpenAPI description of the HTTP API and the Swagger UI for it.
package docs

import (
	_ "embed"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// SpecPath is where the OpenAPI document is served.
const SpecPath = "/swagger/openapi.json"

//go:embed openapi.json
var spec []byte

// Spec serves the embedded OpenAPI document.
func Spec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(spec)
}

// UI returns the Swagger UI handler pointed at the embedded document.
func UI() http.HandlerFunc {
	return httpSwagger.Handler(httpSwagger.URL(SpecPath))
}
