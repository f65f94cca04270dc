package jaeger

import (
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/shop/internal/config"
	"go.opentelemetry.io/otel/exporters/jaeger"
)

var ErrNoEndpoint = errors.New("tracing.jaeger_endpoint is empty")

// NewExporter builds a collector exporter for the configured endpoint.
func NewExporter(cfg config.Tracing) (*jaeger.Exporter, error) {
	if cfg.JaegerEndpoint == "" {
		return nil, ErrNoEndpoint
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(cfg.JaegerEndpoint),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
	}

	return exp, nil
}
