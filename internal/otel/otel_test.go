package otel

import (
	"context"
	"testing"

	"github.com/corray333/backend-labs/shop/internal/config"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
)

func TestMustInitOtel_Disabled(t *testing.T) {
	c := MustInitOtel(config.Tracing{ServiceName: "shop-test"})

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestMustInitOtel_EnabledWithoutEndpoint(t *testing.T) {
	assert.Panics(t, func() {
		MustInitOtel(config.Tracing{Enabled: true})
	})
}
