package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestNewProvider_DisabledKeepsGlobal(t *testing.T) {
	before := otel.GetTracerProvider()
	teardown := NewProvider("", false, zap.NewNop())
	teardown()
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestNewProvider_Stdout(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	teardown := NewProvider("", true, zap.NewNop())
	defer teardown()
	assert.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())
}
