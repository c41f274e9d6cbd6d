package tracer

import (
	"context"
	"testing"
	"time"

	"ai-companion-be/internal/config"
	"ai-companion-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown := InitTracer(config.AppConfig{OtelEnabled: false}, logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracerEnabled(t *testing.T) {
	// The exporter connects lazily, so no collector is needed to build the provider.
	shutdown := InitTracer(config.AppConfig{OtelEnabled: true, OtelEndpoint: "localhost:4318"}, logger.NewNopLogger())
	assert.NotNil(t, shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
