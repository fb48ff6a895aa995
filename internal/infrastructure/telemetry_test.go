package infrastructure_test

import (
	"context"
	"testing"

	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/architeacher/mobile-devices/internal/infrastructure"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewResource(t *testing.T) {
	t.Parallel()

	appConfig := config.App{
		CommitSHA: "abc123",
		Env:       config.Environment{Name: "staging"},
	}
	telemetryConfig := config.Telemetry{
		ServiceName:    "mobile-devices",
		ServiceVersion: "1.2.3",
	}

	res, err := infrastructure.NewResource(context.Background(), appConfig, telemetryConfig)
	require.NoError(t, err)

	attrs := make(map[attribute.Key]string)
	for _, kv := range res.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}

	require.Equal(t, "mobile-devices", attrs["service.name"])
	require.Equal(t, "1.2.3", attrs["service.version"])
	require.Equal(t, "staging", attrs["env"])
	require.Equal(t, "abc123", attrs["commit_sha"])
	require.NotEmpty(t, attrs["host"])
}

func TestNewNoopTracerProvider(t *testing.T) {
	t.Parallel()

	_, span := infrastructure.NewNoopTracerProvider().Tracer("test").Start(context.Background(), "op")
	defer span.End()

	require.False(t, span.SpanContext().IsValid())
}
