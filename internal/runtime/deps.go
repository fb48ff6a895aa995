package runtime

import (
	"context"
	"fmt"

	"github.com/architeacher/mobile-devices/internal/adapters/store"
	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/architeacher/mobile-devices/internal/infrastructure/hostinfo"
	"github.com/architeacher/mobile-devices/internal/ports"
	"github.com/architeacher/mobile-devices/internal/usecases"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/architeacher/mobile-devices/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	infrastructureDep struct {
		tracerProvider otelTrace.TracerProvider
		metricsClient  metrics.Client
		logger         logger.Logger
		engine         store.Engine
		session        *store.Session
		hostResolver   *hostinfo.Resolver
	}

	cleanupFunc struct {
		resource string
		fn       func(ctx context.Context) error
	}

	dependencies struct {
		config       *config.ServiceConfig
		infra        infrastructureDep
		storage      ports.DeviceStorage
		app          *usecases.DevicesApplication
		cleanupFuncs []cleanupFunc
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, cfg *config.ServiceConfig, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{config: cfg}

	allOpts := append(defaultOptions(ctx), opts...)

	for _, opt := range allOpts {
		if err := opt(deps); err != nil {
			deps.cleanup(ctx)

			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}

func (d *dependencies) addCleanup(resource string, fn func(ctx context.Context) error) {
	d.cleanupFuncs = append(d.cleanupFuncs, cleanupFunc{resource: resource, fn: fn})
}

// cleanup releases resources in reverse acquisition order.
func (d *dependencies) cleanup(ctx context.Context) error {
	var firstErr error

	for idx := len(d.cleanupFuncs) - 1; idx >= 0; idx-- {
		cleanup := d.cleanupFuncs[idx]

		if err := cleanup.fn(ctx); err != nil {
			d.infra.logger.Error().
				Err(err).
				Str("resource", cleanup.resource).
				Msg("failed to shutdown the resource gracefully")

			if firstErr == nil {
				firstErr = fmt.Errorf("closing %s: %w", cleanup.resource, err)
			}
		}
	}

	d.cleanupFuncs = nil

	return firstErr
}
