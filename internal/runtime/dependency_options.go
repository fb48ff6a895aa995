package runtime

import (
	"context"
	"fmt"

	"github.com/architeacher/mobile-devices/internal/adapters/repos"
	"github.com/architeacher/mobile-devices/internal/adapters/store"
	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/infrastructure"
	"github.com/architeacher/mobile-devices/internal/infrastructure/hostinfo"
	infraPostgres "github.com/architeacher/mobile-devices/internal/infrastructure/postgres"
	"github.com/architeacher/mobile-devices/internal/infrastructure/sqlite"
	"github.com/architeacher/mobile-devices/internal/usecases"
	"github.com/architeacher/mobile-devices/pkg/circuitbreaker"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/architeacher/mobile-devices/pkg/metrics"
	"github.com/architeacher/mobile-devices/pkg/metrics/otelmetrics"
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithLogger(),
		WithTracing(ctx),
		WithMetrics(ctx),
		WithStoreEngine(ctx),
		WithSession(),
		WithDevicesRepository(),
		WithApplication(),
		WithHostInfo(),
	}
}

// WithConfig loads the configuration from the environment unless one was
// supplied up front.
func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		if d.config != nil {
			return d.config.Validate()
		}

		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.Logging.Format)

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.TracingEnabled() {
			d.infra.tracerProvider = infrastructure.NewNoopTracerProvider()

			return nil
		}

		tp, shutdown, err := infrastructure.NewTracerProvider(ctx, d.config.App, d.config.Telemetry)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.addCleanup("tracer", shutdown)

		return nil
	}
}

func WithMetrics(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.MetricsEnabled() {
			d.infra.metricsClient = metrics.Discard

			return nil
		}

		mp, shutdown, err := infrastructure.NewMeterProvider(ctx, d.config.App, d.config.Telemetry)
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}

		client := otelmetrics.NewClient(mp, otelmetrics.ShutdownFunc(shutdown))

		d.infra.metricsClient = client
		d.addCleanup("metrics", client.Shutdown)

		return nil
	}
}

// WithStoreEngine opens the backing datastore selected by STORE_DRIVER.
func WithStoreEngine(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		switch d.config.Store.Driver {
		case config.DriverSQLite:
			db, err := sqlite.Open(ctx, d.config.Store)
			if err != nil {
				return fmt.Errorf("opening sqlite store: %w", err)
			}

			engine, err := store.NewBunEngine(ctx, db)
			if err != nil {
				_ = db.Close()

				return fmt.Errorf("preparing sqlite store: %w", err)
			}

			d.infra.engine = engine
		case config.DriverPostgres:
			pool, err := infraPostgres.NewPool(ctx, d.config.Database)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}

			if err := store.EnsurePostgresSchema(ctx, pool); err != nil {
				pool.Close()

				return err
			}

			d.infra.engine = store.NewPgxEngine(pool, store.NewPgxScanner(), d.infra.logger)
		case config.DriverMemory:
			d.infra.engine = store.NewMemoryEngine()
		default:
			return fmt.Errorf("%w: %q", model.ErrUnsupportedDriver, d.config.Store.Driver)
		}

		breaker := d.config.Store.Breaker
		d.infra.engine = store.NewBreakerEngine(d.infra.engine, circuitbreaker.Config{
			Name:             d.config.Store.Driver,
			Enabled:          breaker.Enabled,
			HalfOpenProbes:   breaker.HalfOpenProbes,
			ResetInterval:    breaker.ResetInterval,
			OpenTimeout:      breaker.OpenTimeout,
			FailureThreshold: breaker.FailureThreshold,
		}, d.infra.logger)

		d.infra.logger.Debug().
			Str("driver", d.config.Store.Driver).
			Bool("breaker", breaker.Enabled).
			Msg("store engine ready")

		return nil
	}
}

func WithSession() DependencyOption {
	return func(d *dependencies) error {
		matchPolicy, err := model.ParseMatchPolicy(d.config.Store.MatchPolicy)
		if err != nil {
			return err
		}

		readPolicy, err := model.ParseReadFailurePolicy(d.config.Store.ReadFailurePolicy)
		if err != nil {
			return err
		}

		d.infra.session = store.NewSession(
			d.infra.engine,
			store.WithMatchPolicy(matchPolicy),
			store.WithReadFailurePolicy(readPolicy),
			store.WithLogger(d.infra.logger),
		)

		d.addCleanup("store", func(context.Context) error {
			return d.infra.session.Close()
		})

		return nil
	}
}

func WithDevicesRepository() DependencyOption {
	return func(d *dependencies) error {
		d.storage = repos.NewDevicesRepository(d.infra.session, d.infra.logger)

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		d.app = usecases.NewDevicesApplication(
			d.storage,
			d.infra.logger,
			d.infra.tracerProvider,
			d.infra.metricsClient,
		)

		return nil
	}
}

func WithHostInfo() DependencyOption {
	return func(d *dependencies) error {
		d.infra.hostResolver = hostinfo.NewResolver(d.config.Device)

		return nil
	}
}
