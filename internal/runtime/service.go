package runtime

import (
	"context"
	"fmt"

	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/usecases"
	"github.com/architeacher/mobile-devices/pkg/logger"
)

// ServiceCtx owns the store session and everything built on it for the
// lifetime of the process.
type ServiceCtx struct {
	deps *dependencies
}

// New builds the dependency graph. A nil cfg loads configuration from the
// environment.
func New(ctx context.Context, cfg *config.ServiceConfig, opts ...DependencyOption) (*ServiceCtx, error) {
	deps, err := initializeDependencies(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing dependencies: %w", err)
	}

	return &ServiceCtx{deps: deps}, nil
}

func (c *ServiceCtx) App() *usecases.DevicesApplication {
	return c.deps.app
}

func (c *ServiceCtx) Config() *config.ServiceConfig {
	return c.deps.config
}

func (c *ServiceCtx) Logger() logger.Logger {
	return c.deps.infra.logger
}

// CurrentDevice identifies the machine the process runs on.
func (c *ServiceCtx) CurrentDevice() (model.Device, error) {
	return c.deps.infra.hostResolver.Current()
}

func (c *ServiceCtx) Close(ctx context.Context) error {
	c.deps.infra.logger.Debug().Msg("cleaning up resources...")

	return c.deps.cleanup(ctx)
}
