// Package cli is the command-line host for the device store: it resolves
// "this device", calls the application use cases and renders the results.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/usecases"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type (
	// Backend is what the commands need from the process runtime.
	Backend interface {
		App() *usecases.DevicesApplication
		CurrentDevice() (model.Device, error)
		Close(ctx context.Context) error
	}

	ConfigLoader func() (*config.ServiceConfig, error)

	BackendFactory func(ctx context.Context, cfg *config.ServiceConfig) (Backend, error)

	rootFlags struct {
		dbPath      string
		driver      string
		logLevel    string
		matchPolicy string
	}

	CLI struct {
		root       *cobra.Command
		loadConfig ConfigLoader
		newBackend BackendFactory
		backend    Backend
		flags      rootFlags
	}
)

func New(loadConfig ConfigLoader, newBackend BackendFactory, version string) *CLI {
	c := &CLI{
		loadConfig: loadConfig,
		newBackend: newBackend,
	}

	c.root = &cobra.Command{
		Use:   "devices",
		Short: "Record this device and manage the saved device list",
		Long: `devices keeps a local list of device identities (identifier and model).
Running without a subcommand shows the saved devices and whether this
device is among them.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		RunE:              c.runOverview,
	}

	flags := c.root.PersistentFlags()
	flags.StringVar(&c.flags.dbPath, "db", "", "path of the SQLite store file (overrides STORE_PATH)")
	flags.StringVar(&c.flags.driver, "driver", "", "store driver: sqlite, postgres or memory (overrides STORE_DRIVER)")
	flags.StringVar(&c.flags.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	flags.StringVar(&c.flags.matchPolicy, "match", "", "identifier matching: substring or exact (overrides STORE_MATCH_POLICY)")

	c.root.AddCommand(
		c.newListCommand(),
		c.newSaveCommand(),
		c.newRegisterCommand(),
		c.newFindCommand(),
		c.newExistsCommand(),
		c.newDeleteCommand(),
		c.newClearCommand(),
		c.newOverviewCommand(),
		c.newPingCommand(),
	)

	return c
}

func (c *CLI) Command() *cobra.Command {
	return c.root
}

// Execute runs the command line and releases the backend afterwards.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	c.root.SetArgs(args)

	err := c.root.ExecuteContext(ctx)

	if c.backend != nil {
		if closeErr := c.backend.Close(ctx); closeErr != nil {
			err = errors.Join(err, closeErr)
		}

		c.backend = nil
	}

	return err
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	c.applyFlags(cfg)

	ctx := logger.WithInvocationID(cmd.Context(), uuid.NewString())
	cmd.SetContext(ctx)

	backend, err := c.newBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("starting device store: %w", err)
	}

	c.backend = backend

	return nil
}

func (c *CLI) applyFlags(cfg *config.ServiceConfig) {
	if c.flags.dbPath != "" {
		cfg.Store.Path = c.flags.dbPath
	}

	if c.flags.driver != "" {
		cfg.Store.Driver = c.flags.driver
	}

	if c.flags.logLevel != "" {
		cfg.Logging.Level = c.flags.logLevel
	}

	if c.flags.matchPolicy != "" {
		cfg.Store.MatchPolicy = c.flags.matchPolicy
	}
}

func (c *CLI) app() *usecases.DevicesApplication {
	return c.backend.App()
}
