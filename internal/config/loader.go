package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/kelseyhightower/envconfig"
)

func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	if cfg.Device.IDFile == "" {
		cfg.Device.IDFile = DefaultIDFile()
	}

	if len(ServiceVersion) != 0 {
		cfg.App.ServiceVersion = ServiceVersion
	}

	if len(CommitSHA) != 0 {
		cfg.App.CommitSHA = CommitSHA
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values envconfig cannot express as types.
func (c *ServiceConfig) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("%w: %q", model.ErrUnsupportedDriver, c.Store.Driver)
	}

	if c.Store.Driver == DriverSQLite && c.Store.Path == "" {
		return fmt.Errorf("store path is required for the %s driver", DriverSQLite)
	}

	if _, err := model.ParseMatchPolicy(c.Store.MatchPolicy); err != nil {
		return err
	}

	if _, err := model.ParseReadFailurePolicy(c.Store.ReadFailurePolicy); err != nil {
		return err
	}

	return nil
}

const fallbackIDFile = ".device-id"

var userConfigDirFunc = os.UserConfigDir

// DefaultIDFile places the generated device identifier in the user's config
// directory so every working directory resolves to the same device.
func DefaultIDFile() string {
	dir, err := userConfigDirFunc()
	if err != nil || dir == "" {
		return fallbackIDFile
	}

	return filepath.Join(dir, "mobile-devices", "device-id")
}
