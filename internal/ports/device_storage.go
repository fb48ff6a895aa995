package ports

import (
	"context"

	"github.com/architeacher/mobile-devices/internal/domain/model"
)

type (
	// StoreHealthChecker reports whether the backing store answers.
	StoreHealthChecker interface {
		Ping(ctx context.Context) error
	}

	// DeviceStorage is the capability set callers use to manage saved devices.
	DeviceStorage interface {
		// GetAll returns every stored device.
		GetAll(ctx context.Context) (model.DeviceSet, error)

		// FindByIdentifier returns the first device whose identifier matches.
		FindByIdentifier(ctx context.Context, identifier string) (model.Device, bool, error)

		// Save always persists a new record for the device and commits it.
		Save(ctx context.Context, device model.Device) (model.Device, error)

		// Delete marks the first matching record for deletion. The removal reaches
		// storage on the next Commit or Save.
		Delete(ctx context.Context, device model.Device) error

		// Exists reports whether a record matching the device identifier is stored.
		Exists(ctx context.Context, device model.Device) (bool, error)

		// Commit persists pending removals.
		Commit(ctx context.Context) error

		StoreHealthChecker
	}
)
