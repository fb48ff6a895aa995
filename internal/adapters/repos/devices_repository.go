package repos

import (
	"context"
	"fmt"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/ports"
	"github.com/architeacher/mobile-devices/pkg/logger"
)

var (
	_ ports.DeviceStorage = (*DevicesRepository)(nil)
	_ ports.DeviceStorage = (*MemoryRepository)(nil)
)

// DevicesRepository presents session records as immutable Device values.
type DevicesRepository struct {
	session ports.RecordSession
	logger  logger.Logger
}

// NewDevicesRepository creates a new DevicesRepository with the given dependencies.
func NewDevicesRepository(session ports.RecordSession, log logger.Logger) *DevicesRepository {
	return &DevicesRepository{
		session: session,
		logger:  log,
	}
}

func (r *DevicesRepository) GetAll(ctx context.Context) (model.DeviceSet, error) {
	records, err := r.session.FetchAll(ctx)
	if err != nil {
		return model.NewDeviceSet(), err
	}

	devices := make(model.DeviceSet, len(records))
	for _, record := range records {
		devices.Add(model.DeviceFromRecord(record))
	}

	return devices, nil
}

func (r *DevicesRepository) FindByIdentifier(ctx context.Context, identifier string) (model.Device, bool, error) {
	record, err := r.firstMatch(ctx, identifier)
	if err != nil || record == nil {
		return model.Device{}, false, err
	}

	return model.DeviceFromRecord(record), true, nil
}

// Save never upserts: every call stores a new record, even for a device that
// is already present.
func (r *DevicesRepository) Save(ctx context.Context, device model.Device) (model.Device, error) {
	record := r.session.Create()
	record.SetIdentifier(device.Identifier)
	record.SetModel(device.Model)

	if err := r.session.Save(ctx); err != nil {
		return model.Device{}, err
	}

	log := r.logger.WithContext(ctx)
	log.Debug().
		Str("record_id", record.ID).
		Str("identifier", device.Identifier).
		Msg("device saved")

	return model.DeviceFromRecord(record), nil
}

func (r *DevicesRepository) Delete(ctx context.Context, device model.Device) error {
	record, err := r.firstMatch(ctx, device.Identifier)
	if err != nil {
		return err
	}

	if record == nil {
		return fmt.Errorf("%w: %q", model.ErrDeviceNotFound, device.Identifier)
	}

	r.session.Remove(record)

	log := r.logger.WithContext(ctx)
	log.Debug().
		Str("record_id", record.ID).
		Str("identifier", record.IdentifierValue()).
		Msg("device marked for deletion")

	return nil
}

func (r *DevicesRepository) Exists(ctx context.Context, device model.Device) (bool, error) {
	_, found, err := r.FindByIdentifier(ctx, device.Identifier)

	return found, err
}

func (r *DevicesRepository) Commit(ctx context.Context) error {
	return r.session.Save(ctx)
}

func (r *DevicesRepository) Ping(ctx context.Context) error {
	return r.session.Ping(ctx)
}

func (r *DevicesRepository) firstMatch(ctx context.Context, identifier string) (*model.DeviceRecord, error) {
	records, err := r.session.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	return records[0], nil
}
