package store

import (
	"context"

	"github.com/architeacher/mobile-devices/internal/domain/model"
)

const deviceRecordsTable = "device_records"

type (
	// Changes is the set of pending writes applied by one Save.
	Changes struct {
		Inserts []*model.DeviceRecord
		Deletes []string
	}

	// Engine is the backing datastore behind a Session. Apply must be atomic:
	// either every change in the batch is stored or none is.
	Engine interface {
		SelectAll(ctx context.Context) ([]*model.DeviceRecord, error)
		SelectByIdentifier(ctx context.Context, needle string, policy model.MatchPolicy) ([]*model.DeviceRecord, error)
		Apply(ctx context.Context, changes Changes) error
		Ping(ctx context.Context) error
		Close() error
	}
)

func (c Changes) IsEmpty() bool {
	return len(c.Inserts) == 0 && len(c.Deletes) == 0
}
