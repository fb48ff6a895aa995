package ports

import (
	"context"

	"github.com/architeacher/mobile-devices/internal/domain/model"
)

type (
	// RecordReader exposes the committed view of the store plus pending changes.
	RecordReader interface {
		// FetchAll returns every device record visible to the session.
		FetchAll(ctx context.Context) ([]*model.DeviceRecord, error)

		// FindByIdentifier returns the records whose identifier satisfies the
		// session match policy for needle.
		FindByIdentifier(ctx context.Context, needle string) ([]*model.DeviceRecord, error)
	}

	// RecordWriter stages changes that only reach storage on Save.
	RecordWriter interface {
		// Create allocates a new uncommitted record bound to the session.
		Create() *model.DeviceRecord

		// Remove marks a record for deletion.
		Remove(record *model.DeviceRecord)

		// Save commits every pending change atomically. On failure all pending
		// changes are rolled back and an ErrPersistence-wrapped error is returned.
		Save(ctx context.Context) error
	}

	// RecordSession is the persistence session for device records.
	RecordSession interface {
		RecordReader
		RecordWriter
		StoreHealthChecker
	}
)
