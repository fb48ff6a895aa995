package store

import (
	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

type (
	// Scanner turns a device_records result set into records. NULL columns
	// stay nil pointers.
	Scanner interface {
		ScanRecords(rows pgx.Rows) ([]*model.DeviceRecord, error)
	}

	PgxScanner struct{}

	deviceRecordRow struct {
		ID         string  `db:"id"`
		Identifier *string `db:"identifier"`
		Model      *string `db:"model"`
	}
)

func NewPgxScanner() *PgxScanner {
	return &PgxScanner{}
}

func (s *PgxScanner) ScanRecords(rows pgx.Rows) ([]*model.DeviceRecord, error) {
	var recordRows []deviceRecordRow
	if err := pgxscan.ScanAll(&recordRows, rows); err != nil {
		return nil, err
	}

	records := make([]*model.DeviceRecord, 0, len(recordRows))
	for _, row := range recordRows {
		records = append(records, &model.DeviceRecord{
			ID:         row.ID,
			Identifier: row.Identifier,
			Model:      row.Model,
		})
	}

	return records, nil
}
