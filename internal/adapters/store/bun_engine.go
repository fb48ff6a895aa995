package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/uptrace/bun"
)

const identifierIndex = "device_records_identifier_idx"

type (
	// BunEngine stores device records through bun, typically on a local
	// SQLite file.
	BunEngine struct {
		db *bun.DB
	}

	deviceRecordModel struct {
		bun.BaseModel `bun:"table:device_records,alias:dr"`

		ID         string         `bun:"id,pk"`
		Identifier sql.NullString `bun:"identifier"`
		Model      sql.NullString `bun:"model"`
	}
)

// NewBunEngine ensures the schema exists and returns the engine.
func NewBunEngine(ctx context.Context, db *bun.DB) (*BunEngine, error) {
	if err := EnsureBunSchema(ctx, db); err != nil {
		return nil, err
	}

	return &BunEngine{db: db}, nil
}

// EnsureBunSchema creates the device_records table and its identifier index.
func EnsureBunSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*deviceRecordModel)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("creating %s table: %w", deviceRecordsTable, err)
	}

	if _, err := db.NewCreateIndex().
		Model((*deviceRecordModel)(nil)).
		Index(identifierIndex).
		Column("identifier").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("creating %s index: %w", identifierIndex, err)
	}

	return nil
}

func (e *BunEngine) SelectAll(ctx context.Context) ([]*model.DeviceRecord, error) {
	var rows []deviceRecordModel

	if err := e.db.NewSelect().
		Model(&rows).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("selecting device records: %w", err)
	}

	return toRecords(rows), nil
}

// SelectByIdentifier uses instr rather than LIKE so the match stays case
// sensitive and '%' or '_' in the needle are literal.
func (e *BunEngine) SelectByIdentifier(ctx context.Context, needle string, policy model.MatchPolicy) ([]*model.DeviceRecord, error) {
	var rows []deviceRecordModel

	query := e.db.NewSelect().Model(&rows)

	if policy == model.MatchExact {
		query = query.Where("identifier = ?", needle)
	} else {
		query = query.Where("instr(identifier, ?) > 0", needle)
	}

	if err := query.Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("selecting device records by identifier: %w", err)
	}

	return toRecords(rows), nil
}

func (e *BunEngine) Apply(ctx context.Context, changes Changes) error {
	if changes.IsEmpty() {
		return nil
	}

	return e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(changes.Inserts) > 0 {
			rows := fromRecords(changes.Inserts)

			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return fmt.Errorf("inserting device records: %w", err)
			}
		}

		if len(changes.Deletes) > 0 {
			if _, err := tx.NewDelete().
				Model((*deviceRecordModel)(nil)).
				Where("id IN (?)", bun.In(changes.Deletes)).
				Exec(ctx); err != nil {
				return fmt.Errorf("deleting device records: %w", err)
			}
		}

		return nil
	})
}

func (e *BunEngine) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

func (e *BunEngine) Close() error {
	return e.db.Close()
}

func toRecords(rows []deviceRecordModel) []*model.DeviceRecord {
	records := make([]*model.DeviceRecord, 0, len(rows))

	for _, row := range rows {
		record := &model.DeviceRecord{ID: row.ID}

		if row.Identifier.Valid {
			record.SetIdentifier(row.Identifier.String)
		}

		if row.Model.Valid {
			record.SetModel(row.Model.String)
		}

		records = append(records, record)
	}

	return records
}

func fromRecords(records []*model.DeviceRecord) []deviceRecordModel {
	rows := make([]deviceRecordModel, 0, len(records))

	for _, record := range records {
		rows = append(rows, deviceRecordModel{
			ID:         record.ID,
			Identifier: nullString(record.Identifier),
			Model:      nullString(record.Model),
		})
	}

	return rows
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *v, Valid: true}
}
