package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const createPostgresSchema = `CREATE TABLE IF NOT EXISTS device_records (
	id TEXT PRIMARY KEY,
	identifier TEXT NULL,
	model TEXT NULL
);
CREATE INDEX IF NOT EXISTS device_records_identifier_idx ON device_records (identifier);`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type (
	// PoolOps defines the interface for database operations.
	// This allows injecting mock implementations for testing.
	PoolOps interface {
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
		Begin(ctx context.Context) (pgx.Tx, error)
		Ping(ctx context.Context) error
	}

	// PgxEngine stores device records in PostgreSQL.
	PgxEngine struct {
		pool    PoolOps
		scanner Scanner
		logger  logger.Logger
	}
)

func NewPgxEngine(pool PoolOps, scanner Scanner, log logger.Logger) *PgxEngine {
	return &PgxEngine{
		pool:    pool,
		scanner: scanner,
		logger:  log,
	}
}

// EnsurePostgresSchema creates the device_records table and its index.
func EnsurePostgresSchema(ctx context.Context, pool PoolOps) error {
	if _, err := pool.Exec(ctx, createPostgresSchema); err != nil {
		return fmt.Errorf("creating %s schema: %w", deviceRecordsTable, err)
	}

	return nil
}

func (e *PgxEngine) SelectAll(ctx context.Context) ([]*model.DeviceRecord, error) {
	return e.queryRecords(ctx, e.selectRecords())
}

// SelectByIdentifier uses strpos rather than LIKE so the match stays case
// sensitive and '%' or '_' in the needle are literal.
func (e *PgxEngine) SelectByIdentifier(ctx context.Context, needle string, policy model.MatchPolicy) ([]*model.DeviceRecord, error) {
	var criteria sq.Sqlizer = sq.Expr("strpos(identifier, ?) > 0", needle)

	if policy == model.MatchExact {
		criteria = sq.Eq{"identifier": needle}
	}

	return e.queryRecords(ctx, e.selectRecords().Where(criteria))
}

func (e *PgxEngine) Apply(ctx context.Context, changes Changes) (err error) {
	if changes.IsEmpty() {
		return nil
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDatabaseConnection, err)
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log := e.logger.WithContext(ctx)
			log.Error().
				Err(rbErr).
				Msg("failed to roll back device records transaction")
		}
	}()

	if len(changes.Inserts) > 0 {
		if err = e.insertRecords(ctx, tx, changes.Inserts); err != nil {
			return err
		}
	}

	if len(changes.Deletes) > 0 {
		if err = e.deleteRecords(ctx, tx, changes.Deletes); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing device records: %w", err)
	}

	return nil
}

func (e *PgxEngine) Ping(ctx context.Context) error {
	return e.pool.Ping(ctx)
}

func (e *PgxEngine) Close() error {
	if closer, ok := e.pool.(interface{ Close() }); ok {
		closer.Close()
	}

	return nil
}

func (e *PgxEngine) selectRecords() sq.SelectBuilder {
	return psql.Select("id", "identifier", "model").
		From(deviceRecordsTable).
		OrderBy("id ASC")
}

func (e *PgxEngine) queryRecords(ctx context.Context, builder sq.SelectBuilder) ([]*model.DeviceRecord, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := e.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	records, err := e.scanner.ScanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	return records, nil
}

func (e *PgxEngine) insertRecords(ctx context.Context, tx pgx.Tx, records []*model.DeviceRecord) error {
	builder := psql.Insert(deviceRecordsTable).Columns("id", "identifier", "model")

	for _, record := range records {
		builder = builder.Values(record.ID, record.Identifier, record.Model)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting device records: %w", err)
	}

	return nil
}

func (e *PgxEngine) deleteRecords(ctx context.Context, tx pgx.Tx, ids []string) error {
	query, args, err := psql.Delete(deviceRecordsTable).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting device records: %w", err)
	}

	return nil
}
