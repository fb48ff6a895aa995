// Package sqlite opens the local device store file through bun.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	driverName    = "sqlite"
	memoryDSN     = ":memory:"
	fileDSNPrefix = "file:"
)

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// Open returns a *bun.DB for the configured SQLite file, creating the parent
// directory when needed.
func Open(ctx context.Context, cfg config.Store) (*bun.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// SQLite serializes writers anyway, and in-memory databases are private to
	// a single connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	return bun.NewDB(sqlDB, sqlitedialect.New()), nil
}

// DSN builds the driver data source name. Paths that already use the file:
// URI form, and ":memory:", are passed through untouched.
func DSN(cfg config.Store) (string, error) {
	path := strings.TrimSpace(cfg.Path)

	switch {
	case path == "":
		return "", fmt.Errorf("sqlite path is empty")
	case path == memoryDSN, strings.HasPrefix(path, fileDSNPrefix):
		return path, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("creating store directory %s: %w", dir, err)
		}
	}

	query := url.Values{}
	query.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	query.Add("_pragma", "journal_mode(WAL)")

	// Escaped so that '#', '?' and '%' in the path stay part of the file name.
	dsn := url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     filepath.ToSlash(path),
		RawQuery: query.Encode(),
	}

	return dsn.String(), nil
}
