package store_test

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/architeacher/mobile-devices/internal/adapters/store"
	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

const (
	selectAllSQL       = `SELECT id, identifier, model FROM device_records ORDER BY id ASC`
	selectSubstringSQL = `SELECT id, identifier, model FROM device_records WHERE strpos(identifier, $1) > 0 ORDER BY id ASC`
	selectExactSQL     = `SELECT id, identifier, model FROM device_records WHERE identifier = $1 ORDER BY id ASC`
)

func runEngineTest(
	t *testing.T,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, *store.PgxEngine),
) {
	t.Helper()
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	setupMock(mock)

	log := logger.NewBufferedTestLogger(&bytes.Buffer{})
	testFn(t, store.NewPgxEngine(mock, store.NewPgxScanner(), log))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxEngine_SelectAll(t *testing.T) {
	t.Parallel()

	first := newRecord("AAA-1", "Phone1")
	second := newRecord("BBB-2", "Phone2")

	cases := []struct {
		name        string
		setupMock   func(mock pgxmock.PgxPoolIface)
		expected    []*model.DeviceRecord
		expectedErr error
	}{
		{
			name: "returns records in id order",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "identifier", "model"}).
					AddRow(first.ID, first.Identifier, first.Model).
					AddRow(second.ID, second.Identifier, second.Model)
				mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).WillReturnRows(rows)
			},
			expected: []*model.DeviceRecord{first, second},
		},
		{
			name: "empty table returns no records",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).
					WillReturnRows(pgxmock.NewRows([]string{"id", "identifier", "model"}))
			},
			expected: []*model.DeviceRecord{},
		},
		{
			name: "query failure wraps ErrDatabaseQuery",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(selectAllSQL)).
					WillReturnError(errors.New("connection reset"))
			},
			expectedErr: model.ErrDatabaseQuery,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runEngineTest(t, tc.setupMock, func(t *testing.T, engine *store.PgxEngine) {
				records, err := engine.SelectAll(t.Context())

				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)

					return
				}

				require.NoError(t, err)
				require.Equal(t, tc.expected, records)
			})
		})
	}
}

func TestPgxEngine_SelectByIdentifier(t *testing.T) {
	t.Parallel()

	record := newRecord("9991234567", "Phone1")

	cases := []struct {
		name   string
		policy model.MatchPolicy
		query  string
	}{
		{
			name:   "substring uses strpos",
			policy: model.MatchSubstring,
			query:  selectSubstringSQL,
		},
		{
			name:   "exact uses equality",
			policy: model.MatchExact,
			query:  selectExactSQL,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runEngineTest(t, func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "identifier", "model"}).
					AddRow(record.ID, record.Identifier, record.Model)
				mock.ExpectQuery(regexp.QuoteMeta(tc.query)).
					WithArgs("123").
					WillReturnRows(rows)
			}, func(t *testing.T, engine *store.PgxEngine) {
				records, err := engine.SelectByIdentifier(t.Context(), "123", tc.policy)
				require.NoError(t, err)
				require.Equal(t, []*model.DeviceRecord{record}, records)
			})
		})
	}
}

func TestPgxEngine_Apply(t *testing.T) {
	t.Parallel()

	first := newRecord("AAA-1", "Phone1")
	second := newRecord("BBB-2", "Phone2")
	staleID := model.NewRecordID()

	const (
		insertSQL = `INSERT INTO device_records (id,identifier,model) VALUES ($1,$2,$3),($4,$5,$6)`
		deleteSQL = `DELETE FROM device_records WHERE id IN ($1)`
	)

	cases := []struct {
		name        string
		changes     store.Changes
		setupMock   func(mock pgxmock.PgxPoolIface)
		expectedErr error
		expectError bool
	}{
		{
			name:      "empty changes touch nothing",
			changes:   store.Changes{},
			setupMock: func(pgxmock.PgxPoolIface) {},
		},
		{
			name: "inserts and deletes commit in one transaction",
			changes: store.Changes{
				Inserts: []*model.DeviceRecord{first, second},
				Deletes: []string{staleID},
			},
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
					WithArgs(first.ID, first.Identifier, first.Model, second.ID, second.Identifier, second.Model).
					WillReturnResult(pgxmock.NewResult("INSERT", 2))
				mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
					WithArgs(staleID).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "failed delete rolls back the inserts",
			changes: store.Changes{
				Inserts: []*model.DeviceRecord{first, second},
				Deletes: []string{staleID},
			},
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
					WithArgs(first.ID, first.Identifier, first.Model, second.ID, second.Identifier, second.Model).
					WillReturnResult(pgxmock.NewResult("INSERT", 2))
				mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
					WithArgs(staleID).
					WillReturnError(errors.New("lock timeout"))
				mock.ExpectRollback()
			},
			expectError: true,
		},
		{
			name:    "begin failure is a connection error",
			changes: store.Changes{Deletes: []string{staleID}},
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("too many clients"))
			},
			expectError: true,
			expectedErr: model.ErrDatabaseConnection,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runEngineTest(t, tc.setupMock, func(t *testing.T, engine *store.PgxEngine) {
				err := engine.Apply(t.Context(), tc.changes)

				if tc.expectError {
					require.Error(t, err)
					if tc.expectedErr != nil {
						require.ErrorIs(t, err, tc.expectedErr)
					}

					return
				}

				require.NoError(t, err)
			})
		})
	}
}

func TestPgxEngine_Ping(t *testing.T) {
	runEngineTest(t, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectPing()
	}, func(t *testing.T, engine *store.PgxEngine) {
		require.NoError(t, engine.Ping(t.Context()))
	})
}

func TestEnsurePostgresSchema(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS device_records")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.EnsurePostgresSchema(context.Background(), mock))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxEngine_SessionRollback(t *testing.T) {
	runEngineTest(t, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO device_records (id,identifier,model) VALUES ($1,$2,$3)`)).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()
	}, func(t *testing.T, engine *store.PgxEngine) {
		session := store.NewSession(engine)
		createRecord(session, "AAA-1", "Phone1")

		err := session.Save(t.Context())
		require.ErrorIs(t, err, model.ErrPersistence)
		require.Equal(t, model.SessionRolledBack, session.State())
		require.False(t, session.HasChanges())
	})
}
