package store_test

import (
	"context"
	"testing"

	"github.com/architeacher/mobile-devices/internal/adapters/store"
	"github.com/architeacher/mobile-devices/internal/config"
	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/require"
)

func newBunEngine(t *testing.T) *store.BunEngine {
	t.Helper()

	ctx := context.Background()

	db, err := sqlite.Open(ctx, config.Store{Path: ":memory:"})
	require.NoError(t, err)

	engine, err := store.NewBunEngine(ctx, db)
	require.NoError(t, err)

	t.Cleanup(func() { _ = engine.Close() })

	return engine
}

func newRecord(identifier, deviceModel string) *model.DeviceRecord {
	record := &model.DeviceRecord{ID: model.NewRecordID()}
	record.SetIdentifier(identifier)
	record.SetModel(deviceModel)

	return record
}

func TestBunEngine_ApplyAndSelect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := newBunEngine(t)

	first := newRecord("AAA-1", "Phone1")
	second := newRecord("BBB-2", "Phone2")
	nameless := &model.DeviceRecord{ID: model.NewRecordID()}

	require.NoError(t, engine.Apply(ctx, store.Changes{
		Inserts: []*model.DeviceRecord{first, second, nameless},
	}))

	records, err := engine.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, first, records[0])
	require.Equal(t, second, records[1])
	require.Nil(t, records[2].Identifier)
	require.Nil(t, records[2].Model)

	require.NoError(t, engine.Apply(ctx, store.Changes{
		Deletes: []string{first.ID, nameless.ID},
	}))

	records, err = engine.SelectAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []*model.DeviceRecord{second}, records)
}

func TestBunEngine_SelectByIdentifier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := newBunEngine(t)

	require.NoError(t, engine.Apply(ctx, store.Changes{
		Inserts: []*model.DeviceRecord{
			newRecord("9991234567", "a"),
			newRecord("123", "b"),
			newRecord("50%_off", "c"),
			{ID: model.NewRecordID()},
		},
	}))

	cases := []struct {
		name   string
		needle string
		policy model.MatchPolicy
		want   []string
	}{
		{
			name:   "substring returns every containing identifier oldest first",
			needle: "123",
			policy: model.MatchSubstring,
			want:   []string{"9991234567", "123"},
		},
		{
			name:   "exact returns the identical identifier only",
			needle: "123",
			policy: model.MatchExact,
			want:   []string{"123"},
		},
		{
			name:   "wildcard characters are literal",
			needle: "%_",
			policy: model.MatchSubstring,
			want:   []string{"50%_off"},
		},
		{
			name:   "underscore alone does not match any character",
			needle: "_1",
			policy: model.MatchSubstring,
			want:   []string{},
		},
		{
			name:   "comparison is case sensitive",
			needle: "OFF",
			policy: model.MatchSubstring,
			want:   []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := engine.SelectByIdentifier(ctx, tc.needle, tc.policy)
			require.NoError(t, err)
			require.Equal(t, tc.want, identifiers(records))
		})
	}
}

func TestBunEngine_ApplyIsAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := newBunEngine(t)

	existing := newRecord("AAA-1", "Phone1")
	require.NoError(t, engine.Apply(ctx, store.Changes{Inserts: []*model.DeviceRecord{existing}}))

	duplicate := newRecord("BBB-2", "Phone2")
	duplicate.ID = existing.ID

	err := engine.Apply(ctx, store.Changes{
		Inserts: []*model.DeviceRecord{newRecord("CCC-3", "Phone3"), duplicate},
		Deletes: []string{existing.ID},
	})
	require.Error(t, err)

	records, err := engine.SelectAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []*model.DeviceRecord{existing}, records)
}

func TestBunEngine_SessionRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := store.NewSession(newBunEngine(t))

	createRecord(session, "AAA-1", "Phone1")
	require.NoError(t, session.Save(ctx))
	require.NoError(t, session.Ping(ctx))

	found, err := session.FindByIdentifier(ctx, "AAA")
	require.NoError(t, err)
	require.Len(t, found, 1)

	session.Remove(found[0])
	require.NoError(t, session.Save(ctx))

	records, err := session.FetchAll(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}
