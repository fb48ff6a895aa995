package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/architeacher/mobile-devices/internal/adapters/repos"
	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/usecases/commands"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/architeacher/mobile-devices/pkg/metrics"
	"github.com/stretchr/testify/require"
	otelNoop "go.opentelemetry.io/otel/trace/noop"
)

var errStorage = errors.New("storage error")

type mockDeviceStorage struct {
	getAllFn   func(ctx context.Context) (model.DeviceSet, error)
	findFn     func(ctx context.Context, identifier string) (model.Device, bool, error)
	saveFn     func(ctx context.Context, device model.Device) (model.Device, error)
	deleteFn   func(ctx context.Context, device model.Device) error
	existsFn   func(ctx context.Context, device model.Device) (bool, error)
	commitFn   func(ctx context.Context) error
	saveCalls  int
	commitCall int
}

func (m *mockDeviceStorage) GetAll(ctx context.Context) (model.DeviceSet, error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx)
	}

	return model.NewDeviceSet(), nil
}

func (m *mockDeviceStorage) FindByIdentifier(ctx context.Context, identifier string) (model.Device, bool, error) {
	if m.findFn != nil {
		return m.findFn(ctx, identifier)
	}

	return model.Device{}, false, nil
}

func (m *mockDeviceStorage) Save(ctx context.Context, device model.Device) (model.Device, error) {
	m.saveCalls++

	if m.saveFn != nil {
		return m.saveFn(ctx, device)
	}

	return device, nil
}

func (m *mockDeviceStorage) Delete(ctx context.Context, device model.Device) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, device)
	}

	return nil
}

func (m *mockDeviceStorage) Exists(ctx context.Context, device model.Device) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, device)
	}

	return false, nil
}

func (m *mockDeviceStorage) Commit(ctx context.Context) error {
	m.commitCall++

	if m.commitFn != nil {
		return m.commitFn(ctx)
	}

	return nil
}

func (m *mockDeviceStorage) Ping(_ context.Context) error {
	return nil
}

func TestSaveDeviceCommandHandler(t *testing.T) {
	t.Parallel()

	log := logger.NewTestLogger()
	tp := otelNoop.NewTracerProvider()
	mc := metrics.Discard
	device := model.NewDevice("AAA-1", "Phone1")

	cases := []struct {
		name        string
		saveFn      func(ctx context.Context, device model.Device) (model.Device, error)
		expectedErr error
	}{
		{
			name: "saves the device",
		},
		{
			name: "persistence failure is returned",
			saveFn: func(context.Context, model.Device) (model.Device, error) {
				return model.Device{}, model.ErrPersistence
			},
			expectedErr: model.ErrPersistence,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			storage := &mockDeviceStorage{saveFn: tc.saveFn}
			handler := commands.NewSaveDeviceCommandHandler(storage, log, tp, mc)

			saved, err := handler.Handle(t.Context(), commands.SaveDeviceCommand{Device: device})

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)

				return
			}

			require.NoError(t, err)
			require.Equal(t, device, saved)
			require.Equal(t, 1, storage.saveCalls)
		})
	}
}

func TestRegisterDeviceCommandHandler(t *testing.T) {
	t.Parallel()

	log := logger.NewTestLogger()
	tp := otelNoop.NewTracerProvider()
	mc := metrics.Discard
	device := model.NewDevice("AAA-1", "Phone1")

	cases := []struct {
		name          string
		findFn        func(ctx context.Context, identifier string) (model.Device, bool, error)
		expectCreated bool
		expectSaves   int
		expectError   bool
	}{
		{
			name:          "saves an unknown device",
			expectCreated: true,
			expectSaves:   1,
		},
		{
			name: "keeps an already stored device",
			findFn: func(context.Context, string) (model.Device, bool, error) {
				return device, true, nil
			},
			expectCreated: false,
			expectSaves:   0,
		},
		{
			name: "lookup failure stops registration",
			findFn: func(context.Context, string) (model.Device, bool, error) {
				return model.Device{}, false, errStorage
			},
			expectError: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			storage := &mockDeviceStorage{findFn: tc.findFn}
			handler := commands.NewRegisterDeviceCommandHandler(storage, log, tp, mc)

			result, err := handler.Handle(t.Context(), commands.RegisterDeviceCommand{Device: device})

			if tc.expectError {
				require.ErrorIs(t, err, errStorage)
				require.Zero(t, storage.saveCalls)

				return
			}

			require.NoError(t, err)
			require.Equal(t, device, result.Device)
			require.Equal(t, tc.expectCreated, result.Created)
			require.Equal(t, tc.expectSaves, storage.saveCalls)
		})
	}
}

func TestDeleteDeviceCommandHandler(t *testing.T) {
	t.Parallel()

	log := logger.NewTestLogger()
	tp := otelNoop.NewTracerProvider()
	mc := metrics.Discard

	cases := []struct {
		name          string
		deleteFn      func(ctx context.Context, device model.Device) error
		commitFn      func(ctx context.Context) error
		expectedErr   error
		expectCommits int
	}{
		{
			name:          "deletes and commits",
			expectCommits: 1,
		},
		{
			name: "unknown device is not found",
			deleteFn: func(context.Context, model.Device) error {
				return model.ErrDeviceNotFound
			},
			expectedErr:   model.ErrDeviceNotFound,
			expectCommits: 0,
		},
		{
			name: "commit failure is returned",
			commitFn: func(context.Context) error {
				return model.ErrPersistence
			},
			expectedErr:   model.ErrPersistence,
			expectCommits: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			storage := &mockDeviceStorage{deleteFn: tc.deleteFn, commitFn: tc.commitFn}
			handler := commands.NewDeleteDeviceCommandHandler(storage, log, tp, mc)

			result, err := handler.Handle(t.Context(), commands.DeleteDeviceCommand{
				Device: model.NewDevice("AAA-1", "Phone1"),
			})

			require.Equal(t, tc.expectCommits, storage.commitCall)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.False(t, result.Success)

				return
			}

			require.NoError(t, err)
			require.True(t, result.Success)
		})
	}
}

func TestClearDevicesCommandHandler(t *testing.T) {
	t.Parallel()

	log := logger.NewTestLogger()
	tp := otelNoop.NewTracerProvider()
	mc := metrics.Discard

	t.Run("removes every stored record", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		storage := repos.NewMemoryRepository(model.MatchSubstring)

		for _, device := range []model.Device{
			model.NewDevice("AAA-1", "Phone1"),
			model.NewDevice("AAA-1", "Phone1"),
			model.NewDevice("9991234567", "Phone2"),
			model.NewDevice("123", "Phone3"),
		} {
			_, err := storage.Save(ctx, device)
			require.NoError(t, err)
		}

		handler := commands.NewClearDevicesCommandHandler(storage, log, tp, mc)

		result, err := handler.Handle(ctx, commands.ClearDevicesCommand{})
		require.NoError(t, err)
		require.Equal(t, 4, result.Removed)
		require.Zero(t, result.Remaining)

		devices, err := storage.GetAll(ctx)
		require.NoError(t, err)
		require.True(t, devices.IsEmpty())
	})

	t.Run("empty store commits nothing to remove", func(t *testing.T) {
		t.Parallel()

		storage := &mockDeviceStorage{}
		handler := commands.NewClearDevicesCommandHandler(storage, log, tp, mc)

		result, err := handler.Handle(t.Context(), commands.ClearDevicesCommand{})
		require.NoError(t, err)
		require.Zero(t, result.Removed)
		require.Equal(t, 1, storage.commitCall)
	})

	t.Run("unreachable records are reported", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		storage := &mockDeviceStorage{
			getAllFn: func(context.Context) (model.DeviceSet, error) {
				return model.NewDeviceSet(model.NewDevice("", "no identifier")), nil
			},
			deleteFn: func(context.Context, model.Device) error {
				return model.ErrDeviceNotFound
			},
		}
		handler := commands.NewClearDevicesCommandHandler(storage, logger.NewBufferedTestLogger(&buf), tp, mc)

		ctx := logger.WithInvocationID(t.Context(), "inv-clear")

		result, err := handler.Handle(ctx, commands.ClearDevicesCommand{})
		require.NoError(t, err)
		require.Zero(t, result.Removed)
		require.Equal(t, 1, result.Remaining)
		require.Contains(t, buf.String(), "device already claimed by an earlier delete, skipping")
		require.Contains(t, buf.String(), `"remaining":1`)
		require.Contains(t, buf.String(), `"invocation_id":"inv-clear"`)
	})

	t.Run("storage failure aborts without commit", func(t *testing.T) {
		t.Parallel()

		storage := &mockDeviceStorage{
			getAllFn: func(context.Context) (model.DeviceSet, error) {
				return model.NewDeviceSet(model.NewDevice("AAA-1", "Phone1")), nil
			},
			deleteFn: func(context.Context, model.Device) error {
				return errStorage
			},
		}
		handler := commands.NewClearDevicesCommandHandler(storage, log, tp, mc)

		_, err := handler.Handle(t.Context(), commands.ClearDevicesCommand{})
		require.ErrorIs(t, err, errStorage)
		require.Zero(t, storage.commitCall)
	})
}
