package commands

import (
	"context"
	"errors"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/ports"
	"github.com/architeacher/mobile-devices/pkg/decorator"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/architeacher/mobile-devices/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	ClearDevicesCommand struct{}

	// ClearDevicesResult reports how many records were removed. Remaining
	// counts records no identifier lookup can reach, such as ones stored
	// without an identifier.
	ClearDevicesResult struct {
		Removed   int
		Remaining int
	}

	ClearDevicesCommandHandler = decorator.CommandHandler[ClearDevicesCommand, ClearDevicesResult]

	clearDevicesCommandHandler struct {
		storage ports.DeviceStorage
		logger  logger.Logger
	}
)

func NewClearDevicesCommandHandler(
	storage ports.DeviceStorage,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) ClearDevicesCommandHandler {
	return decorator.ApplyCommandDecorators[ClearDevicesCommand, ClearDevicesResult](
		clearDevicesCommandHandler{storage: storage, logger: log},
		log,
		metricsClient,
		tracerProvider,
	)
}

// Handle marks every stored device for deletion and commits once. Identical
// devices collapse in GetAll and a lookup may claim another device's record,
// so passes repeat until nothing is left or a pass removes nothing.
func (h clearDevicesCommandHandler) Handle(ctx context.Context, _ ClearDevicesCommand) (ClearDevicesResult, error) {
	var result ClearDevicesResult

	for {
		devices, err := h.storage.GetAll(ctx)
		if err != nil {
			return ClearDevicesResult{}, err
		}

		if devices.IsEmpty() {
			break
		}

		removed, err := h.deletePass(ctx, devices)
		if err != nil {
			return ClearDevicesResult{}, err
		}

		if removed == 0 {
			result.Remaining = devices.Len()

			log := h.logger.WithContext(ctx)
			log.Warn().
				Int("remaining", result.Remaining).
				Msg("devices left that no identifier lookup matches")

			break
		}

		result.Removed += removed
	}

	if err := h.storage.Commit(ctx); err != nil {
		return ClearDevicesResult{}, err
	}

	return result, nil
}

func (h clearDevicesCommandHandler) deletePass(ctx context.Context, devices model.DeviceSet) (int, error) {
	removed := 0

	for _, device := range devices.Sorted() {
		err := h.storage.Delete(ctx, device)

		switch {
		case err == nil:
			removed++
		case errors.Is(err, model.ErrDeviceNotFound):
			log := h.logger.WithContext(ctx)
			log.Debug().
				Str("identifier", device.Identifier).
				Msg("device already claimed by an earlier delete, skipping")
		default:
			return removed, err
		}
	}

	return removed, nil
}
