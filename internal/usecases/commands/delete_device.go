package commands

import (
	"context"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/ports"
	"github.com/architeacher/mobile-devices/pkg/decorator"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/architeacher/mobile-devices/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	DeleteDeviceCommand struct {
		Device model.Device
	}

	DeleteDeviceResult struct {
		Success bool
	}

	DeleteDeviceCommandHandler = decorator.CommandHandler[DeleteDeviceCommand, DeleteDeviceResult]

	deleteDeviceCommandHandler struct {
		storage ports.DeviceStorage
	}
)

func NewDeleteDeviceCommandHandler(
	storage ports.DeviceStorage,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) DeleteDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[DeleteDeviceCommand, DeleteDeviceResult](
		deleteDeviceCommandHandler{storage: storage},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h deleteDeviceCommandHandler) Handle(ctx context.Context, cmd DeleteDeviceCommand) (DeleteDeviceResult, error) {
	if err := h.storage.Delete(ctx, cmd.Device); err != nil {
		return DeleteDeviceResult{Success: false}, err
	}

	if err := h.storage.Commit(ctx); err != nil {
		return DeleteDeviceResult{Success: false}, err
	}

	return DeleteDeviceResult{Success: true}, nil
}
