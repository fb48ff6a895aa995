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
	SaveDeviceCommand struct {
		Device model.Device
	}

	SaveDeviceCommandHandler = decorator.CommandHandler[SaveDeviceCommand, model.Device]

	saveDeviceCommandHandler struct {
		storage ports.DeviceStorage
	}
)

func NewSaveDeviceCommandHandler(
	storage ports.DeviceStorage,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) SaveDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[SaveDeviceCommand, model.Device](
		saveDeviceCommandHandler{storage: storage},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h saveDeviceCommandHandler) Handle(ctx context.Context, cmd SaveDeviceCommand) (model.Device, error) {
	return h.storage.Save(ctx, cmd.Device)
}
