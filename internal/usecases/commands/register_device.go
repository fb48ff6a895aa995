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
	// RegisterDeviceCommand saves the device unless a matching record is
	// already stored.
	RegisterDeviceCommand struct {
		Device model.Device
	}

	RegisterDeviceResult struct {
		Device  model.Device
		Created bool
	}

	RegisterDeviceCommandHandler = decorator.CommandHandler[RegisterDeviceCommand, RegisterDeviceResult]

	registerDeviceCommandHandler struct {
		storage ports.DeviceStorage
	}
)

func NewRegisterDeviceCommandHandler(
	storage ports.DeviceStorage,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) RegisterDeviceCommandHandler {
	return decorator.ApplyCommandDecorators[RegisterDeviceCommand, RegisterDeviceResult](
		registerDeviceCommandHandler{storage: storage},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h registerDeviceCommandHandler) Handle(ctx context.Context, cmd RegisterDeviceCommand) (RegisterDeviceResult, error) {
	existing, found, err := h.storage.FindByIdentifier(ctx, cmd.Device.Identifier)
	if err != nil {
		return RegisterDeviceResult{}, err
	}

	if found {
		return RegisterDeviceResult{Device: existing, Created: false}, nil
	}

	saved, err := h.storage.Save(ctx, cmd.Device)
	if err != nil {
		return RegisterDeviceResult{}, err
	}

	return RegisterDeviceResult{Device: saved, Created: true}, nil
}
