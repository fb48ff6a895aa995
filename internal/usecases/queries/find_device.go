package queries

import (
	"context"
	"fmt"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/internal/ports"
	"github.com/architeacher/mobile-devices/pkg/decorator"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/architeacher/mobile-devices/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	FindDeviceQuery struct {
		Identifier string
	}

	FindDeviceQueryHandler = decorator.QueryHandler[FindDeviceQuery, model.Device]

	findDeviceQueryHandler struct {
		storage ports.DeviceStorage
	}
)

func NewFindDeviceQueryHandler(
	storage ports.DeviceStorage,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) FindDeviceQueryHandler {
	return decorator.ApplyQueryDecorators[FindDeviceQuery, model.Device](
		findDeviceQueryHandler{storage: storage},
		log,
		metricsClient,
		tracerProvider,
	)
}

// Execute returns ErrDeviceNotFound when no stored identifier matches.
func (h findDeviceQueryHandler) Execute(ctx context.Context, query FindDeviceQuery) (model.Device, error) {
	device, found, err := h.storage.FindByIdentifier(ctx, query.Identifier)
	if err != nil {
		return model.Device{}, err
	}

	if !found {
		return model.Device{}, fmt.Errorf("%w: %q", model.ErrDeviceNotFound, query.Identifier)
	}

	return device, nil
}
