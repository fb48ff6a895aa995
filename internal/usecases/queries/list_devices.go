package queries

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
	ListDevicesQuery struct{}

	ListDevicesQueryHandler = decorator.QueryHandler[ListDevicesQuery, model.DeviceSet]

	listDevicesQueryHandler struct {
		storage ports.DeviceStorage
	}
)

func NewListDevicesQueryHandler(
	storage ports.DeviceStorage,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) ListDevicesQueryHandler {
	return decorator.ApplyQueryDecorators[ListDevicesQuery, model.DeviceSet](
		listDevicesQueryHandler{storage: storage},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h listDevicesQueryHandler) Execute(ctx context.Context, _ ListDevicesQuery) (model.DeviceSet, error) {
	return h.storage.GetAll(ctx)
}
