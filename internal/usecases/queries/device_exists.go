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
	DeviceExistsQuery struct {
		Device model.Device
	}

	DeviceExistsQueryHandler = decorator.QueryHandler[DeviceExistsQuery, bool]

	deviceExistsQueryHandler struct {
		storage ports.DeviceStorage
	}
)

func NewDeviceExistsQueryHandler(
	storage ports.DeviceStorage,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) DeviceExistsQueryHandler {
	return decorator.ApplyQueryDecorators[DeviceExistsQuery, bool](
		deviceExistsQueryHandler{storage: storage},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h deviceExistsQueryHandler) Execute(ctx context.Context, query DeviceExistsQuery) (bool, error) {
	return h.storage.Exists(ctx, query.Device)
}
