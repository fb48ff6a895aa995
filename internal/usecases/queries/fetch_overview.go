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
	// FetchOverviewQuery loads the saved devices and checks whether Current
	// is one of them.
	FetchOverviewQuery struct {
		Current model.Device
	}

	FetchOverviewQueryHandler = decorator.QueryHandler[FetchOverviewQuery, *model.Overview]

	fetchOverviewQueryHandler struct {
		storage ports.DeviceStorage
	}
)

func NewFetchOverviewQueryHandler(
	storage ports.DeviceStorage,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) FetchOverviewQueryHandler {
	return decorator.ApplyQueryDecorators[FetchOverviewQuery, *model.Overview](
		fetchOverviewQueryHandler{storage: storage},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h fetchOverviewQueryHandler) Execute(ctx context.Context, query FetchOverviewQuery) (*model.Overview, error) {
	devices, err := h.storage.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := h.storage.Exists(ctx, query.Current)
	if err != nil {
		return nil, err
	}

	return model.NewOverview(devices, query.Current, saved), nil
}
