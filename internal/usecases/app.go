package usecases

import (
	"github.com/architeacher/mobile-devices/internal/ports"
	"github.com/architeacher/mobile-devices/internal/usecases/commands"
	"github.com/architeacher/mobile-devices/internal/usecases/queries"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/architeacher/mobile-devices/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Commands struct {
		SaveDevice     commands.SaveDeviceCommandHandler
		RegisterDevice commands.RegisterDeviceCommandHandler
		DeleteDevice   commands.DeleteDeviceCommandHandler
		ClearDevices   commands.ClearDevicesCommandHandler
	}

	Queries struct {
		ListDevices    queries.ListDevicesQueryHandler
		FindDevice     queries.FindDeviceQueryHandler
		DeviceExists   queries.DeviceExistsQueryHandler
		FetchOverview  queries.FetchOverviewQueryHandler
		FetchReadiness queries.FetchReadinessQueryHandler
	}

	DevicesApplication struct {
		Commands Commands
		Queries  Queries
	}
)

func NewDevicesApplication(
	storage ports.DeviceStorage,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) *DevicesApplication {
	return &DevicesApplication{
		Commands: Commands{
			SaveDevice:     commands.NewSaveDeviceCommandHandler(storage, log, tracerProvider, metricsClient),
			RegisterDevice: commands.NewRegisterDeviceCommandHandler(storage, log, tracerProvider, metricsClient),
			DeleteDevice:   commands.NewDeleteDeviceCommandHandler(storage, log, tracerProvider, metricsClient),
			ClearDevices:   commands.NewClearDevicesCommandHandler(storage, log, tracerProvider, metricsClient),
		},
		Queries: Queries{
			ListDevices:    queries.NewListDevicesQueryHandler(storage, log, tracerProvider, metricsClient),
			FindDevice:     queries.NewFindDeviceQueryHandler(storage, log, tracerProvider, metricsClient),
			DeviceExists:   queries.NewDeviceExistsQueryHandler(storage, log, tracerProvider, metricsClient),
			FetchOverview:  queries.NewFetchOverviewQueryHandler(storage, log, tracerProvider, metricsClient),
			FetchReadiness: queries.NewFetchReadinessQueryHandler(storage, log, tracerProvider, metricsClient),
		},
	}
}
