package queries

import (
	"context"
	"time"

	"github.com/architeacher/mobile-devices/internal/ports"
	"github.com/architeacher/mobile-devices/pkg/decorator"
	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/architeacher/mobile-devices/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	StatusReady       = "ok"
	StatusUnavailable = "unavailable"

	readinessTimeout = 5 * time.Second
)

type (
	FetchReadinessQuery struct{}

	// ReadinessResult describes one ping of the store. An unreachable store
	// is a result, not an error.
	ReadinessResult struct {
		Status  string        `json:"status"`
		Ready   bool          `json:"ready"`
		Latency time.Duration `json:"latency"`
		Error   string        `json:"error,omitempty"`
	}

	FetchReadinessQueryHandler = decorator.QueryHandler[FetchReadinessQuery, *ReadinessResult]

	fetchReadinessQueryHandler struct {
		store ports.StoreHealthChecker
	}
)

func NewFetchReadinessQueryHandler(
	store ports.StoreHealthChecker,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) FetchReadinessQueryHandler {
	return decorator.ApplyQueryDecorators[FetchReadinessQuery, *ReadinessResult](
		fetchReadinessQueryHandler{store: store},
		log,
		metricsClient,
		tracerProvider,
	)
}

func (h fetchReadinessQueryHandler) Execute(ctx context.Context, _ FetchReadinessQuery) (*ReadinessResult, error) {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(ctx)
	result := &ReadinessResult{
		Status:  StatusReady,
		Ready:   true,
		Latency: time.Since(start),
	}

	if err != nil {
		result.Status = StatusUnavailable
		result.Ready = false
		result.Error = err.Error()
	}

	return result, nil
}
