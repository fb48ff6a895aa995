package decorator

import (
	"context"
	"time"

	"github.com/architeacher/mobile-devices/pkg/metrics"
)

type (
	commandMetricsDecorator[C Command, R any] struct {
		base   CommandHandler[C, R]
		client metrics.Client
	}

	queryMetricsDecorator[Q Query, R Result] struct {
		base   QueryHandler[Q, R]
		client metrics.Client
	}
)

func (d commandMetricsDecorator[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return measured(ctx, d.client, commandOperation(cmd), func(ctx context.Context) (R, error) {
		return d.base.Handle(ctx, cmd)
	})
}

func (d queryMetricsDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	return measured(ctx, d.client, queryOperation(query), func(ctx context.Context) (R, error) {
		return d.base.Execute(ctx, query)
	})
}

// measured counts outcomes and accumulated seconds under
// "<namespace>.<action>.{success,failure,duration}".
func measured[R any](ctx context.Context, client metrics.Client, op operation, next func(context.Context) (R, error)) (R, error) {
	if client == nil {
		return next(ctx)
	}

	start := time.Now()
	result, err := next(ctx)

	client.Inc(ctx, metrics.Key(op.namespace, op.action, metrics.Duration), time.Since(start).Seconds())

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}

	client.Inc(ctx, metrics.Key(op.namespace, op.action, outcome), 1)

	return result, err
}
