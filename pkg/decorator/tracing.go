package decorator

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/architeacher/mobile-devices/pkg/decorator"

type (
	commandTracingDecorator[C Command, R any] struct {
		base           CommandHandler[C, R]
		tracerProvider otelTrace.TracerProvider
	}

	queryTracingDecorator[Q Query, R Result] struct {
		base           QueryHandler[Q, R]
		tracerProvider otelTrace.TracerProvider
	}
)

func (d commandTracingDecorator[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return traced(ctx, d.tracerProvider, commandOperation(cmd), func(ctx context.Context) (R, error) {
		return d.base.Handle(ctx, cmd)
	})
}

func (d queryTracingDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	return traced(ctx, d.tracerProvider, queryOperation(query), func(ctx context.Context) (R, error) {
		return d.base.Execute(ctx, query)
	})
}

func traced[R any](ctx context.Context, tracerProvider otelTrace.TracerProvider, op operation, next func(context.Context) (R, error)) (R, error) {
	if tracerProvider == nil {
		return next(ctx)
	}

	ctx, span := tracerProvider.Tracer(tracerName).Start(ctx, op.String(),
		otelTrace.WithAttributes(attribute.String("devices."+op.kind, op.action)),
	)
	defer span.End()

	result, err := next(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return result, err
}
