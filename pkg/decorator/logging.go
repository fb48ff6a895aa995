package decorator

import (
	"context"
	"time"

	"github.com/architeacher/mobile-devices/pkg/logger"
)

type (
	commandLoggingDecorator[C Command, R any] struct {
		base   CommandHandler[C, R]
		logger logger.Logger
	}

	queryLoggingDecorator[Q Query, R Result] struct {
		base   QueryHandler[Q, R]
		logger logger.Logger
	}
)

func (d commandLoggingDecorator[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return logged(ctx, d.logger, commandOperation(cmd), func(ctx context.Context) (R, error) {
		return d.base.Handle(ctx, cmd)
	})
}

func (d queryLoggingDecorator[Q, R]) Execute(ctx context.Context, query Q) (R, error) {
	return logged(ctx, d.logger, queryOperation(query), func(ctx context.Context) (R, error) {
		return d.base.Execute(ctx, query)
	})
}

// logged reports failures at error level. Successful commands log at info
// and successful queries at debug, since queries run on every invocation.
func logged[R any](ctx context.Context, log logger.Logger, op operation, next func(context.Context) (R, error)) (R, error) {
	scoped := log.WithContext(ctx).With().
		Str(op.kind, op.action).
		Logger()

	scoped.Debug().Msgf("executing %s", op.kind)

	start := time.Now()
	result, err := next(ctx)
	elapsed := time.Since(start)

	if err != nil {
		scoped.Error().
			Err(err).
			Dur("duration", elapsed).
			Msgf("failed to execute %s", op.kind)

		return result, err
	}

	event := scoped.Debug()
	if op.kind == kindCommand {
		event = scoped.Info()
	}

	event.Dur("duration", elapsed).Msgf("%s executed successfully", op.kind)

	return result, nil
}
