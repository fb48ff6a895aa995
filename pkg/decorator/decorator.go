// Package decorator wraps use case handlers with logging, metrics and tracing.
package decorator

import (
	"context"
	"fmt"
	"strings"

	"github.com/architeacher/mobile-devices/pkg/logger"
	"github.com/architeacher/mobile-devices/pkg/metrics"
	"github.com/ettle/strcase"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	kindCommand = "command"
	kindQuery   = "query"

	namespaceCommands = "commands"
	namespaceQueries  = "queries"
)

type (
	Command any
	Query   any
	Result  any

	CommandHandler[C Command, R any] interface {
		Handle(ctx context.Context, cmd C) (R, error)
	}

	QueryHandler[Q Query, R Result] interface {
		Execute(ctx context.Context, query Q) (R, error)
	}

	// operation names one handler invocation: SaveDeviceCommand becomes
	// the command "save_device", counted under "commands.save_device".
	operation struct {
		kind      string
		namespace string
		action    string
	}
)

// ApplyCommandDecorators logs, counts and traces every call to handler, in
// that order from the outside in.
func ApplyCommandDecorators[C Command, R any](
	handler CommandHandler[C, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) CommandHandler[C, R] {
	return commandLoggingDecorator[C, R]{
		base: commandMetricsDecorator[C, R]{
			base: commandTracingDecorator[C, R]{
				base:           handler,
				tracerProvider: tracerProvider,
			},
			client: metricsClient,
		},
		logger: log,
	}
}

func ApplyQueryDecorators[Q Query, R Result](
	handler QueryHandler[Q, R],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) QueryHandler[Q, R] {
	return queryLoggingDecorator[Q, R]{
		base: queryMetricsDecorator[Q, R]{
			base: queryTracingDecorator[Q, R]{
				base:           handler,
				tracerProvider: tracerProvider,
			},
			client: metricsClient,
		},
		logger: log,
	}
}

func commandOperation(cmd any) operation {
	return operation{kind: kindCommand, namespace: namespaceCommands, action: actionName(cmd)}
}

func queryOperation(query any) operation {
	return operation{kind: kindQuery, namespace: namespaceQueries, action: actionName(query)}
}

func actionName(request any) string {
	name := fmt.Sprintf("%T", request)
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}

	name = strings.TrimSuffix(name, "Command")
	name = strings.TrimSuffix(name, "Query")

	return strcase.ToSnake(name)
}

func (o operation) String() string {
	return o.kind + "." + o.action
}
