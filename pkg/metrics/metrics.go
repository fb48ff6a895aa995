// Package metrics names the counters emitted around use case handlers and
// defines the client that records them.
package metrics

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	Duration       = "duration"
)

type Client interface {
	Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue)
	Shutdown(ctx context.Context) error
}

// Discard drops everything. It stands in when METRICS_ENABLED is off.
var Discard Client = discard{}

type discard struct{}

func (discard) Inc(context.Context, string, any, ...attribute.KeyValue) {}

func (discard) Shutdown(context.Context) error { return nil }

// Key joins counter name parts, e.g. Key("commands", "save_device", OutcomeSuccess).
func Key(parts ...string) string {
	return strings.Join(parts, ".")
}

// IsDuration reports whether key accumulates seconds rather than events.
func IsDuration(key string) bool {
	return strings.HasSuffix(key, "."+Duration)
}
