// Package otelmetrics implements metrics.Client on top of an OpenTelemetry meter.
package otelmetrics

import (
	"context"
	"sync"

	"github.com/architeacher/mobile-devices/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/architeacher/mobile-devices"

type (
	ShutdownFunc func(ctx context.Context) error

	// Client lazily registers one instrument per key. Keys ending in
	// ".duration" become float counters of seconds, everything else an int counter.
	Client struct {
		meter    metric.Meter
		shutdown ShutdownFunc

		mu       sync.Mutex
		ints     map[string]metric.Int64Counter
		floats   map[string]metric.Float64Counter
		failures uint64
	}
)

func NewClient(provider metric.MeterProvider, shutdown ShutdownFunc) *Client {
	return &Client{
		meter:    provider.Meter(meterName),
		shutdown: shutdown,
		ints:     make(map[string]metric.Int64Counter),
		floats:   make(map[string]metric.Float64Counter),
	}
}

func (c *Client) Inc(ctx context.Context, key string, value any, attributes ...attribute.KeyValue) {
	opts := metric.WithAttributes(attributes...)

	if metrics.IsDuration(key) {
		counter, ok := c.floatCounter(key)
		if !ok {
			return
		}

		counter.Add(ctx, toFloat64(value), opts)

		return
	}

	counter, ok := c.intCounter(key)
	if !ok {
		return
	}

	counter.Add(ctx, toInt64(value), opts)
}

func (c *Client) Shutdown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}

	return c.shutdown(ctx)
}

// RegistrationFailures reports how many instruments could not be created.
func (c *Client) RegistrationFailures() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.failures
}

func (c *Client) intCounter(key string) (metric.Int64Counter, bool) {
	return instrument(c, c.ints, key, func() (metric.Int64Counter, error) {
		return c.meter.Int64Counter(key, metric.WithUnit("1"))
	})
}

func (c *Client) floatCounter(key string) (metric.Float64Counter, bool) {
	return instrument(c, c.floats, key, func() (metric.Float64Counter, error) {
		return c.meter.Float64Counter(key, metric.WithUnit("s"))
	})
}

// instrument returns the cached instrument for key, creating it on first use.
func instrument[T any](c *Client, cache map[string]T, key string, create func() (T, error)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := cache[key]; ok {
		return existing, true
	}

	created, err := create()
	if err != nil {
		c.failures++

		var zero T

		return zero, false
	}

	cache[key] = created

	return created, true
}

func toInt64(value any) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 1
	}
}

func toFloat64(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
