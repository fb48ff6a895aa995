package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/pkg/circuitbreaker"
	"github.com/architeacher/mobile-devices/pkg/logger"
)

// BreakerEngine stops calling an engine that keeps failing. Rejected calls
// fail with model.ErrDatabaseConnection and never reach the engine.
type BreakerEngine struct {
	engine  Engine
	breaker *circuitbreaker.Breaker
}

func NewBreakerEngine(engine Engine, cfg circuitbreaker.Config, log logger.Logger) *BreakerEngine {
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn().
			Str("breaker", name).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("store circuit breaker changed state")
	}

	return &BreakerEngine{
		engine:  engine,
		breaker: circuitbreaker.New(cfg),
	}
}

func (e *BreakerEngine) State() circuitbreaker.State {
	return e.breaker.State()
}

func (e *BreakerEngine) SelectAll(ctx context.Context) ([]*model.DeviceRecord, error) {
	records, err := circuitbreaker.Call(e.breaker, func() ([]*model.DeviceRecord, error) {
		return e.engine.SelectAll(ctx)
	})

	return records, rejected(err)
}

func (e *BreakerEngine) SelectByIdentifier(ctx context.Context, needle string, policy model.MatchPolicy) ([]*model.DeviceRecord, error) {
	records, err := circuitbreaker.Call(e.breaker, func() ([]*model.DeviceRecord, error) {
		return e.engine.SelectByIdentifier(ctx, needle, policy)
	})

	return records, rejected(err)
}

func (e *BreakerEngine) Apply(ctx context.Context, changes Changes) error {
	return rejected(circuitbreaker.Do(e.breaker, func() error {
		return e.engine.Apply(ctx, changes)
	}))
}

func (e *BreakerEngine) Ping(ctx context.Context) error {
	return rejected(circuitbreaker.Do(e.breaker, func() error {
		return e.engine.Ping(ctx)
	}))
}

func (e *BreakerEngine) Close() error {
	return e.engine.Close()
}

func rejected(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", model.ErrDatabaseConnection, err)
	}

	return err
}
