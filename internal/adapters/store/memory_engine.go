package store

import (
	"context"
	"errors"
	"sync"

	"github.com/architeacher/mobile-devices/internal/domain/model"
)

var ErrEngineClosed = errors.New("engine closed")

// MemoryEngine keeps records in process memory. Failures can be injected to
// exercise rollback and read failure handling.
type MemoryEngine struct {
	mu       sync.Mutex
	records  []*model.DeviceRecord
	readErr  error
	applyErr error
	closed   bool
}

func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{}
}

// FailReads makes every select return err until called again with nil.
func (e *MemoryEngine) FailReads(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.readErr = err
}

// FailNextApply makes the next Apply return err without storing anything.
func (e *MemoryEngine) FailNextApply(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.applyErr = err
}

// Len reports the number of committed records.
func (e *MemoryEngine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.records)
}

func (e *MemoryEngine) SelectAll(_ context.Context) ([]*model.DeviceRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.readable(); err != nil {
		return nil, err
	}

	out := make([]*model.DeviceRecord, 0, len(e.records))
	for _, record := range e.records {
		out = append(out, record.Clone())
	}

	return out, nil
}

func (e *MemoryEngine) SelectByIdentifier(_ context.Context, needle string, policy model.MatchPolicy) ([]*model.DeviceRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.readable(); err != nil {
		return nil, err
	}

	out := make([]*model.DeviceRecord, 0)
	for _, record := range e.records {
		if policy.MatchesRecord(record, needle) {
			out = append(out, record.Clone())
		}
	}

	return out, nil
}

func (e *MemoryEngine) Apply(_ context.Context, changes Changes) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	if e.applyErr != nil {
		err := e.applyErr
		e.applyErr = nil

		return err
	}

	deleted := make(map[string]struct{}, len(changes.Deletes))
	for _, id := range changes.Deletes {
		deleted[id] = struct{}{}
	}

	kept := make([]*model.DeviceRecord, 0, len(e.records)+len(changes.Inserts))
	for _, record := range e.records {
		if _, ok := deleted[record.ID]; ok {
			continue
		}

		kept = append(kept, record)
	}

	for _, record := range changes.Inserts {
		kept = append(kept, record.Clone())
	}

	e.records = kept

	return nil
}

func (e *MemoryEngine) Ping(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	return nil
}

func (e *MemoryEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true

	return nil
}

func (e *MemoryEngine) readable() error {
	if e.closed {
		return ErrEngineClosed
	}

	return e.readErr
}
