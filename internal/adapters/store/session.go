package store

import (
	"context"
	"fmt"

	"github.com/architeacher/mobile-devices/internal/domain/model"
	"github.com/architeacher/mobile-devices/pkg/logger"
)

type (
	// Session tracks pending creates and removals over an Engine and commits
	// them together on Save. Reads see committed rows overlaid with pending
	// changes. A Session is not safe for concurrent use.
	Session struct {
		engine      Engine
		logger      logger.Logger
		matchPolicy model.MatchPolicy
		readPolicy  model.ReadFailurePolicy

		state    model.SessionState
		inserted []*model.DeviceRecord
		removed  []string
	}

	SessionOption func(*Session)
)

func WithMatchPolicy(policy model.MatchPolicy) SessionOption {
	return func(s *Session) {
		s.matchPolicy = policy
	}
}

func WithReadFailurePolicy(policy model.ReadFailurePolicy) SessionOption {
	return func(s *Session) {
		s.readPolicy = policy
	}
}

func WithLogger(log logger.Logger) SessionOption {
	return func(s *Session) {
		s.logger = log
	}
}

func NewSession(engine Engine, opts ...SessionOption) *Session {
	session := &Session{
		engine:      engine,
		logger:      logger.NewTestLogger(),
		matchPolicy: model.MatchSubstring,
		readPolicy:  model.ReadFailureEmpty,
		state:       model.SessionClean,
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

func (s *Session) FetchAll(ctx context.Context) ([]*model.DeviceRecord, error) {
	rows, err := s.engine.SelectAll(ctx)
	if err != nil {
		return []*model.DeviceRecord{}, s.readFailure(ctx, "fetch_all", err)
	}

	records := s.withoutRemoved(rows)
	records = append(records, s.inserted...)

	return records, nil
}

func (s *Session) FindByIdentifier(ctx context.Context, needle string) ([]*model.DeviceRecord, error) {
	if needle == "" {
		return []*model.DeviceRecord{}, nil
	}

	rows, err := s.engine.SelectByIdentifier(ctx, needle, s.matchPolicy)
	if err != nil {
		return []*model.DeviceRecord{}, s.readFailure(ctx, "find_by_identifier", err)
	}

	records := s.withoutRemoved(rows)

	for _, record := range s.inserted {
		if s.matchPolicy.MatchesRecord(record, needle) {
			records = append(records, record)
		}
	}

	return records, nil
}

func (s *Session) Create() *model.DeviceRecord {
	record := &model.DeviceRecord{ID: model.NewRecordID()}

	s.inserted = append(s.inserted, record)
	s.state = model.SessionDirty

	return record
}

// Remove marks record for deletion. A record created in this session and not
// yet saved is simply dropped.
func (s *Session) Remove(record *model.DeviceRecord) {
	if record == nil || record.ID == "" {
		return
	}

	for idx, pending := range s.inserted {
		if pending.ID == record.ID {
			s.inserted = append(s.inserted[:idx], s.inserted[idx+1:]...)
			s.refreshState()

			return
		}
	}

	if s.isRemoved(record.ID) {
		return
	}

	s.removed = append(s.removed, record.ID)
	s.state = model.SessionDirty
}

func (s *Session) Save(ctx context.Context) error {
	if !s.HasChanges() {
		s.state = model.SessionClean

		return nil
	}

	changes := s.pendingChanges()

	if err := s.engine.Apply(ctx, changes); err != nil {
		s.Rollback()

		log := s.logger.WithContext(ctx)
		log.Error().
			Err(err).
			Int("inserts", len(changes.Inserts)).
			Int("deletes", len(changes.Deletes)).
			Msg("commit failed, pending changes rolled back")

		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}

	log := s.logger.WithContext(ctx)
	log.Debug().
		Int("inserts", len(changes.Inserts)).
		Int("deletes", len(changes.Deletes)).
		Msg("session committed")

	s.inserted = nil
	s.removed = nil
	s.state = model.SessionClean

	return nil
}

// Rollback discards every pending change.
func (s *Session) Rollback() {
	s.inserted = nil
	s.removed = nil
	s.state = model.SessionRolledBack
}

func (s *Session) State() model.SessionState {
	return s.state
}

func (s *Session) HasChanges() bool {
	return len(s.inserted) > 0 || len(s.removed) > 0
}

func (s *Session) MatchPolicy() model.MatchPolicy {
	return s.matchPolicy
}

func (s *Session) Ping(ctx context.Context) error {
	return s.engine.Ping(ctx)
}

// Close releases the engine. Pending changes are discarded.
func (s *Session) Close() error {
	if s.HasChanges() {
		s.logger.Warn().
			Int("inserts", len(s.inserted)).
			Int("deletes", len(s.removed)).
			Msg("closing session with uncommitted changes")
	}

	s.inserted = nil
	s.removed = nil

	return s.engine.Close()
}

func (s *Session) readFailure(ctx context.Context, operation string, err error) error {
	if s.readPolicy == model.ReadFailurePropagate {
		return fmt.Errorf("%w: %v", model.ErrDatabaseQuery, err)
	}

	log := s.logger.WithContext(ctx)
	log.Warn().
		Err(err).
		Str("operation", operation).
		Msg("read failed, returning empty result")

	return nil
}

func (s *Session) pendingChanges() Changes {
	inserts := make([]*model.DeviceRecord, 0, len(s.inserted))
	for _, record := range s.inserted {
		inserts = append(inserts, record.Clone())
	}

	deletes := make([]string, len(s.removed))
	copy(deletes, s.removed)

	return Changes{
		Inserts: inserts,
		Deletes: deletes,
	}
}

func (s *Session) withoutRemoved(rows []*model.DeviceRecord) []*model.DeviceRecord {
	records := make([]*model.DeviceRecord, 0, len(rows)+len(s.inserted))

	for _, row := range rows {
		if s.isRemoved(row.ID) {
			continue
		}

		records = append(records, row)
	}

	return records
}

func (s *Session) isRemoved(id string) bool {
	for _, removed := range s.removed {
		if removed == id {
			return true
		}
	}

	return false
}

func (s *Session) refreshState() {
	if s.HasChanges() {
		s.state = model.SessionDirty

		return
	}

	s.state = model.SessionClean
}
