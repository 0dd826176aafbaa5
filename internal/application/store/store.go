// Package store owns the in-memory account state and serializes every
// mutation through a single event loop. Derived views are never cached
// here; they are recomputed from the log on each read.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ErrStoreClosed is returned when a command is submitted after Close.
var ErrStoreClosed = errors.New("store: closed")

// Mutator applies a change to the study log and returns the domain
// events describing it. Returning an error leaves the log untouched.
type Mutator func(log *tracker.StudyLog) ([]shared.Event, error)

// Config contains store configuration.
type Config struct {
	// AccountID identifies the single account this process serves.
	AccountID string

	// PushTimeout bounds a single snapshot push attempt.
	PushTimeout time.Duration
}

// DefaultConfig returns default store configuration.
func DefaultConfig() Config {
	return Config{
		AccountID:   "default",
		PushTimeout: 5 * time.Second,
	}
}

// Store serializes all access to the study log through one goroutine.
// Mutations additionally re-evaluate achievements, publish domain
// events, and schedule a fire-and-forget snapshot push. Pushes are
// latest-wins: while one is in flight, newer snapshots replace any
// queued one, and a failed push is logged, never retried.
type Store struct {
	cfg       Config
	log       *tracker.StudyLog
	checker   *tracker.AchievementChecker
	repo      tracker.SnapshotRepository
	cache     tracker.SnapshotCache
	publisher shared.EventPublisher
	logger    *slog.Logger
	clock     func() time.Time

	commands chan func()
	pending  chan tracker.Snapshot

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// New creates a store around an empty study log.
func New(
	cfg Config,
	repo tracker.SnapshotRepository,
	cache tracker.SnapshotCache,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *Store {
	if cfg.AccountID == "" {
		cfg.AccountID = DefaultConfig().AccountID
	}
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = DefaultConfig().PushTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		cfg:       cfg,
		log:       tracker.NewStudyLog(),
		checker:   tracker.NewAchievementChecker(),
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		clock:     func() time.Time { return time.Now().UTC() },
		commands:  make(chan func()),
		pending:   make(chan tracker.Snapshot, 1),
		closeCh:   make(chan struct{}),
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// AccountID returns the account this store serves.
func (s *Store) AccountID() string {
	return s.cfg.AccountID
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Load restores the study log from the snapshot store before the loop
// starts. A missing document means a fresh account, not an error.
func (s *Store) Load(ctx context.Context) error {
	if snap, err := s.loadSnapshot(ctx); err == nil {
		s.log = tracker.FromSnapshot(snap)
		s.logger.Info("account snapshot loaded",
			"account_id", s.cfg.AccountID,
			"sessions", len(s.log.Sessions),
			"topics", len(s.log.Topics))
		return nil
	} else if !shared.IsNotFound(err) {
		return err
	}
	s.logger.Info("no account snapshot, starting fresh", "account_id", s.cfg.AccountID)
	return nil
}

func (s *Store) loadSnapshot(ctx context.Context) (tracker.Snapshot, error) {
	if s.cache != nil {
		if snap, err := s.cache.Get(ctx, s.cfg.AccountID); err == nil {
			return snap, nil
		}
	}
	if s.repo == nil {
		return tracker.Snapshot{}, shared.ErrSnapshotNotFound
	}
	return s.repo.Load(ctx, s.cfg.AccountID)
}

// Start launches the command loop and the snapshot pusher.
func (s *Store) Start() {
	s.wg.Add(2)
	go s.runLoop()
	go s.runPusher()
}

// Close stops the store. Pending commands submitted before Close are
// still executed; a queued snapshot push is attempted once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
	s.wg.Wait()
}

func (s *Store) runLoop() {
	defer s.wg.Done()
	for {
		select {
		case cmd := <-s.commands:
			cmd()
		case <-s.closeCh:
			// Drain commands already queued.
			for {
				select {
				case cmd := <-s.commands:
					cmd()
				default:
					return
				}
			}
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND SUBMISSION
// ══════════════════════════════════════════════════════════════════════════════

// submit runs fn on the loop goroutine and waits for completion.
func (s *Store) submit(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}
	select {
	case s.commands <- wrapped:
	case <-s.closeCh:
		return ErrStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update applies a mutation to the log. On success the store
// re-evaluates achievements, publishes the mutation's events plus any
// unlock events, and schedules a snapshot push. On error nothing
// changes and nothing is published.
func (s *Store) Update(ctx context.Context, mutate Mutator) error {
	var opErr error
	err := s.submit(ctx, func() {
		events, err := mutate(s.log)
		if err != nil {
			opErr = err
			return
		}
		now := s.clock()

		for _, def := range s.checker.CheckNewUnlocks(s.log, now) {
			s.log.MarkUnlocked(def.ID)
			events = append(events, shared.NewAchievementUnlockedEvent(
				s.cfg.AccountID, def.ID, def.Name, def.Description, def.Icon))
		}

		s.schedulePush(s.log.Snapshot(now))
		s.publish(events)
	})
	if err != nil {
		return err
	}
	return opErr
}

// View runs a read-only function against the log on the loop
// goroutine. The callback must not retain the log.
func (s *Store) View(ctx context.Context, fn func(log *tracker.StudyLog)) error {
	return s.submit(ctx, func() { fn(s.log) })
}

func (s *Store) publish(events []shared.Event) {
	if s.publisher == nil {
		return
	}
	for _, event := range events {
		if err := s.publisher.Publish(event); err != nil {
			s.logger.Warn("event publish failed",
				"event_type", string(event.EventType()),
				"error", err)
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT PUSHER (fire-and-forget)
// ══════════════════════════════════════════════════════════════════════════════

// schedulePush queues a snapshot without blocking the loop. A queued
// but not yet pushed snapshot is replaced by the newer one.
func (s *Store) schedulePush(snap tracker.Snapshot) {
	for {
		select {
		case s.pending <- snap:
			return
		default:
			select {
			case <-s.pending:
			default:
			}
		}
	}
}

func (s *Store) runPusher() {
	defer s.wg.Done()
	for {
		select {
		case snap := <-s.pending:
			s.push(snap)
		case <-s.closeCh:
			select {
			case snap := <-s.pending:
				s.push(snap)
			default:
			}
			return
		}
	}
}

// push writes one snapshot. Failures are logged and reported as an
// event; they are never retried and the in-memory state is never
// rolled back. The next successful mutation carries the full latest
// document, so a transient failure heals on the next write.
func (s *Store) push(snap tracker.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PushTimeout)
	defer cancel()

	if s.repo != nil {
		if err := s.repo.Replace(ctx, s.cfg.AccountID, snap); err != nil {
			s.logger.Error("snapshot push failed",
				"account_id", s.cfg.AccountID,
				"error", err)
			s.publish([]shared.Event{
				shared.NewSnapshotPushFailedEvent(s.cfg.AccountID, err.Error()),
			})
			return
		}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cfg.AccountID, snap); err != nil {
			s.logger.Warn("snapshot cache update failed",
				"account_id", s.cfg.AccountID,
				"error", err)
		}
	}
	s.publish([]shared.Event{
		shared.NewSnapshotPushedEvent(s.cfg.AccountID, len(snap.Sessions), len(snap.Topics)),
	})
	s.logger.Debug("snapshot pushed",
		"account_id", s.cfg.AccountID,
		"sessions", len(snap.Sessions),
		"last_updated", snap.LastUpdated)
}
