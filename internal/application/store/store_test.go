package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

type fakeRepo struct {
	mu       sync.Mutex
	stored   map[string]tracker.Snapshot
	replaces int
	failWith error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: make(map[string]tracker.Snapshot)}
}

func (r *fakeRepo) Load(_ context.Context, accountID string) (tracker.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.stored[accountID]
	if !ok {
		return tracker.Snapshot{}, shared.ErrSnapshotNotFound
	}
	return snap, nil
}

func (r *fakeRepo) Replace(_ context.Context, accountID string, snap tracker.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces++
	if r.failWith != nil {
		return r.failWith
	}
	r.stored[accountID] = snap
	return nil
}

func (r *fakeRepo) last(accountID string) (tracker.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.stored[accountID]
	return snap, ok
}

type fakeCache struct {
	mu     sync.Mutex
	stored map[string]tracker.Snapshot
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string]tracker.Snapshot)}
}

func (c *fakeCache) Get(_ context.Context, accountID string) (tracker.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.stored[accountID]
	if !ok {
		return tracker.Snapshot{}, shared.ErrSnapshotNotFound
	}
	return snap, nil
}

func (c *fakeCache) Set(_ context.Context, accountID string, snap tracker.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored[accountID] = snap
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *fakePublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) byType(t shared.EventType) []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

func testClock() func() time.Time {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestLoadFreshAccount(t *testing.T) {
	repo := newFakeRepo()
	st := New(Config{AccountID: "acc"}, repo, nil, nil, nil)

	assert.NoError(t, st.Load(context.Background()))

	st.Start()
	defer st.Close()

	var sessions int
	assert.NoError(t, st.View(context.Background(), func(log *tracker.StudyLog) {
		sessions = len(log.Sessions)
	}))
	assert.Equal(t, 0, sessions)
}

func TestLoadRestoresSnapshot(t *testing.T) {
	now := testClock()()
	repo := newFakeRepo()
	seed := tracker.NewStudyLog()
	_, err := seed.AddSession(tracker.SessionInput{Date: shared.DayOf(now), DurationMinutes: 45})
	assert.NoError(t, err)
	repo.stored["acc"] = seed.Snapshot(now)

	st := New(Config{AccountID: "acc"}, repo, nil, nil, nil)
	assert.NoError(t, st.Load(context.Background()))

	st.Start()
	defer st.Close()

	var restored []tracker.Session
	assert.NoError(t, st.View(context.Background(), func(log *tracker.StudyLog) {
		restored = append(restored, log.Sessions...)
	}))
	assert.Len(t, restored, 1)
	assert.Equal(t, 45, restored[0].DurationMinutes)
}

func TestLoadPrefersCache(t *testing.T) {
	now := testClock()()
	cache := newFakeCache()
	cached := tracker.NewStudyLog()
	_, err := cached.AddSession(tracker.SessionInput{Date: shared.DayOf(now), DurationMinutes: 30})
	assert.NoError(t, err)
	cache.stored["acc"] = cached.Snapshot(now)

	// The repo holds a different document; the cache wins.
	repo := newFakeRepo()
	repo.stored["acc"] = tracker.NewStudyLog().Snapshot(now)

	st := New(Config{AccountID: "acc"}, repo, cache, nil, nil)
	assert.NoError(t, st.Load(context.Background()))

	st.Start()
	defer st.Close()

	var count int
	assert.NoError(t, st.View(context.Background(), func(log *tracker.StudyLog) {
		count = len(log.Sessions)
	}))
	assert.Equal(t, 1, count)
}

func TestUpdatePushesLatestSnapshot(t *testing.T) {
	repo := newFakeRepo()
	st := New(Config{AccountID: "acc"}, repo, nil, nil, nil).WithClock(testClock())
	st.Start()

	day := shared.NewDay(2026, 1, 15)
	err := st.Update(context.Background(), func(log *tracker.StudyLog) ([]shared.Event, error) {
		_, err := log.AddSession(tracker.SessionInput{Date: day, DurationMinutes: 30})
		return nil, err
	})
	assert.NoError(t, err)

	// Close flushes the queued push.
	st.Close()

	snap, ok := repo.last("acc")
	assert.True(t, ok)
	assert.Len(t, snap.Sessions, 1)
	assert.Equal(t, 30, snap.Sessions[0].DurationMinutes)
}

func TestUpdateErrorChangesNothing(t *testing.T) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	st := New(Config{AccountID: "acc"}, repo, nil, publisher, nil).WithClock(testClock())
	st.Start()

	boom := errors.New("boom")
	err := st.Update(context.Background(), func(log *tracker.StudyLog) ([]shared.Event, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	st.Close()

	_, ok := repo.last("acc")
	assert.False(t, ok)
	assert.Empty(t, publisher.events)
}

func TestUpdatePublishesUnlockEventsOnce(t *testing.T) {
	publisher := &fakePublisher{}
	st := New(Config{AccountID: "acc"}, newFakeRepo(), nil, publisher, nil).WithClock(testClock())
	st.Start()
	defer st.Close()

	day := shared.NewDay(2026, 1, 15)
	logOne := func() error {
		return st.Update(context.Background(), func(log *tracker.StudyLog) ([]shared.Event, error) {
			_, err := log.AddSession(tracker.SessionInput{Date: day, DurationMinutes: 10})
			return nil, err
		})
	}

	assert.NoError(t, logOne())
	assert.NoError(t, logOne())

	unlocks := publisher.byType(shared.EventAchievementUnlocked)
	assert.Len(t, unlocks, 1)
	assert.Equal(t, "first-session", unlocks[0].Payload()["achievement_id"])
}

func TestUpdateMirrorsSnapshotToCache(t *testing.T) {
	cache := newFakeCache()
	st := New(Config{AccountID: "acc"}, newFakeRepo(), cache, nil, nil).WithClock(testClock())
	st.Start()

	err := st.Update(context.Background(), func(log *tracker.StudyLog) ([]shared.Event, error) {
		_, err := log.AddSession(tracker.SessionInput{Date: shared.NewDay(2026, 1, 15), DurationMinutes: 30})
		return nil, err
	})
	assert.NoError(t, err)

	st.Close()

	cache.mu.Lock()
	defer cache.mu.Unlock()
	assert.Len(t, cache.stored["acc"].Sessions, 1)
}

func TestPushSuccessPublishesSnapshotPushed(t *testing.T) {
	publisher := &fakePublisher{}
	st := New(Config{AccountID: "acc"}, newFakeRepo(), nil, publisher, nil).WithClock(testClock())
	st.Start()

	err := st.Update(context.Background(), func(log *tracker.StudyLog) ([]shared.Event, error) {
		_, err := log.AddSession(tracker.SessionInput{Date: shared.NewDay(2026, 1, 15), DurationMinutes: 30})
		return nil, err
	})
	assert.NoError(t, err)

	st.Close()

	pushed := publisher.byType(shared.EventSnapshotPushed)
	assert.NotEmpty(t, pushed)
	assert.Equal(t, 1, pushed[len(pushed)-1].Payload()["sessions"])
	assert.Empty(t, publisher.byType(shared.EventSnapshotPushFailed))
}

func TestPushFailureKeepsStateAndReports(t *testing.T) {
	repo := newFakeRepo()
	repo.failWith = errors.New("connection refused")
	publisher := &fakePublisher{}
	st := New(Config{AccountID: "acc"}, repo, nil, publisher, nil).WithClock(testClock())
	st.Start()

	err := st.Update(context.Background(), func(log *tracker.StudyLog) ([]shared.Event, error) {
		_, err := log.AddSession(tracker.SessionInput{Date: shared.NewDay(2026, 1, 15), DurationMinutes: 30})
		return nil, err
	})
	assert.NoError(t, err)

	st.Close()

	// The in-memory log is not rolled back; the failure is only reported.
	failures := publisher.byType(shared.EventSnapshotPushFailed)
	assert.NotEmpty(t, failures)
	_, ok := repo.last("acc")
	assert.False(t, ok)
}

func TestUpdateAfterClose(t *testing.T) {
	st := New(Config{AccountID: "acc"}, newFakeRepo(), nil, nil, nil)
	st.Start()
	st.Close()

	err := st.Update(context.Background(), func(log *tracker.StudyLog) ([]shared.Event, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestViewSeesMutations(t *testing.T) {
	st := New(Config{AccountID: "acc"}, newFakeRepo(), nil, nil, nil).WithClock(testClock())
	st.Start()
	defer st.Close()

	day := shared.NewDay(2026, 1, 15)
	assert.NoError(t, st.Update(context.Background(), func(log *tracker.StudyLog) ([]shared.Event, error) {
		_, err := log.AddTopic(tracker.TopicInput{Name: "Redes"})
		if err != nil {
			return nil, err
		}
		_, err = log.AddSession(tracker.SessionInput{Date: day, TopicID: 1, DurationMinutes: 50})
		return nil, err
	}))

	var topics, sessions int
	assert.NoError(t, st.View(context.Background(), func(log *tracker.StudyLog) {
		topics = len(log.Topics)
		sessions = len(log.Sessions)
	}))
	assert.Equal(t, 1, topics)
	assert.Equal(t, 1, sessions)
}
