package pomodoro

import (
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// TICK SCHEDULING
// The periodic decrement is an explicit cancellable scheduled task.
// The timer stores the subscription handle next to its state so every
// transition can deterministically cancel it.
// ══════════════════════════════════════════════════════════════════════════════

// TickSubscription is the cancellation handle of a scheduled tick task.
type TickSubscription interface {
	// Cancel stops the task. Safe to call more than once.
	Cancel()
}

// TickScheduler schedules a function to run at a fixed interval.
type TickScheduler interface {
	// Schedule starts calling tick every interval until cancelled.
	Schedule(interval time.Duration, tick func()) TickSubscription
}

// tickerScheduler is the production TickScheduler over time.Ticker.
type tickerScheduler struct{}

// NewTickerScheduler creates the production tick scheduler.
func NewTickerScheduler() TickScheduler {
	return tickerScheduler{}
}

// Schedule implements TickScheduler.
func (tickerScheduler) Schedule(interval time.Duration, tick func()) TickSubscription {
	sub := &tickerSubscription{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tick()
			case <-sub.stop:
				return
			}
		}
	}()

	return sub
}

type tickerSubscription struct {
	once sync.Once
	stop chan struct{}
}

// Cancel implements TickSubscription.
func (s *tickerSubscription) Cancel() {
	s.once.Do(func() { close(s.stop) })
}
