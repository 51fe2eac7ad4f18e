// Package reminder periodically nudges the owner to record a weight. It
// never touches weight entries.
package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"weightress/internal/domain"
)

// DefaultInterval is the period between reminders.
const DefaultInterval = 20 * time.Minute

// ErrAlreadyRunning is returned by Run when a schedule is active.
var ErrAlreadyRunning = errors.New("reminder: already running")

// Reminder is the content of one notification.
type Reminder struct {
	Title string
	Body  string
}

// Default is the reminder sent on every tick.
var Default = Reminder{
	Title: "It's time to record your weight",
	Body:  "Open Weightress and record your weight for today!",
}

// Notifier delivers reminders. Permitted reports whether the owner allows
// notifications; when it is false the scheduler silently skips the tick.
type Notifier interface {
	Permitted(ctx context.Context) bool
	Notify(ctx context.Context, r Reminder) error
}

// Scheduler fires Default through a Notifier on a fixed interval.
type Scheduler struct {
	interval time.Duration
	notifier Notifier
	prefs    domain.Preferences
	log      *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler. A non-positive interval means
// DefaultInterval.
func NewScheduler(interval time.Duration, n Notifier, prefs domain.Preferences, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, notifier: n, prefs: prefs, log: log}
}

// Start runs the schedule in the background until ctx is done. If a
// schedule is already running it is kept and Start returns false.
func (s *Scheduler) Start(ctx context.Context) bool {
	if !s.claim() {
		return false
	}
	go s.loop(ctx)
	return true
}

// Run fires immediately and then every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.claim() {
		return ErrAlreadyRunning
	}
	s.loop(ctx)
	return ctx.Err()
}

func (s *Scheduler) claim() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) loop(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.log.Info("reminder scheduler started", "interval", s.interval)
	defer s.log.Info("reminder scheduler stopped")

	s.tick(ctx)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.Fire(ctx); err != nil {
		s.log.Error("reminder failed", "error", err)
	}
}

// Fire sends one reminder if notifications are permitted. It reports
// whether a reminder was delivered.
func (s *Scheduler) Fire(ctx context.Context) (bool, error) {
	if !s.notifier.Permitted(ctx) {
		s.log.Debug("notifications not permitted, skipping reminder")
		return false, nil
	}
	if err := s.notifier.Notify(ctx, Default); err != nil {
		return false, err
	}

	shown, err := s.prefs.FirstNotificationShown(ctx)
	if err != nil {
		s.log.Error("read first-notification flag", "error", err)
	}
	if !shown {
		if err := s.prefs.SetFirstNotificationShown(ctx, true); err != nil {
			s.log.Error("write first-notification flag", "error", err)
		} else {
			s.log.Info("first reminder delivered")
		}
	}
	return true, nil
}
