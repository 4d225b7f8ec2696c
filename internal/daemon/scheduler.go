package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/jobtracker/internal/logfields"
	"git.home.luguber.info/inful/jobtracker/internal/store"
)

// Scheduler wraps gocron for the periodic follow-up reminder job.
type Scheduler struct {
	scheduler gocron.Scheduler
	store     *store.Store
	job       gocron.Job
}

// flushInterval bounds how long an unflushed debounce snapshot can sit in
// memory while the daemon idles.
const flushInterval = 5 * time.Minute

// NewScheduler creates a scheduler with the reminder job registered at the
// given interval, plus a periodic safety flush of the store.
func NewScheduler(st *store.Store, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	sched := &Scheduler{scheduler: s, store: st}
	job, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sched.remind),
		gocron.WithName("follow-up-reminders"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder job: %w", err)
	}
	sched.job = job

	if _, err := s.NewJob(
		gocron.DurationJob(flushInterval),
		gocron.NewTask(sched.flush),
		gocron.WithName("periodic-flush"),
	); err != nil {
		return nil, fmt.Errorf("failed to create flush job: %w", err)
	}

	return sched, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting reminder scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping reminder scheduler")
	return s.scheduler.Shutdown()
}

// Reschedule replaces the reminder job with one at the new interval.
func (s *Scheduler) Reschedule(interval time.Duration) error {
	job, err := s.scheduler.Update(
		s.job.ID(),
		gocron.DurationJob(interval),
		gocron.NewTask(s.remind),
		gocron.WithName("follow-up-reminders"),
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder job: %w", err)
	}
	s.job = job
	return nil
}

// flush writes any pending debounce snapshot through to storage.
func (s *Scheduler) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.store.Flush(ctx)
}

// remind logs every application whose follow-up date has arrived. It is a
// local nudge, not a notification system.
func (s *Scheduler) remind() {
	stats := s.store.Stats()
	if len(stats.FollowUpsDue) == 0 {
		slog.Debug("No follow-ups due")
		return
	}

	for _, app := range stats.FollowUpsDue {
		slog.Info("Follow-up due",
			logfields.Application(app.ID),
			logfields.Company(app.Company),
			slog.String("position", app.Position),
			slog.String("due", app.FollowUpDate))
	}
}
