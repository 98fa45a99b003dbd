package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/forecast-history/internal/forecast"
)

// Refresher ensures today's snapshot is stored and re-aggregates the history.
type Refresher interface {
	Refresh(ctx context.Context) (*forecast.Result, error)
}

// Scheduler runs the refresh job once at start and then daily at a fixed
// UTC time, publishing every successful result.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	fetchAt   string
	timeout   time.Duration

	latest  atomic.Pointer[forecast.Result]
	running sync.Mutex
}

// New creates a new Scheduler. fetchAt is a "HH:MM" UTC time.
func New(refresher Refresher, fetchAt string, timeout time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		fetchAt:   fetchAt,
		timeout:   timeout,
	}
}

// Latest returns the most recent aggregation result, or nil before the
// first run completed.
func (s *Scheduler) Latest() *forecast.Result {
	return s.latest.Load()
}

// Start schedules the daily job, starts the underlying scheduler and kicks
// off an immediate run in the background.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.fetchAt).Do(s.RunOnce); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	go s.RunOnce()
	return nil
}

// RunOnce performs a single refresh. Overlapping runs are skipped.
func (s *Scheduler) RunOnce() {
	if !s.running.TryLock() {
		zap.L().Info("scheduler: refresh already running, skipping")
		return
	}
	defer s.running.Unlock()

	zap.L().Info("scheduler: running forecast refresh job")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.refresher.Refresh(ctx)
	if err != nil {
		zap.L().Error("scheduler: refresh failed", zap.Error(err))
		return
	}
	s.latest.Store(res)
	zap.L().Info("scheduler: completed forecast refresh job", zap.String("run_id", res.RunID))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
