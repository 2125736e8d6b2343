package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/metrics"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
)

// DefaultHousekeepingSchedule runs every fifteen minutes (seconds field first).
const DefaultHousekeepingSchedule = "0 */15 * * * *"

// HousekeepingService periodically sweeps stale applications and repairs
// post comment counters. Reads already expire applications lazily, so this
// only keeps storage tidy.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Schedule string
	Now      Clock

	cron *cron.Cron
	wg   sync.WaitGroup
}

// NewHousekeepingService creates the service. An empty schedule uses
// DefaultHousekeepingSchedule.
func NewHousekeepingService(store store.Store, logger *slog.Logger, schedule string) *HousekeepingService {
	if schedule == "" {
		schedule = DefaultHousekeepingSchedule
	}
	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Schedule: schedule,
	}
}

// Start registers the jobs and starts the scheduler. It runs one pass
// immediately. Call Stop to shut down.
func (s *HousekeepingService) Start() error {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)
	if _, err := c.AddFunc(s.Schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("invalid housekeeping schedule %q: %w", s.Schedule, err)
	}
	s.cron = c

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(context.Background())
	}()
	c.Start()
	s.Logger.Info("housekeeping service started", "schedule", s.Schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (s *HousekeepingService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.Logger.Info("housekeeping service stopped")
}

// RunOnce performs one pass. Each job is independent; a failure in one
// does not stop the other.
func (s *HousekeepingService) RunOnce(ctx context.Context) {
	s.Logger.Debug("starting housekeeping pass")

	s.job("expire_applications", func() error {
		n, err := s.Store.Applications().ExpireStaleApplications(ctx, s.Now.now())
		if err == nil && n > 0 {
			s.Logger.Info("expired stale applications", "count", n)
		}
		return err
	})

	s.job("recount_comments", func() error {
		return s.Store.Forum().RecomputeAllCommentCounts(ctx)
	})
}

func (s *HousekeepingService) job(name string, fn func() error) {
	start := time.Now()
	err := fn()
	metrics.RecordJob(name, time.Since(start), err == nil)
	if err != nil {
		s.Logger.Error("housekeeping job failed", "job", name, "error", err)
	}
}
