// Package scheduler drives the periodic background work: the attendance
// reconciliation sweep every tick, and the weekly Sunday service creation
// once per day.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/churchops/attendance-system/internal/api/metrics"
	"github.com/churchops/attendance-system/internal/core/domain"
	"github.com/churchops/attendance-system/internal/core/ports"
)

// Planner is the slice of the catalog service the scheduler needs.
type Planner interface {
	EnsureNextSundayService(ctx context.Context, now time.Time) (*domain.ServiceEvent, error)
	EnsureSundayServiceToday(ctx context.Context, now time.Time) (*domain.ServiceEvent, error)
}

// Scheduler runs the sweeper on a fixed period. A single instance must not
// overlap with itself; the inFlight guard skips a tick when the previous one
// is still running and the ledger's insert-if-absent covers the rest.
type Scheduler struct {
	sweeper  ports.SweeperService
	planner  Planner
	interval time.Duration
	log      zerolog.Logger

	inFlight atomic.Bool
	lastDay  atomic.Int64 // unix day of the last planner run
}

// New creates a Scheduler. interval must match the sweeper's eligibility
// window width.
func New(sweeper ports.SweeperService, planner Planner, interval time.Duration, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		sweeper:  sweeper,
		planner:  planner,
		interval: interval,
		log:      log,
	}
}

// Start launches the scheduling loop. It returns immediately; the loop stops
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	// Cover the first weekend after a deploy before any tick fires.
	if _, err := s.planner.EnsureNextSundayService(ctx, time.Now().UTC()); err != nil {
		s.log.Error().Err(err).Msg("startup sunday service creation failed")
	}
	s.lastDay.Store(unixDay(time.Now().UTC()))

	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, time.Now().UTC())
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Warn().Msg("previous sweep still running, skipping tick")
		metrics.SweepRunsTotal.WithLabelValues("skipped").Inc()
		return
	}
	defer s.inFlight.Store(false)

	s.runDailyPlanner(ctx, now)

	start := time.Now()
	count, err := s.sweeper.Sweep(ctx, now)
	metrics.SweepDurationSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		// The sweep itself never panics and isolates per-service failures;
		// anything surfacing here means the catalog was unreachable. The
		// next tick retries the window naturally.
		s.log.Error().Err(err).Msg("sweep tick failed")
		metrics.SweepRunsTotal.WithLabelValues("error").Inc()
		return
	}

	metrics.SweepRunsTotal.WithLabelValues("ok").Inc()
	if count > 0 {
		metrics.SweepRecordsCreatedTotal.Add(float64(count))
		s.log.Info().Int("records_created", count).Msg("sweep tick complete")
	}
}

// runDailyPlanner invokes the Sunday service creation once per calendar day.
func (s *Scheduler) runDailyPlanner(ctx context.Context, now time.Time) {
	day := unixDay(now)
	if s.lastDay.Swap(day) == day {
		return
	}
	if _, err := s.planner.EnsureSundayServiceToday(ctx, now); err != nil {
		s.log.Error().Err(err).Msg("daily sunday service creation failed")
	}
}

func unixDay(t time.Time) int64 {
	return t.Unix() / (24 * 60 * 60)
}
