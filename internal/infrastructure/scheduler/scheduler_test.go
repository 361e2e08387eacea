package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/churchops/attendance-system/internal/core/domain"
)

type fakeSweeper struct {
	mu    sync.Mutex
	calls int
	count int
	err   error
	block chan struct{}
}

func (f *fakeSweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.count, f.err
}

func (f *fakeSweeper) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePlanner struct {
	mu         sync.Mutex
	nextCalls  int
	dailyCalls int
	nextErr    error
	dailyErr   error
}

func (f *fakePlanner) EnsureNextSundayService(ctx context.Context, now time.Time) (*domain.ServiceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCalls++
	return nil, f.nextErr
}

func (f *fakePlanner) EnsureSundayServiceToday(ctx context.Context, now time.Time) (*domain.ServiceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dailyCalls++
	return nil, f.dailyErr
}

func (f *fakePlanner) dailyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dailyCalls
}

func TestTickRunsSweep(t *testing.T) {
	sweeper := &fakeSweeper{count: 3}
	planner := &fakePlanner{}
	s := New(sweeper, planner, time.Minute, zerolog.Nop())

	s.tick(context.Background(), time.Now().UTC())

	if got := sweeper.callCount(); got != 1 {
		t.Fatalf("expected 1 sweep call, got %d", got)
	}
}

func TestTickIgnoresSweepError(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("catalog down")}
	planner := &fakePlanner{}
	s := New(sweeper, planner, time.Minute, zerolog.Nop())

	s.tick(context.Background(), time.Now().UTC())
	s.tick(context.Background(), time.Now().UTC())

	// A failed tick must not wedge the loop; the next tick sweeps again.
	if got := sweeper.callCount(); got != 2 {
		t.Fatalf("expected 2 sweep calls, got %d", got)
	}
}

func TestTickSkipsWhenPreviousStillRunning(t *testing.T) {
	block := make(chan struct{})
	sweeper := &fakeSweeper{block: block}
	planner := &fakePlanner{}
	s := New(sweeper, planner, time.Minute, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		s.tick(context.Background(), time.Now().UTC())
		close(done)
	}()

	// Wait for the first tick to claim the in-flight guard.
	for i := 0; i < 100 && sweeper.callCount() == 0; i++ {
		time.Sleep(time.Millisecond)
	}

	s.tick(context.Background(), time.Now().UTC())
	if got := sweeper.callCount(); got != 1 {
		t.Fatalf("overlapping tick should be skipped, got %d sweep calls", got)
	}

	close(block)
	<-done
}

func TestDailyPlannerRunsOncePerDay(t *testing.T) {
	sweeper := &fakeSweeper{}
	planner := &fakePlanner{}
	s := New(sweeper, planner, time.Minute, zerolog.Nop())

	day1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.tick(context.Background(), day1)
	s.tick(context.Background(), day1.Add(time.Minute))

	if got := planner.dailyCount(); got != 1 {
		t.Fatalf("expected 1 daily planner run, got %d", got)
	}

	s.tick(context.Background(), day1.Add(24*time.Hour))
	if got := planner.dailyCount(); got != 2 {
		t.Fatalf("expected planner to run again next day, got %d", got)
	}
}

func TestStartCreatesUpcomingSundayService(t *testing.T) {
	sweeper := &fakeSweeper{}
	planner := &fakePlanner{}
	s := New(sweeper, planner, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	planner.mu.Lock()
	nextCalls := planner.nextCalls
	planner.mu.Unlock()
	if nextCalls != 1 {
		t.Fatalf("expected startup sunday service creation, got %d calls", nextCalls)
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	s := New(&fakeSweeper{}, &fakePlanner{}, 0, zerolog.Nop())
	if s.interval != time.Minute {
		t.Fatalf("expected default interval of 1m, got %s", s.interval)
	}
}
