package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/churchops/attendance-system/internal/core/domain"
	"github.com/churchops/attendance-system/internal/core/ports"
)

// SweepMarker abstracts the per-service processed marker (Redis). It guards
// against re-processing when ticks overlap or the process restarts inside a
// window; the ledger's insert-if-absent remains the hard backstop.
type SweepMarker interface {
	// TryAcquire returns true when this call claimed the service.
	TryAcquire(ctx context.Context, serviceID string) (bool, error)
}

type sweeperService struct {
	ledger  ports.AttendanceRepository
	catalog ports.ServiceRepository
	users   ports.UserRepository
	marker  SweepMarker
	policy  AttendancePolicy
	window  time.Duration
	log     zerolog.Logger
}

// NewSweeperService returns the auto-reconciliation sweeper. window must
// match the tick period so each service is selected during exactly one tick.
func NewSweeperService(
	ledger ports.AttendanceRepository,
	catalog ports.ServiceRepository,
	users ports.UserRepository,
	marker SweepMarker,
	policy AttendancePolicy,
	window time.Duration,
	log zerolog.Logger,
) ports.SweeperService {
	return &sweeperService{
		ledger:  ledger,
		catalog: catalog,
		users:   users,
		marker:  marker,
		policy:  policy,
		window:  window,
		log:     log,
	}
}

// Sweep selects services whose late threshold was crossed during the last
// window and inserts a late record for every active member without one.
func (s *sweeperService) Sweep(ctx context.Context, now time.Time) (int, error) {
	// A service is eligible when start+grace lies in (now-window, now],
	// i.e. start lies in (now-grace-window, now-grace].
	to := now.Add(-s.policy.LateGrace)
	from := to.Add(-s.window)

	services, err := s.catalog.FindEligibleForLateSweep(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("sweep: select services: %w", err)
	}
	if len(services) == 0 {
		return 0, nil
	}

	total := 0
	for _, svc := range services {
		n, err := s.sweepService(ctx, svc, now)
		if err != nil {
			// One bad service must not abort the rest of the tick.
			s.log.Error().Err(err).
				Str("service_id", svc.ID).
				Str("service_name", svc.Name).
				Msg("sweep failed for service")
			continue
		}
		total += n
		if n > 0 {
			s.log.Info().
				Str("service_id", svc.ID).
				Str("service_name", svc.Name).
				Time("start_time", svc.StartTime).
				Int("marked_late", n).
				Msg("auto-late reconciliation complete")
		}
	}

	return total, nil
}

func (s *sweeperService) sweepService(ctx context.Context, svc *domain.ServiceEvent, now time.Time) (int, error) {
	// Re-check the threshold: the repository window already guarantees it,
	// but this keeps the method safe to call directly.
	if now.Before(svc.LateThreshold(s.policy.LateGrace)) {
		return 0, nil
	}

	claimed, err := s.marker.TryAcquire(ctx, svc.ID)
	if err != nil {
		// Marker unavailable: fall back to window-only idempotency. The
		// ledger still rejects duplicate inserts.
		s.log.Warn().Err(err).Str("service_id", svc.ID).Msg("sweep marker unavailable, proceeding")
	} else if !claimed {
		return 0, nil
	}

	members, err := s.users.FindActiveMembers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active members: %w", err)
	}

	count := 0
	for _, member := range members {
		record := domain.NewAutoLateRecord(member.ID, svc.ID, s.policy.Venue, now)
		inserted, err := s.ledger.InsertIfAbsent(ctx, record)
		if err != nil {
			return count, fmt.Errorf("insert late record for user %s: %w", member.ID, err)
		}
		if inserted {
			count++
		}
	}

	return count, nil
}
