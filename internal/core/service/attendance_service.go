package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/churchops/attendance-system/internal/core/domain"
	"github.com/churchops/attendance-system/internal/core/ports"
)

// AttendancePolicy holds the deployment-wide geofence and timing constants.
// It is loaded once at startup and passed explicitly so the engine and the
// sweeper stay testable with varied parameters.
type AttendancePolicy struct {
	Venue          domain.Coordinates
	RadiusMeters   float64
	ActivationLead time.Duration
	LateGrace      time.Duration
}

type attendanceService struct {
	ledger  ports.AttendanceRepository
	catalog ports.ServiceRepository
	policy  AttendancePolicy
	log     zerolog.Logger
}

// NewAttendanceService returns the attendance decision engine.
func NewAttendanceService(
	ledger ports.AttendanceRepository,
	catalog ports.ServiceRepository,
	policy AttendancePolicy,
	log zerolog.Logger,
) ports.AttendanceService {
	return &attendanceService{
		ledger:  ledger,
		catalog: catalog,
		policy:  policy,
		log:     log,
	}
}

// CheckIn applies the geofence and timing rules to one attempt and persists
// the classified record. Every rejection is terminal for the attempt.
func (s *attendanceService) CheckIn(ctx context.Context, in ports.CheckInInput, now time.Time) (*domain.AttendanceRecord, error) {
	// 1. Resolve the service; inactive services are never check-in targets.
	svc, err := s.catalog.FindByID(ctx, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("check-in: %w", err)
	}
	if !svc.Active {
		return nil, fmt.Errorf("check-in: %w", domain.ErrServiceNotFound)
	}

	// 2. Duplicate pre-check. The ledger's unique index is the source of
	// truth under concurrency; this just rejects the common case early.
	exists, err := s.ledger.ExistsFor(ctx, in.UserID, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("check-in: duplicate check: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyCheckedIn
	}

	// 3. The window opens ActivationLead before the service starts,
	// boundary inclusive.
	if now.Before(svc.ActivationTime(s.policy.ActivationLead)) {
		return nil, domain.ErrCheckInNotOpen
	}

	// 4. Geofence. The boundary is inclusive: a distance exactly equal to
	// the radius is accepted.
	submitted := domain.Coordinates{Lat: in.Latitude, Lng: in.Longitude}
	distance := domain.DistanceMeters(s.policy.Venue, submitted)
	if distance > s.policy.RadiusMeters {
		return nil, &domain.OutOfRangeError{
			RadiusMeters:   s.policy.RadiusMeters,
			DistanceMeters: distance,
		}
	}

	// 5. Classify: strictly after the late threshold is late, at the
	// threshold is still present.
	status := domain.StatusPresent
	if now.After(svc.LateThreshold(s.policy.LateGrace)) {
		status = domain.StatusLate
	}

	record := &domain.AttendanceRecord{
		UserID:         in.UserID,
		ServiceID:      in.ServiceID,
		Status:         status,
		Location:       submitted,
		DistanceMeters: distance,
		CheckedAt:      now,
	}

	// 6. Atomic insert; losing the race is the same rejection as the
	// pre-check.
	inserted, err := s.ledger.InsertIfAbsent(ctx, record)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", in.UserID).Str("service_id", in.ServiceID).Msg("failed to persist attendance")
		return nil, fmt.Errorf("check-in: %w", err)
	}
	if !inserted {
		return nil, domain.ErrAlreadyCheckedIn
	}

	s.log.Info().
		Str("user_id", in.UserID).
		Str("service_id", in.ServiceID).
		Str("status", string(status)).
		Float64("distance_m", distance).
		Msg("attendance recorded")

	return record, nil
}

func (s *attendanceService) MyAttendances(ctx context.Context, userID string) ([]*domain.AttendanceRecord, error) {
	return s.ledger.FindByUser(ctx, userID)
}

func (s *attendanceService) AttendancesByService(ctx context.Context, serviceID string) ([]*domain.AttendanceRecord, error) {
	if _, err := s.catalog.FindByID(ctx, serviceID); err != nil {
		return nil, fmt.Errorf("attendances by service: %w", err)
	}
	return s.ledger.FindByService(ctx, serviceID)
}

func (s *attendanceService) AllAttendances(ctx context.Context) ([]*domain.AttendanceRecord, error) {
	return s.ledger.FindAll(ctx)
}
