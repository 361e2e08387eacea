package ports

import (
	"context"
	"time"

	"github.com/churchops/attendance-system/internal/core/domain"
)

// CheckInInput is the DTO passed from the transport layer to the attendance
// decision engine.
type CheckInInput struct {
	UserID    string
	ServiceID string
	Latitude  float64
	Longitude float64
}

// AttendanceService applies the geofence and timing rules to check-in
// attempts and exposes attendance queries.
type AttendanceService interface {
	// CheckIn validates and records one attendance attempt. It returns the
	// stored record, or one of the domain rejections: ErrServiceNotFound,
	// ErrAlreadyCheckedIn, ErrCheckInNotOpen, *OutOfRangeError.
	CheckIn(ctx context.Context, input CheckInInput, now time.Time) (*domain.AttendanceRecord, error)

	MyAttendances(ctx context.Context, userID string) ([]*domain.AttendanceRecord, error)
	AttendancesByService(ctx context.Context, serviceID string) ([]*domain.AttendanceRecord, error)
	AllAttendances(ctx context.Context) ([]*domain.AttendanceRecord, error)
}

// SweeperService converts silence into recorded late entries once a
// service's grace period has fully elapsed.
type SweeperService interface {
	// Sweep processes every service whose late threshold was crossed within
	// the last tick interval and returns the number of records created.
	// Per-service failures are isolated and do not abort the sweep.
	Sweep(ctx context.Context, now time.Time) (int, error)
}
