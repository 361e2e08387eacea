package ports

import (
	"context"
	"time"

	"github.com/churchops/attendance-system/internal/core/domain"
)

// ServiceRepository is the catalog of scheduled services. The attendance
// core reads it; creation is driven by the admin surface and the weekly
// scheduler only.
type ServiceRepository interface {
	FindByID(ctx context.Context, id string) (*domain.ServiceEvent, error)
	FindActive(ctx context.Context) ([]*domain.ServiceEvent, error)
	FindAll(ctx context.Context) ([]*domain.ServiceEvent, error)

	// FindNextUpcoming returns the earliest active service starting at or
	// after now, or domain.ErrNoUpcomingService.
	FindNextUpcoming(ctx context.Context, now time.Time) (*domain.ServiceEvent, error)

	// FindEligibleForLateSweep returns active services whose start time lies
	// in (from, to]. The sweeper shifts the bounds by the late grace so that
	// each service is selected during exactly one tick interval.
	FindEligibleForLateSweep(ctx context.Context, from, to time.Time) ([]*domain.ServiceEvent, error)

	Create(ctx context.Context, service *domain.ServiceEvent) error

	// ExistsOnDate reports whether any service is scheduled on the calendar
	// day containing t.
	ExistsOnDate(ctx context.Context, t time.Time) (bool, error)
}
