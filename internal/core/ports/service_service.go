package ports

import (
	"context"
	"time"

	"github.com/churchops/attendance-system/internal/core/domain"
)

// ServiceView is a service enriched with whether check-in is currently open.
type ServiceView struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	StartTime  time.Time          `json:"start_time"`
	Type       domain.ServiceType `json:"type"`
	Active     bool               `json:"active"`
	CanCheckIn bool               `json:"can_check_in"`
}

// CatalogService exposes the service catalog to callers and owns the weekly
// Sunday service creation.
type CatalogService interface {
	ListActive(ctx context.Context, now time.Time) ([]ServiceView, error)
	ListAll(ctx context.Context, now time.Time) ([]ServiceView, error)
	Next(ctx context.Context, now time.Time) (*ServiceView, error)

	// EnsureNextSundayService creates the upcoming Sunday 14:00 service when
	// none exists on that date yet. Returns nil when nothing was created.
	EnsureNextSundayService(ctx context.Context, now time.Time) (*domain.ServiceEvent, error)

	// EnsureSundayServiceToday is the daily variant: a no-op unless today is
	// Sunday and no service exists today.
	EnsureSundayServiceToday(ctx context.Context, now time.Time) (*domain.ServiceEvent, error)
}
