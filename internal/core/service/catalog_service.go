package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/churchops/attendance-system/internal/core/domain"
	"github.com/churchops/attendance-system/internal/core/ports"
)

const (
	sundayServiceHour   = 14
	sundayServiceMinute = 0
)

type catalogService struct {
	repo   ports.ServiceRepository
	policy AttendancePolicy
	log    zerolog.Logger
}

// NewCatalogService returns the service catalog use cases.
func NewCatalogService(repo ports.ServiceRepository, policy AttendancePolicy, log zerolog.Logger) ports.CatalogService {
	return &catalogService{repo: repo, policy: policy, log: log}
}

func (s *catalogService) ListActive(ctx context.Context, now time.Time) ([]ports.ServiceView, error) {
	services, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active services: %w", err)
	}
	return s.toViews(services, now), nil
}

func (s *catalogService) ListAll(ctx context.Context, now time.Time) ([]ports.ServiceView, error) {
	services, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return s.toViews(services, now), nil
}

func (s *catalogService) Next(ctx context.Context, now time.Time) (*ports.ServiceView, error) {
	svc, err := s.repo.FindNextUpcoming(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("next service: %w", err)
	}
	view := s.toView(svc, now)
	return &view, nil
}

// EnsureNextSundayService creates the upcoming Sunday service when missing.
// Run at startup so the first weekend after a deploy is always covered.
func (s *catalogService) EnsureNextSundayService(ctx context.Context, now time.Time) (*domain.ServiceEvent, error) {
	daysUntilSunday := int(time.Sunday-now.Weekday()+7) % 7
	if daysUntilSunday == 0 {
		daysUntilSunday = 7
	}
	target := now.AddDate(0, 0, daysUntilSunday)
	return s.ensureSundayService(ctx, target)
}

// EnsureSundayServiceToday creates today's service when today is Sunday and
// none exists yet. Run once per day by the scheduler.
func (s *catalogService) EnsureSundayServiceToday(ctx context.Context, now time.Time) (*domain.ServiceEvent, error) {
	if now.Weekday() != time.Sunday {
		return nil, nil
	}
	return s.ensureSundayService(ctx, now)
}

func (s *catalogService) ensureSundayService(ctx context.Context, day time.Time) (*domain.ServiceEvent, error) {
	startTime := time.Date(day.Year(), day.Month(), day.Day(),
		sundayServiceHour, sundayServiceMinute, 0, 0, day.Location())

	exists, err := s.repo.ExistsOnDate(ctx, startTime)
	if err != nil {
		return nil, fmt.Errorf("ensure sunday service: %w", err)
	}
	if exists {
		s.log.Debug().Time("service_time", startTime).Msg("sunday service already scheduled")
		return nil, nil
	}

	svc := &domain.ServiceEvent{
		Name:      fmt.Sprintf("Sunday Service (%s)", startTime.Format("2006-01-02")),
		StartTime: startTime,
		Type:      domain.ServiceSunday,
		Active:    true,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("ensure sunday service: %w", err)
	}

	s.log.Info().Str("name", svc.Name).Time("start_time", svc.StartTime).Msg("sunday service created")
	return svc, nil
}

func (s *catalogService) toViews(services []*domain.ServiceEvent, now time.Time) []ports.ServiceView {
	views := make([]ports.ServiceView, 0, len(services))
	for _, svc := range services {
		views = append(views, s.toView(svc, now))
	}
	return views
}

func (s *catalogService) toView(svc *domain.ServiceEvent, now time.Time) ports.ServiceView {
	return ports.ServiceView{
		ID:         svc.ID,
		Name:       svc.Name,
		StartTime:  svc.StartTime,
		Type:       svc.Type,
		Active:     svc.Active,
		CanCheckIn: svc.Active && svc.CheckInOpenAt(now, s.policy.ActivationLead),
	}
}
