package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/churchops/attendance-system/internal/core/domain"
	"github.com/churchops/attendance-system/internal/core/ports"
)

type rosterService struct {
	repo ports.RosterRepository
	log  zerolog.Logger
}

// NewRosterService returns the admin roster use cases.
func NewRosterService(repo ports.RosterRepository, log zerolog.Logger) ports.RosterService {
	return &rosterService{repo: repo, log: log}
}

func (s *rosterService) Add(ctx context.Context, in ports.RosterEntryInput) (*domain.PendingUser, error) {
	if in.Phone != "" {
		if _, err := s.repo.FindActiveByPhone(ctx, in.Phone); err == nil {
			return nil, domain.ErrRosterEntryExists
		} else if !errors.Is(err, domain.ErrRosterEntryNotFound) {
			return nil, fmt.Errorf("add roster entry: %w", err)
		}
	}
	if in.Email != "" {
		if _, err := s.repo.FindActiveByEmail(ctx, in.Email); err == nil {
			return nil, domain.ErrRosterEntryExists
		} else if !errors.Is(err, domain.ErrRosterEntryNotFound) {
			return nil, fmt.Errorf("add roster entry: %w", err)
		}
	}

	entry := &domain.PendingUser{
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Notes:     in.Notes,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("add roster entry: %w", err)
	}

	s.log.Info().Str("name", created.Name).Msg("roster entry added")
	return created, nil
}

func (s *rosterService) List(ctx context.Context) ([]*domain.PendingUser, error) {
	return s.repo.FindActive(ctx)
}

func (s *rosterService) Remove(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}
