package ports

import (
	"context"

	"github.com/churchops/attendance-system/internal/core/domain"
)

// UserRepository handles user persistence.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindActiveMembers returns active users with the member role.
	// Administrators are deliberately excluded: the sweeper must never
	// auto-mark an admin late.
	FindActiveMembers(ctx context.Context) ([]*domain.User, error)
}

// RosterRepository handles the pre-registered roster.
type RosterRepository interface {
	Create(ctx context.Context, entry *domain.PendingUser) (*domain.PendingUser, error)
	FindActive(ctx context.Context) ([]*domain.PendingUser, error)
	FindByID(ctx context.Context, id string) (*domain.PendingUser, error)
	FindActiveByPhone(ctx context.Context, phone string) (*domain.PendingUser, error)
	FindActiveByEmail(ctx context.Context, email string) (*domain.PendingUser, error)

	// Deactivate soft-deletes an entry (consumed by registration or removed
	// by an admin).
	Deactivate(ctx context.Context, id string) error
}
