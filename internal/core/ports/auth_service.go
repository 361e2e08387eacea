package ports

import (
	"context"

	"github.com/churchops/attendance-system/internal/core/domain"
)

// RegisterInput carries a self-registration attempt. The person must match
// an active roster entry by phone or email.
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Phone    string
	Email    string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// RosterEntryInput carries an admin's roster addition.
type RosterEntryInput struct {
	Name  string
	Phone string
	Email string
	Notes string
}

// RosterService is the admin surface for the pre-registered roster.
type RosterService interface {
	Add(ctx context.Context, input RosterEntryInput) (*domain.PendingUser, error)
	List(ctx context.Context) ([]*domain.PendingUser, error)
	Remove(ctx context.Context, id string) error
}
