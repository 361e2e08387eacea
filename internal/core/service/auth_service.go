package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/churchops/attendance-system/internal/core/domain"
	"github.com/churchops/attendance-system/internal/core/ports"
)

// AuthService implements roster-gated registration and JWT login.
type AuthService struct {
	users     ports.UserRepository
	roster    ports.RosterRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roster ports.RosterRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		roster:    roster,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates a member account for someone on the pre-registered
// roster, consuming their roster entry.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" || in.Name == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	entry, err := s.matchRosterEntry(ctx, in.Phone, in.Email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		Role:         domain.RoleMember,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	// Consume the roster entry. Non-fatal: the account already exists.
	if err := s.roster.Deactivate(ctx, entry.ID); err != nil {
		s.log.Warn().Err(err).Str("roster_id", entry.ID).Msg("failed to consume roster entry")
	}

	s.log.Info().Str("username", created.Username).Msg("member registered")
	return created, nil
}

// matchRosterEntry finds the active roster entry for the given phone or
// email, in that order.
func (s *AuthService) matchRosterEntry(ctx context.Context, phone, email string) (*domain.PendingUser, error) {
	if phone != "" {
		entry, err := s.roster.FindActiveByPhone(ctx, phone)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, domain.ErrRosterEntryNotFound) {
			return nil, fmt.Errorf("register: roster lookup: %w", err)
		}
	}
	if email != "" {
		entry, err := s.roster.FindActiveByEmail(ctx, email)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, domain.ErrRosterEntryNotFound) {
			return nil, fmt.Errorf("register: roster lookup: %w", err)
		}
	}
	return nil, domain.ErrNotOnRoster
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if !user.Active {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
