package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Jerkzaen/accesspoint-control-sub000/internal/auth"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/config"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/domain"
	"github.com/Jerkzaen/accesspoint-control-sub000/internal/repository"
	"github.com/Jerkzaen/accesspoint-control-sub000/pkg/util/errorutil"
)

// AuthService coordinates operator accounts and login.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		users:      userRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// CreateUser registers an operator account. Only admins reach this through
// the HTTP surface.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error) {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "nombre")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("missing required fields: "+strings.Join(missing, ", "), nil)
	}
	if role != domain.RoleAdmin && role != domain.RoleTechnician {
		return nil, errorutil.NewValidationError("unknown role: "+string(role), nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
		State:        domain.LifecycleActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates an operator and issues an access token. Inactive
// accounts are rejected with the same message as bad credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if user.State != domain.LifecycleActive {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}
