package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const (
	// defaultAssociation is the tag granted to general registrations.
	defaultAssociation = "alpha"
	// adminAssociation is the tag granted to admin-code registrations;
	// it sits in the Management allow-list.
	adminAssociation = "charlie"
	// superAdminAssociation grants the seeded super admin every
	// department.
	superAdminAssociation = "oscar"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	cfg      config.AuthConfig
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTLMinutes),
		cfg:      cfg,
		logger:   logger,
	}
}

// Register creates a new account. The authentication code selects the
// initial role: the admin code grants admin with a Management
// association, the general code grants a plain user, anything else is
// rejected.
func (s *AuthService) Register(ctx context.Context, email, password, authCode string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || authCode == "" {
		return nil, apperrors.NewValidationError("Missing email, password, or authentication code.", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("Email is already taken.", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	role := domain.UserRoleUser
	associations := defaultAssociation
	switch authCode {
	case s.cfg.AdminAuthCode:
		role = domain.UserRoleAdmin
		associations = adminAssociation
	case s.cfg.AuthCode:
	default:
		return nil, apperrors.NewValidationError("Invalid Authentication Code.", nil)
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Associations: associations,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login authenticates and issues a session token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials.")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials.")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// EnsureSuperAdmin seeds the configured super admin account on first
// boot. The default password must be changed immediately.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context) error {
	if _, err := s.users.GetByEmail(ctx, s.cfg.SuperAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(s.cfg.SuperAdminInitialPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	superAdmin := &domain.User{
		Email:        s.cfg.SuperAdminEmail,
		PasswordHash: hash,
		Role:         domain.UserRoleAdmin,
		Associations: superAdminAssociation,
	}
	if err := s.users.Create(ctx, superAdmin); err != nil {
		return err
	}
	s.logger.Info("super admin account created; change the default password immediately",
		zap.String("email", s.cfg.SuperAdminEmail))
	return nil
}

// TokenManager exposes the underlying token manager for middleware and
// cookie handling.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
