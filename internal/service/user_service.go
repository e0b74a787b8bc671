package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UserService implements account administration. The super admin
// account (the "architect") may only be modified by itself.
type UserService struct {
	users repository.UserRepository
	cfg   config.AuthConfig
}

func NewUserService(cfg config.AuthConfig, users repository.UserRepository) *UserService {
	return &UserService{users: users, cfg: cfg}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListAdminEmails returns the emails of every admin account.
func (s *UserService) ListAdminEmails(ctx context.Context) ([]string, error) {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	emails := make([]string, 0, len(admins))
	for _, admin := range admins {
		emails = append(emails, admin.Email)
	}
	return emails, nil
}

// guardArchitect rejects any modification of the super admin account by
// anyone other than the super admin.
func (s *UserService) guardArchitect(actor *domain.User, targetEmail string) error {
	if strings.EqualFold(targetEmail, s.cfg.SuperAdminEmail) && !strings.EqualFold(actor.Email, s.cfg.SuperAdminEmail) {
		return apperrors.NewForbidden("Cannot alter the architect of the system!")
	}
	return nil
}

// UpdateRole changes a user's role subject to the admin-assignment
// policy: only the super admin may grant admin, at most one non-super
// admin may exist, and the super admin account always stays admin.
func (s *UserService) UpdateRole(ctx context.Context, actor *domain.User, targetEmail string, newRole domain.UserRole) (*domain.User, error) {
	if newRole != domain.UserRoleUser && newRole != domain.UserRoleAdmin {
		return nil, apperrors.NewValidationError("Invalid role provided.", nil)
	}

	if newRole == domain.UserRoleAdmin {
		if !strings.EqualFold(actor.Email, s.cfg.SuperAdminEmail) {
			return nil, apperrors.NewForbidden("Authorization denied. Only the Super Admin can assign the admin role.")
		}
		admins, err := s.users.ListAdmins(ctx)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, admin := range admins {
			if strings.EqualFold(admin.Email, targetEmail) || strings.EqualFold(admin.Email, s.cfg.SuperAdminEmail) {
				continue
			}
			return nil, apperrors.NewConflict(
				fmt.Sprintf("Cannot assign 'admin' role. User '%s' is already an admin.", admin.Email), nil)
		}
	}

	if err := s.guardArchitect(actor, targetEmail); err != nil {
		return nil, err
	}
	if strings.EqualFold(targetEmail, s.cfg.SuperAdminEmail) && newRole != domain.UserRoleAdmin {
		return nil, apperrors.NewForbidden(
			fmt.Sprintf("The super admin account (%s) must retain the 'admin' role.", s.cfg.SuperAdminEmail))
	}

	user, err := s.GetByEmail(ctx, targetEmail)
	if err != nil {
		return nil, err
	}
	user.Role = newRole
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateAssociations replaces a user's department association tags.
func (s *UserService) UpdateAssociations(ctx context.Context, actor *domain.User, targetEmail, associations string) (*domain.User, error) {
	if strings.TrimSpace(associations) == "" {
		return nil, apperrors.NewValidationError("New associations not provided.", nil)
	}
	if err := s.guardArchitect(actor, targetEmail); err != nil {
		return nil, err
	}

	user, err := s.GetByEmail(ctx, targetEmail)
	if err != nil {
		return nil, err
	}
	user.Associations = associations
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdatePassword sets a new password on behalf of an admin.
func (s *UserService) UpdatePassword(ctx context.Context, actor *domain.User, targetEmail, newPassword string) (*domain.User, error) {
	if newPassword == "" {
		return nil, apperrors.NewValidationError("New password not provided.", nil)
	}
	if err := s.guardArchitect(actor, targetEmail); err != nil {
		return nil, err
	}

	user, err := s.GetByEmail(ctx, targetEmail)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateSelfPassword lets the caller change their own password after
// proving the current one.
func (s *UserService) UpdateSelfPassword(ctx context.Context, actor *domain.User, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperrors.NewValidationError("Old password and new password are required.", nil)
	}
	if err := auth.ComparePassword(actor.PasswordHash, oldPassword); err != nil {
		return apperrors.NewValidationError("Incorrect old password.", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	actor.PasswordHash = hash
	if err := s.users.Update(ctx, actor); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Delete removes an account. Reserved for the super admin at the route
// level; the architect guard still applies.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, targetEmail string) error {
	if err := s.guardArchitect(actor, targetEmail); err != nil {
		return err
	}
	user, err := s.GetByEmail(ctx, targetEmail)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
