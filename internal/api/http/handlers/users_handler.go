package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// UsersHandler exposes account administration endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /api/users/.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponses(users))
}

// Get handles GET /api/users/:email.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// ListAdmins handles GET /api/users/admins.
func (h *UsersHandler) ListAdmins(c *fiber.Ctx) error {
	emails, err := h.users.ListAdminEmails(c.UserContext())
	if err != nil {
		return err
	}
	if emails == nil {
		emails = []string{}
	}
	return c.JSON(fiber.Map{"admins": emails})
}

// UpdateRole handles PUT /api/users/:email/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return apperrors.NewValidationError("Invalid role provided.", nil)
	}

	principal := auth.MustPrincipal(c)
	user, err := h.users.UpdateRole(c.UserContext(), principal.User, c.Params("email"), domain.UserRole(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Role updated to %s for %s.", user.Role, user.Email),
		"user":    dto.NewUserResponse(user),
	})
}

// UpdateAssociations handles PUT /api/users/:email/associations.
func (h *UsersHandler) UpdateAssociations(c *fiber.Ctx) error {
	var req dto.UpdateAssociationsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("New associations not provided.", nil)
	}

	principal := auth.MustPrincipal(c)
	user, err := h.users.UpdateAssociations(c.UserContext(), principal.User, c.Params("email"), req.Associations)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Associations updated to %s for %s.", user.Associations, user.Email),
		"user":    dto.NewUserResponse(user),
	})
}

// UpdatePassword handles PUT /api/users/:email/password.
func (h *UsersHandler) UpdatePassword(c *fiber.Ctx) error {
	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("New password not provided.", nil)
	}

	principal := auth.MustPrincipal(c)
	user, err := h.users.UpdatePassword(c.UserContext(), principal.User, c.Params("email"), req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Password updated for %s.", user.Email),
		"user":    dto.NewUserResponse(user),
	})
}

// UpdateSelfPassword handles PUT /api/users/self/password.
func (h *UsersHandler) UpdateSelfPassword(c *fiber.Ctx) error {
	var req dto.UpdateSelfPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Old password and new password are required.", nil)
	}

	principal := auth.MustPrincipal(c)
	if err := h.users.UpdateSelfPassword(c.UserContext(), principal.User, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password updated successfully."})
}

// Delete handles DELETE /api/users/:email.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal := auth.MustPrincipal(c)
	if err := h.users.Delete(c.UserContext(), principal.User, c.Params("email")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted successfully."})
}
