package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthHandler exposes registration, login, logout, and session status.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{auth: authService, cookieName: cookieName}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Missing email, password, or authentication code.", nil)
	}

	user, err := h.auth.Register(c.UserContext(), req.Email, req.Password, req.AuthCode)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Message:   "User registered successfully!",
		UserEmail: user.Email,
	})
}

// Login handles POST /api/auth/login. On success the session token is
// set as an HttpOnly cookie; it never appears in the payload.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Missing email or password.", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("Missing email or password.", nil)
	}

	user, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(dto.LoginResponse{
		Message:   "Logged in successfully!",
		UserEmail: user.Email,
		Role:      string(user.Role),
	})
}

// Logout handles POST /api/auth/logout by expiring the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully."})
}

// Status handles GET /api/auth/status. It never errors; an anonymous
// caller simply gets is_authenticated=false.
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return c.JSON(dto.AuthStatusResponse{IsAuthenticated: false})
	}
	return c.JSON(dto.AuthStatusResponse{
		IsAuthenticated:  true,
		UserEmail:        principal.User.Email,
		UserRole:         string(principal.User.Role),
		UserAssociations: principal.User.Associations,
	})
}
