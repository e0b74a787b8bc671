package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. The tag set is
// computed once when the session is resolved.
type Principal struct {
	User *domain.User
	Tags domain.TagSet
}

// Middleware resolves session cookies and loads principals.
type Middleware struct {
	tokens     *TokenManager
	users      repository.UserRepository
	cookieName string
}

// NewMiddleware constructs the session middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, cookieName string) *Middleware {
	return &Middleware{tokens: tokens, users: users, cookieName: cookieName}
}

// Handle resolves the session cookie into a Principal when present.
// It never rejects on its own; the Require* predicates do.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	tokenStr := c.Cookies(m.cookieName)
	if tokenStr == "" {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return c.Next()
	}
	userID, err := claims.UserID()
	if err != nil {
		return c.Next()
	}

	user, err := m.users.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Next()
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user, Tags: user.Tags()})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// MustPrincipal returns the principal, panicking if a guarded handler
// runs without one. Handlers behind RequireAuth may rely on it.
func MustPrincipal(c *fiber.Ctx) *Principal {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		panic("principal missing from guarded route")
	}
	return principal
}
