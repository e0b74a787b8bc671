package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RequireAuth ensures a valid session is present.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("Authentication required.")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller holds the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.User.IsAdmin() {
			return apperrors.NewForbidden("Authorization denied. Admin access required.")
		}
		return c.Next()
	}
}

// RequireSuperAdmin ensures the caller is the configured super admin.
func RequireSuperAdmin(superAdminEmail string) fiber.Handler {
	superAdminEmail = strings.ToLower(superAdminEmail)
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || strings.ToLower(principal.User.Email) != superAdminEmail {
			return apperrors.NewForbidden("Authorization denied. Super Admin access required.")
		}
		return c.Next()
	}
}

// RequireDepartmentAdmin ensures the caller is an admin associated with
// the given department. domain.DepartmentAny accepts any admin.
func RequireDepartmentAdmin(dep domain.Department) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.User.IsAdmin() {
			return apperrors.NewForbidden("Authorization denied. Admin access required.")
		}
		if dep == domain.DepartmentAny {
			return c.Next()
		}
		if principal.Tags.Empty() {
			return apperrors.NewForbidden("User associations not found.")
		}
		if !principal.Tags.MemberOf(dep) {
			return apperrors.NewForbidden(fmt.Sprintf("Authorization denied. Admin access for %s required.", dep))
		}
		return c.Next()
	}
}
