package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// guardApp mounts a guarded route behind a stub session that injects
// the given principal (nil for anonymous callers).
func guardApp(principal *Principal, guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"message": domainErr.Message})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		if principal != nil {
			c.Locals(principalKey, principal)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func principalFor(role domain.UserRole, email, associations string) *Principal {
	user := &domain.User{ID: 1, Email: email, Role: role, Associations: associations}
	return &Principal{User: user, Tags: user.Tags()}
}

func requestGuarded(t *testing.T, app *fiber.App) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.StatusCode == http.StatusOK {
		return resp.StatusCode, string(body)
	}
	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return resp.StatusCode, payload.Message
}

func TestRequireAuth(t *testing.T) {
	status, message := requestGuarded(t, guardApp(nil, RequireAuth()))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication required.", message)

	status, _ = requestGuarded(t, guardApp(principalFor(domain.UserRoleUser, "user@example.com", ""), RequireAuth()))
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireAdmin(t *testing.T) {
	status, message := requestGuarded(t, guardApp(principalFor(domain.UserRoleUser, "user@example.com", ""), RequireAdmin()))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Authorization denied. Admin access required.", message)

	status, _ = requestGuarded(t, guardApp(principalFor(domain.UserRoleAdmin, "admin@example.com", ""), RequireAdmin()))
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireSuperAdmin(t *testing.T) {
	guard := RequireSuperAdmin("Architect@Example.com")

	status, _ := requestGuarded(t, guardApp(principalFor(domain.UserRoleAdmin, "admin@example.com", ""), guard))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = requestGuarded(t, guardApp(principalFor(domain.UserRoleAdmin, "architect@example.com", ""), guard))
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireDepartmentAdmin(t *testing.T) {
	status, _ := requestGuarded(t, guardApp(principalFor(domain.UserRoleUser, "user@example.com", "bravo"), RequireDepartmentAdmin(domain.DepartmentIT)))
	assert.Equal(t, http.StatusForbidden, status)

	status, message := requestGuarded(t, guardApp(principalFor(domain.UserRoleAdmin, "admin@example.com", ""), RequireDepartmentAdmin(domain.DepartmentIT)))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "User associations not found.", message)

	status, message = requestGuarded(t, guardApp(principalFor(domain.UserRoleAdmin, "admin@example.com", "foxtrot"), RequireDepartmentAdmin(domain.DepartmentIT)))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Authorization denied. Admin access for IT required.", message)

	status, _ = requestGuarded(t, guardApp(principalFor(domain.UserRoleAdmin, "admin@example.com", "bravo"), RequireDepartmentAdmin(domain.DepartmentIT)))
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireDepartmentAdminAnyAcceptsUntaggedAdmin(t *testing.T) {
	status, _ := requestGuarded(t, guardApp(principalFor(domain.UserRoleAdmin, "admin@example.com", ""), RequireDepartmentAdmin(domain.DepartmentAny)))
	assert.Equal(t, http.StatusOK, status)
}
