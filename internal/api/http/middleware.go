package http

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/license"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RegisterMiddlewares attaches the global middlewares: timeout, error
// handling, request logging, and the license gate.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, checker *license.Checker, contact string, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger))
	app.Use(observability.RequestLogger(logger))
	app.Use(licenseGateMiddleware(checker, contact))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware recovers panics and translates errors into
// the {"message": ...} envelope. Internal details never reach the
// client.
func errorHandlingMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed",
						zap.String("path", c.Path()), zap.String("method", c.Method()), zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{"message": domainErr.Message})
				err = nil
			}
		}()
		return c.Next()
	}
}

// licenseGateMiddleware rejects every request with 503 once the
// license has expired. Auth routes stay reachable so an admin can
// still log in.
func licenseGateMiddleware(checker *license.Checker, contact string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/auth") {
			return c.Next()
		}

		expired, expiration := checker.Expired(c.UserContext())
		if expired {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message":         "Service Unavailable: License Expired.",
				"expiration_date": expiration.Format("2006-01-02"),
				"contact":         contact,
			})
		}
		return c.Next()
	}
}
