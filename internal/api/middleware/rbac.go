package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/pkg/metrics"
)

// RequireLevel admits callers whose role carries at least the given security
// level. Services re-check on every mutation; this only fails reads early.
func RequireLevel(level domain.SecurityLevel) echo.MiddlewareFunc {
	return guard(func(actor domain.Actor) bool {
		return domain.HasSecurityLevel(actor.Role, level)
	})
}

// RequireSystemAdmin admits only the system administrator.
func RequireSystemAdmin() echo.MiddlewareFunc {
	return guard(func(actor domain.Actor) bool {
		return domain.CanManageSystem(actor.Role)
	})
}

func guard(allowed func(domain.Actor) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authentication"})
			}
			if !allowed(actor) {
				metrics.AuthorizationDeniedTotal.WithLabelValues(c.Path()).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
