package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/api/middleware"
	"github.com/lodgeroll/membership/internal/core/domain"
)

// ctxActor extracts the caller injected by the Auth middleware and fails
// fast before any service call when it is absent.
func ctxActor(c echo.Context) (domain.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok || actor.ID == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bindAndValidate binds the request body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
