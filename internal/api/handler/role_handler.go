package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/core/domain"
)

// ListRoles handles GET /v1/roles.
//
// @Summary      Role table with display metadata and security levels
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.RoleInfo
// @Router       /v1/roles [get]
func ListRoles(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Roles())
}
