package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a member and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.Session
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		case domain.ErrInactiveMember:
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, session)
}

// SetPassword handles PUT /v1/members/:id/password.
//
// @Summary      Set a member's password
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string              true  "Member id"
// @Param        body  body  setPasswordRequest  true  "New password"
// @Success      204
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/members/{id}/password [put]
func (h *AuthHandler) SetPassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req setPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.SetPassword(c.Request().Context(), actor, c.Param("id"), req.Password); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type credentialListResponse struct {
	Credentials []domain.Credential `json:"credentials"`
	Count       int                 `json:"count"`
}

// ListCredentials handles GET /v1/admin/credentials.
//
// @Summary      List login accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  credentialListResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/credentials [get]
func (h *AuthHandler) ListCredentials(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	creds, err := h.authService.Credentials(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, credentialListResponse{Credentials: creds, Count: len(creds)})
}
