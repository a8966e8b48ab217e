package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/core/ports"
)

// MemberHandler serves the member directory.
type MemberHandler struct {
	directory ports.DirectoryService
}

func NewMemberHandler(directory ports.DirectoryService) *MemberHandler {
	return &MemberHandler{directory: directory}
}

// List handles GET /v1/members. The directory is reloaded and then filtered;
// when the reload fails but a cached directory exists it is served as stale.
//
// @Summary      List members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive match on display name or email"
// @Param        role    query     string  false  "Role tag, or all"
// @Success      200     {object}  memberListResponse
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Failure      503     {object}  map[string]string
// @Router       /v1/members [get]
func (h *MemberHandler) List(c echo.Context) error {
	_, loadErr := h.directory.LoadAll(c.Request().Context())
	cached := h.directory.Members()
	if loadErr != nil && len(cached) == 0 {
		return loadErr
	}

	members := h.directory.Filter(c.QueryParam("search"), c.QueryParam("role"))
	resp := memberListResponse{Members: members, Count: len(members)}
	if loadErr != nil {
		resp.Stale = true
		resp.Error = "directory reload failed, serving cached data"
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/members/:id.
//
// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Member id"
// @Success      200  {object}  domain.MemberProfile
// @Failure      404  {object}  map[string]string
// @Router       /v1/members/{id} [get]
func (h *MemberHandler) Get(c echo.Context) error {
	member, err := h.directory.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

// Create handles POST /v1/members.
//
// @Summary      Create a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      memberRequest  true  "Profile"
// @Success      201   {object}  domain.MemberProfile
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/members [post]
func (h *MemberHandler) Create(c echo.Context) error {
	return h.save(c, "", http.StatusCreated)
}

// Update handles PUT /v1/members/:id.
//
// @Summary      Update a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Member id"
// @Param        body  body      memberRequest  true  "Profile"
// @Success      200   {object}  domain.MemberProfile
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/members/{id} [put]
func (h *MemberHandler) Update(c echo.Context) error {
	return h.save(c, c.Param("id"), http.StatusOK)
}

// SetActive handles PUT /v1/members/:id/active.
//
// @Summary      Activate or deactivate a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Member id"
// @Param        body  body      setActiveRequest  true  "Desired state"
// @Success      200   {object}  domain.MemberProfile
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/members/{id}/active [put]
func (h *MemberHandler) SetActive(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req setActiveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	member, err := h.directory.SetActive(c.Request().Context(), actor, c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) save(c echo.Context, existingID string, status int) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req memberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	member, err := h.directory.Save(c.Request().Context(), actor, existingID, toForm(req))
	if err != nil {
		return err
	}
	return c.JSON(status, member)
}
