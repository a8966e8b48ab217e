package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/core/service"
)

// Refresher reloads every cache at once.
type Refresher interface {
	Refresh(ctx context.Context) service.RefreshResult
}

// EventHandler serves the read-only event list and the joined refresh.
type EventHandler struct {
	catalog   ports.EventCatalog
	refresher Refresher
}

func NewEventHandler(catalog ports.EventCatalog, refresher Refresher) *EventHandler {
	return &EventHandler{catalog: catalog, refresher: refresher}
}

type eventListResponse struct {
	Events []domain.Event `json:"events"`
	Count  int            `json:"count"`
	Stale  bool           `json:"stale,omitempty"`
}

type refreshResponse struct {
	Members          int               `json:"members"`
	Events           int               `json:"events"`
	AttendanceLoaded bool              `json:"attendance_loaded"`
	Errors           map[string]string `json:"errors,omitempty"`
}

// List handles GET /v1/events.
//
// @Summary      List events ordered by date
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  eventListResponse
// @Failure      503  {object}  map[string]string
// @Router       /v1/events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.catalog.LoadAll(c.Request().Context())
	if err != nil && len(events) == 0 {
		return err
	}
	return c.JSON(http.StatusOK, eventListResponse{Events: events, Count: len(events), Stale: err != nil})
}

// Refresh handles POST /v1/refresh. Every load runs to completion; failed
// loads are listed and leave their cache untouched.
//
// @Summary      Reload members, events and attendance
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  refreshResponse
// @Router       /v1/refresh [post]
func (h *EventHandler) Refresh(c echo.Context) error {
	res := h.refresher.Refresh(c.Request().Context())

	resp := refreshResponse{Members: res.Members, Events: res.Events, AttendanceLoaded: res.Attendance}
	for name, err := range map[string]error{"members": res.MembersErr, "events": res.EventsErr, "attendance": res.LoadErr} {
		if err == nil {
			continue
		}
		if resp.Errors == nil {
			resp.Errors = make(map[string]string)
		}
		resp.Errors[name] = err.Error()
	}
	return c.JSON(http.StatusOK, resp)
}
