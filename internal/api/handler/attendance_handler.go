package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
)

// RollCallDispatcher is the interface the handler uses to queue batch writes.
type RollCallDispatcher interface {
	EnqueueBatch(actor domain.Actor, inputs []ports.AttendanceInput)
}

// AttendanceHandler serves the attendance ledger.
type AttendanceHandler struct {
	ledger     ports.AttendanceLedger
	dispatcher RollCallDispatcher
}

func NewAttendanceHandler(ledger ports.AttendanceLedger, dispatcher RollCallDispatcher) *AttendanceHandler {
	return &AttendanceHandler{ledger: ledger, dispatcher: dispatcher}
}

// Record handles PUT /v1/events/:event_id/attendance/:member_id.
//
// @Summary      Record a member's attendance status for an event
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        event_id   path      string               true  "Event id"
// @Param        member_id  path      string               true  "Member id"
// @Param        body       body      recordStatusRequest  true  "Status"
// @Success      200        {object}  domain.AttendanceRecord
// @Failure      403        {object}  map[string]string
// @Failure      422        {object}  map[string]string
// @Router       /v1/events/{event_id}/attendance/{member_id} [put]
func (h *AttendanceHandler) Record(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req recordStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.ledger.RecordStatus(c.Request().Context(), actor, c.Param("member_id"), c.Param("event_id"), domain.AttendanceStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Get handles GET /v1/events/:event_id/attendance/:member_id from the cache.
//
// @Summary      Get a member's cached attendance status
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        event_id   path      string  true  "Event id"
// @Param        member_id  path      string  true  "Member id"
// @Success      200        {object}  domain.AttendanceRecord
// @Failure      404        {object}  map[string]string
// @Router       /v1/events/{event_id}/attendance/{member_id} [get]
func (h *AttendanceHandler) Get(c echo.Context) error {
	rec, ok := h.ledger.GetStatus(c.Param("member_id"), c.Param("event_id"))
	if !ok {
		return fmt.Errorf("attendance %s: %w", domain.AttendanceKey(c.Param("event_id"), c.Param("member_id")), domain.ErrNotFound)
	}
	return c.JSON(http.StatusOK, rec)
}

// Summary handles GET /v1/events/:event_id/attendance.
//
// @Summary      Count cached attendance by status for an event
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        event_id  path      string  true  "Event id"
// @Success      200       {object}  eventSummaryResponse
// @Router       /v1/events/{event_id}/attendance [get]
func (h *AttendanceHandler) Summary(c echo.Context) error {
	eventID := c.Param("event_id")
	counts := h.ledger.EventSummary(eventID)
	total := 0
	for _, n := range counts {
		total += n
	}
	return c.JSON(http.StatusOK, eventSummaryResponse{EventID: eventID, Counts: counts, Total: total})
}

// RollCall handles POST /v1/events/:event_id/attendance/batch. Entries are
// queued and applied asynchronously; the response only confirms acceptance.
//
// @Summary      Queue a roll call for an event
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        event_id  path      string           true  "Event id"
// @Param        body      body      rollCallRequest  true  "Roll call"
// @Success      202       {object}  acceptedResponse
// @Failure      400       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /v1/events/{event_id}/attendance/batch [post]
func (h *AttendanceHandler) RollCall(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req rollCallRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	eventID := c.Param("event_id")
	inputs := make([]ports.AttendanceInput, 0, len(req.Entries))
	for i, e := range req.Entries {
		if err := domain.ValidateAttendanceIDs(eventID, e.MemberID); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, fmt.Sprintf("entries[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, ports.AttendanceInput{
			MemberID: e.MemberID,
			EventID:  eventID,
			Status:   domain.AttendanceStatus(e.Status),
		})
	}

	h.dispatcher.EnqueueBatch(actor, inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "roll call accepted", Count: len(inputs)})
}
