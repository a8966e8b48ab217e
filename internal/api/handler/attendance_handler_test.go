package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/lodgeroll/membership/internal/api/middleware"
	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
)

type stubLedger struct {
	records map[string]domain.AttendanceRecord
}

func (l *stubLedger) RecordStatus(_ context.Context, actor domain.Actor, memberID, eventID string, status domain.AttendanceStatus) (*domain.AttendanceRecord, error) {
	if err := domain.RequireLevel(actor, domain.LevelLeadership, "record attendance"); err != nil {
		return nil, err
	}
	rec := domain.AttendanceRecord{ID: domain.AttendanceKey(eventID, memberID), MemberID: memberID, EventID: eventID, Status: status, RecordedBy: actor.ID}
	l.records[rec.ID] = rec
	return &rec, nil
}

func (l *stubLedger) GetStatus(memberID, eventID string) (*domain.AttendanceRecord, bool) {
	rec, ok := l.records[domain.AttendanceKey(eventID, memberID)]
	return &rec, ok
}

func (l *stubLedger) Load(context.Context) error { return nil }

func (l *stubLedger) EventSummary(eventID string) map[domain.AttendanceStatus]int {
	out := map[domain.AttendanceStatus]int{}
	for _, s := range domain.AttendanceStatuses {
		out[s] = 0
	}
	for _, r := range l.records {
		if r.EventID == eventID {
			out[r.Status]++
		}
	}
	return out
}

type stubDispatcher struct {
	actor  domain.Actor
	inputs []ports.AttendanceInput
}

func (d *stubDispatcher) EnqueueBatch(actor domain.Actor, inputs []ports.AttendanceInput) {
	d.actor = actor
	d.inputs = append(d.inputs, inputs...)
}

func attendanceContext(e *echo.Echo, method, body, eventID, memberID string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(method, "/", body), rec)
	if memberID != "" {
		c.SetParamNames("event_id", "member_id")
		c.SetParamValues(eventID, memberID)
	} else {
		c.SetParamNames("event_id")
		c.SetParamValues(eventID)
	}
	return c, rec
}

func TestAttendanceHandler_RecordThenGet(t *testing.T) {
	e := newTestEcho()
	ledger := &stubLedger{records: map[string]domain.AttendanceRecord{}}
	h := NewAttendanceHandler(ledger, &stubDispatcher{})

	c, rec := attendanceContext(e, http.MethodPut, `{"status":"called_in"}`, "e7", "m42")
	middleware.SetActor(c, domain.Actor{ID: "gov", Role: domain.RoleGovernor})
	if err := h.Record(c); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = attendanceContext(e, http.MethodGet, "", "e7", "m42")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	var got domain.AttendanceRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Status != domain.StatusCalledIn {
		t.Fatalf("expected called_in, got %s", got.Status)
	}
}

func TestAttendanceHandler_Record_RejectsUnknownStatus(t *testing.T) {
	e := newTestEcho()
	ledger := &stubLedger{records: map[string]domain.AttendanceRecord{}}
	h := NewAttendanceHandler(ledger, &stubDispatcher{})

	c, _ := attendanceContext(e, http.MethodPut, `{"status":"late"}`, "e1", "m1")
	middleware.SetActor(c, domain.Actor{ID: "gov", Role: domain.RoleGovernor})

	err := h.Record(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if len(ledger.records) != 0 {
		t.Fatalf("invalid status reached the ledger")
	}
}

func TestAttendanceHandler_Record_PermissionDenied(t *testing.T) {
	e := newTestEcho()
	h := NewAttendanceHandler(&stubLedger{records: map[string]domain.AttendanceRecord{}}, &stubDispatcher{})

	c, _ := attendanceContext(e, http.MethodPut, `{"status":"present"}`, "e1", "m1")
	middleware.SetActor(c, domain.Actor{ID: "m1", Role: domain.RoleMember})

	if err := h.Record(c); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestAttendanceHandler_Get_NotCached(t *testing.T) {
	e := newTestEcho()
	h := NewAttendanceHandler(&stubLedger{records: map[string]domain.AttendanceRecord{}}, &stubDispatcher{})

	c, _ := attendanceContext(e, http.MethodGet, "", "e1", "m1")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttendanceHandler_Summary(t *testing.T) {
	e := newTestEcho()
	ledger := &stubLedger{records: map[string]domain.AttendanceRecord{
		"e1_m1": {EventID: "e1", MemberID: "m1", Status: domain.StatusPresent},
		"e1_m2": {EventID: "e1", MemberID: "m2", Status: domain.StatusAbsent},
		"e2_m1": {EventID: "e2", MemberID: "m1", Status: domain.StatusPresent},
	}}
	h := NewAttendanceHandler(ledger, &stubDispatcher{})

	c, rec := attendanceContext(e, http.MethodGet, "", "e1", "")
	if err := h.Summary(c); err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	var resp eventSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Total != 2 || resp.Counts[domain.StatusPresent] != 1 || resp.Counts[domain.StatusAbsent] != 1 {
		t.Fatalf("unexpected summary: %+v", resp)
	}
}

func TestAttendanceHandler_RollCall(t *testing.T) {
	e := newTestEcho()
	dispatcher := &stubDispatcher{}
	h := NewAttendanceHandler(&stubLedger{records: map[string]domain.AttendanceRecord{}}, dispatcher)

	c, rec := attendanceContext(e, http.MethodPost,
		`{"entries":[{"member_id":"m1","status":"present"},{"member_id":"m2","status":"excused"}]}`, "e1", "")
	middleware.SetActor(c, domain.Actor{ID: "sec", Role: domain.RoleLeadmanSecretary})

	if err := h.RollCall(c); err != nil {
		t.Fatalf("RollCall error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if dispatcher.actor.ID != "sec" || len(dispatcher.inputs) != 2 {
		t.Fatalf("unexpected dispatch: actor=%+v inputs=%+v", dispatcher.actor, dispatcher.inputs)
	}
	if dispatcher.inputs[1].EventID != "e1" || dispatcher.inputs[1].Status != domain.StatusExcused {
		t.Fatalf("unexpected input: %+v", dispatcher.inputs[1])
	}
}

func TestAttendanceHandler_RollCall_Rejections(t *testing.T) {
	cases := []struct {
		name, eventID, body string
	}{
		{"empty batch", "e1", `{"entries":[]}`},
		{"bad status", "e1", `{"entries":[{"member_id":"m1","status":"late"}]}`},
		{"missing member", "e1", `{"entries":[{"status":"present"}]}`},
		{"separator in event id", "e_1", `{"entries":[{"member_id":"m1","status":"present"}]}`},
	}
	for _, tc := range cases {
		e := newTestEcho()
		dispatcher := &stubDispatcher{}
		h := NewAttendanceHandler(&stubLedger{records: map[string]domain.AttendanceRecord{}}, dispatcher)

		c, _ := attendanceContext(e, http.MethodPost, tc.body, tc.eventID, "")
		middleware.SetActor(c, domain.Actor{ID: "sec", Role: domain.RoleLeadmanSecretary})

		err := h.RollCall(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %v", tc.name, err)
		}
		if len(dispatcher.inputs) != 0 {
			t.Fatalf("%s: rejected batch was dispatched", tc.name)
		}
	}
}
