package handler

import "github.com/lodgeroll/membership/internal/core/domain"

type recordStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=present absent called_in excused"`
}

type rollCallEntryRequest struct {
	MemberID string `json:"member_id" validate:"required"`
	Status   string `json:"status"    validate:"required,oneof=present absent called_in excused"`
}

type rollCallRequest struct {
	Entries []rollCallEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type eventSummaryResponse struct {
	EventID string                          `json:"event_id"`
	Counts  map[domain.AttendanceStatus]int `json:"counts"`
	Total   int                             `json:"total"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
