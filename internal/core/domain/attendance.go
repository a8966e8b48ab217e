package domain

import (
	"strings"
	"time"
)

// AttendanceStatus is one of four mutually exclusive categorical states.
// There is no transition order between them.
type AttendanceStatus string

const (
	StatusPresent  AttendanceStatus = "present"
	StatusAbsent   AttendanceStatus = "absent"
	StatusCalledIn AttendanceStatus = "called_in"
	StatusExcused  AttendanceStatus = "excused"
)

// AttendanceStatuses lists the recognised statuses in display order.
var AttendanceStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusCalledIn, StatusExcused}

// Valid reports whether s is a recognised status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusCalledIn, StatusExcused:
		return true
	}
	return false
}

// attendanceKeySeparator joins event and member ids in the composite key.
const attendanceKeySeparator = "_"

// AttendanceRecord is the single record for an (event, member) pair.
// Writing a new status replaces the record; no history is kept.
type AttendanceRecord struct {
	ID         string           `json:"id" bson:"id,omitempty"`
	MemberID   string           `json:"member_id" bson:"member_id"`
	EventID    string           `json:"event_id" bson:"event_id"`
	Status     AttendanceStatus `json:"status" bson:"status"`
	RecordedAt time.Time        `json:"recorded_at" bson:"recorded_at"`
	RecordedBy string           `json:"recorded_by" bson:"recorded_by"`
}

// AttendanceKey builds the composite document key "{eventID}_{memberID}".
func AttendanceKey(eventID, memberID string) string {
	return eventID + attendanceKeySeparator + memberID
}

// ValidateAttendanceIDs checks that a key built from eventID and memberID
// addresses exactly one pair. The event id must not contain the separator:
// splitting at the first separator then always recovers the original pair.
func ValidateAttendanceIDs(eventID, memberID string) error {
	if strings.TrimSpace(eventID) == "" {
		return validationError("event id is required")
	}
	if strings.TrimSpace(memberID) == "" {
		return validationError("member id is required")
	}
	if strings.Contains(eventID, attendanceKeySeparator) {
		return validationError("event id %q must not contain %q", eventID, attendanceKeySeparator)
	}
	return nil
}

// ValidateStatus returns a validation error for unrecognised statuses.
func ValidateStatus(s AttendanceStatus) error {
	if !s.Valid() {
		return validationError("unknown attendance status %q", s)
	}
	return nil
}
