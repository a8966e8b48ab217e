package ports

import (
	"context"

	"github.com/lodgeroll/membership/internal/core/domain"
)

// AttendanceInput is one roll-call entry.
type AttendanceInput struct {
	MemberID string
	EventID  string
	Status   domain.AttendanceStatus
}

// AttendanceLedger keeps one record per (event, member) pair.
type AttendanceLedger interface {
	RecordStatus(ctx context.Context, actor domain.Actor, memberID, eventID string, status domain.AttendanceStatus) (*domain.AttendanceRecord, error)
	// GetStatus reads the local cache only; callers must have called Load.
	GetStatus(memberID, eventID string) (*domain.AttendanceRecord, bool)
	Load(ctx context.Context) error
	EventSummary(eventID string) map[domain.AttendanceStatus]int
}
