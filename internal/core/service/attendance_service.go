package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/pkg/docmap"
	"github.com/lodgeroll/membership/internal/pkg/metrics"
)

// AttendanceLedger records one status per (event, member) pair and keeps a
// cache of every record keyed by AttendanceKey.
type AttendanceLedger struct {
	store ports.DocumentStore
	log   zerolog.Logger
	now   func() time.Time

	seq atomic.Uint64

	mu      sync.RWMutex
	records map[string]domain.AttendanceRecord
	applied uint64
}

func NewAttendanceLedger(store ports.DocumentStore, log zerolog.Logger) *AttendanceLedger {
	return &AttendanceLedger{
		store:   store,
		log:     log.With().Str("component", "attendance").Logger(),
		now:     time.Now,
		records: make(map[string]domain.AttendanceRecord),
	}
}

// RecordStatus replaces the record for (eventID, memberID) with status.
// The permission check runs before anything else; a denied call never
// reaches the store.
func (l *AttendanceLedger) RecordStatus(ctx context.Context, actor domain.Actor, memberID, eventID string, status domain.AttendanceStatus) (*domain.AttendanceRecord, error) {
	if err := domain.RequireLevel(actor, domain.LevelLeadership, "record attendance"); err != nil {
		metrics.AuthorizationDeniedTotal.WithLabelValues("record_attendance").Inc()
		l.log.Warn().Err(err).Str("actor", actor.ID).Str("role", string(actor.Role)).Msg("operation denied")
		return nil, err
	}
	if err := domain.ValidateStatus(status); err != nil {
		return nil, err
	}
	if err := domain.ValidateAttendanceIDs(eventID, memberID); err != nil {
		return nil, err
	}

	key := domain.AttendanceKey(eventID, memberID)
	record := domain.AttendanceRecord{
		ID:         key,
		MemberID:   memberID,
		EventID:    eventID,
		Status:     status,
		RecordedAt: l.now().UTC(),
		RecordedBy: actor.ID,
	}

	doc, err := docmap.Encode(record)
	if err != nil {
		return nil, fmt.Errorf("record attendance: %w", err)
	}
	if err := l.store.SetDocumentByKey(ctx, domain.CollectionAttendance, key, doc); err != nil {
		l.log.Error().Err(err).Str("key", key).Msg("failed to record attendance")
		return nil, fmt.Errorf("record attendance: %w", err)
	}

	seq := l.seq.Add(1)
	l.mu.Lock()
	l.records[key] = record
	l.applied = seq
	l.mu.Unlock()

	metrics.AttendanceWritesTotal.WithLabelValues(string(status)).Inc()
	l.log.Info().
		Str("event_id", eventID).
		Str("member_id", memberID).
		Str("status", string(status)).
		Str("actor", actor.ID).
		Msg("attendance recorded")
	return &record, nil
}

// GetStatus looks the pair up in the cache. It never touches the store.
func (l *AttendanceLedger) GetStatus(memberID, eventID string) (*domain.AttendanceRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.records[domain.AttendanceKey(eventID, memberID)]
	if !ok {
		return nil, false
	}
	return &rec, true
}

// Load replaces the cache with every stored record. On failure the cache is
// left as it was.
func (l *AttendanceLedger) Load(ctx context.Context) error {
	seq := l.seq.Add(1)

	docs, err := l.store.GetAll(ctx, domain.CollectionAttendance)
	if err != nil {
		l.log.Error().Err(err).Msg("failed to load attendance, keeping cached records")
		return fmt.Errorf("load attendance: %w", err)
	}

	records := make(map[string]domain.AttendanceRecord, len(docs))
	for _, doc := range docs {
		var rec domain.AttendanceRecord
		if err := docmap.Decode(doc, &rec); err != nil {
			l.log.Warn().Err(err).Interface("id", doc[docmap.IDField]).Msg("skipping undecodable attendance record")
			continue
		}
		if rec.EventID == "" || rec.MemberID == "" {
			l.log.Warn().Str("id", rec.ID).Msg("skipping attendance record without event or member")
			continue
		}
		records[domain.AttendanceKey(rec.EventID, rec.MemberID)] = rec
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq < l.applied {
		metrics.StaleLoadsDiscardedTotal.WithLabelValues("attendance").Inc()
		l.log.Debug().Uint64("seq", seq).Uint64("applied", l.applied).Msg("discarding stale attendance load")
		return nil
	}
	l.records = records
	l.applied = seq
	return nil
}

// EventSummary counts cached records of eventID by status. Every known status
// is present in the result, zero when unused.
func (l *AttendanceLedger) EventSummary(eventID string) map[domain.AttendanceStatus]int {
	summary := make(map[domain.AttendanceStatus]int, len(domain.AttendanceStatuses))
	for _, s := range domain.AttendanceStatuses {
		summary[s] = 0
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, rec := range l.records {
		if rec.EventID == eventID {
			summary[rec.Status]++
		}
	}
	return summary
}
