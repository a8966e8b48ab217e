package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
)

type recordedCall struct {
	actor  string
	key    string
	status domain.AttendanceStatus
}

type stubLedger struct {
	mu    sync.Mutex
	calls []recordedCall
	fail  map[string]bool
	done  chan struct{}
	want  int
}

func newStubLedger(want int) *stubLedger {
	return &stubLedger{done: make(chan struct{}), want: want, fail: map[string]bool{}}
}

func (l *stubLedger) RecordStatus(_ context.Context, actor domain.Actor, memberID, eventID string, status domain.AttendanceStatus) (*domain.AttendanceRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := domain.AttendanceKey(eventID, memberID)
	l.calls = append(l.calls, recordedCall{actor: actor.ID, key: key, status: status})
	if len(l.calls) == l.want {
		close(l.done)
	}
	if l.fail[key] {
		return nil, errors.New("boom")
	}
	return &domain.AttendanceRecord{ID: key, Status: status}, nil
}

func (l *stubLedger) GetStatus(string, string) (*domain.AttendanceRecord, bool) { return nil, false }
func (l *stubLedger) Load(context.Context) error                                  { return nil }
func (l *stubLedger) EventSummary(string) map[domain.AttendanceStatus]int         { return nil }

func (l *stubLedger) waitAll(t *testing.T) {
	t.Helper()
	select {
	case <-l.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %d ledger calls", l.want)
	}
}

func TestDispatcher_PreservesPerKeyOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	statuses := []domain.AttendanceStatus{
		domain.StatusPresent, domain.StatusAbsent, domain.StatusCalledIn, domain.StatusExcused, domain.StatusPresent,
	}
	var batch []ports.AttendanceInput
	for _, s := range statuses {
		batch = append(batch,
			ports.AttendanceInput{EventID: "e1", MemberID: "m1", Status: s},
			ports.AttendanceInput{EventID: "e1", MemberID: "m2", Status: s},
		)
	}

	ledger := newStubLedger(len(batch))
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(4, ledger, zerolog.Nop())
	d.Start(ctx)

	d.EnqueueBatch(domain.Actor{ID: "secretary", Role: domain.RoleLeadmanSecretary}, batch)
	ledger.waitAll(t)
	cancel()
	d.Wait()

	perKey := map[string][]domain.AttendanceStatus{}
	for _, c := range ledger.calls {
		if c.actor != "secretary" {
			t.Fatalf("actor not carried through: %q", c.actor)
		}
		perKey[c.key] = append(perKey[c.key], c.status)
	}
	for _, key := range []string{"e1_m1", "e1_m2"} {
		got := perKey[key]
		if len(got) != len(statuses) {
			t.Fatalf("%s: expected %d writes, got %d", key, len(statuses), len(got))
		}
		for i := range statuses {
			if got[i] != statuses[i] {
				t.Fatalf("%s: write %d out of order: got %s, want %s", key, i, got[i], statuses[i])
			}
		}
	}
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	defer goleak.VerifyNone(t)

	ledger := newStubLedger(2)
	ledger.fail["e1_m1"] = true
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(1, ledger, zerolog.Nop())
	d.Start(ctx)

	actor := domain.Actor{ID: "gov", Role: domain.RoleGovernor}
	d.Enqueue(RollCallEntry{Actor: actor, AttendanceInput: ports.AttendanceInput{EventID: "e1", MemberID: "m1", Status: domain.StatusPresent}})
	d.Enqueue(RollCallEntry{Actor: actor, AttendanceInput: ports.AttendanceInput{EventID: "e1", MemberID: "m2", Status: domain.StatusPresent}})
	ledger.waitAll(t)

	cancel()
	d.Wait()
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, newStubLedger(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	key := domain.AttendanceKey("e7", "m42")
	first := d.shardIndex(key)
	for i := 0; i < 10; i++ {
		if d.shardIndex(key) != first {
			t.Fatalf("shard index changed between calls")
		}
	}
	if first < 0 || first >= defaultWorkers {
		t.Fatalf("shard index out of range: %d", first)
	}
}
