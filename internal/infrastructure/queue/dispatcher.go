package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// RollCallEntry is one queued attendance write together with the actor who
// submitted it. The ledger re-checks the actor's permission when it runs.
type RollCallEntry struct {
	Actor domain.Actor
	ports.AttendanceInput
}

// Dispatcher routes roll-call entries to a fixed set of workers using
// consistent hashing on the attendance key, so writes to the same
// (event, member) pair are applied in submission order.
type Dispatcher struct {
	workers []chan RollCallEntry
	ledger  ports.AttendanceLedger
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, ledger ports.AttendanceLedger, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan RollCallEntry, numWorkers),
		ledger:  ledger,
		log:     log.With().Str("component", "rollcall").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan RollCallEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue sends an entry to the worker responsible for its attendance key.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(entry RollCallEntry) {
	idx := d.shardIndex(domain.AttendanceKey(entry.EventID, entry.MemberID))
	d.workers[idx] <- entry
	metrics.RollCallQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues every input under the same actor, preserving
// per-key ordering.
func (d *Dispatcher) EnqueueBatch(actor domain.Actor, inputs []ports.AttendanceInput) {
	for _, in := range inputs {
		d.Enqueue(RollCallEntry{Actor: actor, AttendanceInput: in})
	}
}

// shardIndex maps an attendance key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan RollCallEntry) {
	defer d.wg.Done()
	depth := metrics.RollCallQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			if _, err := d.ledger.RecordStatus(ctx, entry.Actor, entry.MemberID, entry.EventID, entry.Status); err != nil {
				metrics.RollCallFailuresTotal.Inc()
				d.log.Error().Err(err).
					Str("event_id", entry.EventID).
					Str("member_id", entry.MemberID).
					Str("actor", entry.Actor.ID).
					Int("worker_id", id).
					Msg("roll-call write failed")
			}
		}
	}
}
