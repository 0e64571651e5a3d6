package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/marketsquare/marketplace-api/internal/api/metrics"
	"github.com/marketsquare/marketplace-api/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Processor consumes a single audit event.
type Processor interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the actor, so one actor's events are persisted in order. Record
// never blocks: when a worker's buffer is full the event is dropped.
type Dispatcher struct {
	workers   []chan domain.AuditEvent
	processor Processor
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor Processor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.AuditEvent, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record implements ports.AuditSink. The audit trail is best-effort: a full
// worker buffer drops the event rather than stalling the request path.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	i := d.shardIndex(event.Actor)
	select {
	case d.workers[i] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("actor", event.Actor).Str("action", event.Action).Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an actor deterministically to a worker index.
func (d *Dispatcher) shardIndex(actor string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actor))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.processor.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("actor", event.Actor).
					Str("action", event.Action).
					Int("worker", id).
					Msg("audit event processing failed")
			}
		}
	}
}
