package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tunewave/music-api/internal/api/metrics"
	"github.com/tunewave/music-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// MediaEventProcessor consumes media lifecycle events. Implemented by the
// player service.
type MediaEventProcessor interface {
	ProcessEvent(ctx context.Context, event ports.MediaEventInput) error
}

// Dispatcher routes media events to a fixed set of workers using consistent
// hashing on the user id, guaranteeing per-session event ordering.
type Dispatcher struct {
	workers []chan ports.MediaEventInput
	service MediaEventProcessor
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service MediaEventProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.MediaEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MediaEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its session.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.MediaEventInput) {
	i := d.shardIndex(event.UserID)
	d.workers[i] <- event
	metrics.MediaEventsQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// EnqueueBatch enqueues multiple events preserving per-session ordering.
func (d *Dispatcher) EnqueueBatch(events []ports.MediaEventInput) {
	for _, e := range events {
		d.Enqueue(e)
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MediaEventInput) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.MediaEventsQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

			start := time.Now()
			if err := d.service.ProcessEvent(ctx, event); err != nil {
				metrics.MediaEventsErrorsTotal.WithLabelValues(event.Type).Inc()
				d.log.Error().Err(err).
					Str("user_id", event.UserID).
					Str("type", event.Type).
					Int("worker_id", id).
					Msg("media event processing failed")
				continue
			}
			metrics.MediaEventsProcessedTotal.WithLabelValues(event.Type).Inc()
			metrics.MediaEventProcessingDuration.WithLabelValues(event.Type).Observe(time.Since(start).Seconds())
		}
	}
}
