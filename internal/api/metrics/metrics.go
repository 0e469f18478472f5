// Package metrics defines and registers all custom Prometheus metrics for the
// music API. It is the single source of truth for metric names, labels, and
// help strings. Registration happens via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "music"

// ── Media event metrics ───────────────────────────────────────────────────────

// MediaEventsReceivedTotal counts media lifecycle events accepted at the API.
// Label:
//   - type: "ended", "timeupdate", or "loadedmetadata"
var MediaEventsReceivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_events_received_total",
		Help:      "Total number of media lifecycle events accepted for processing.",
	},
	[]string{"type"},
)

// MediaEventsProcessedTotal counts media lifecycle events that completed
// processing successfully.
// Label:
//   - type: "ended", "timeupdate", or "loadedmetadata"
var MediaEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_events_processed_total",
		Help:      "Total number of media lifecycle events successfully processed.",
	},
	[]string{"type"},
)

// MediaEventsErrorsTotal counts media events that failed processing.
// Label:
//   - type: the event type that failed
var MediaEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_events_errors_total",
		Help:      "Total number of media lifecycle events that failed processing.",
	},
	[]string{"type"},
)

// MediaEventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MediaEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "media_events_queue_depth",
		Help:      "Current number of media events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MediaEventProcessingDuration measures how long a single event takes from
// dequeue to persisted session state.
var MediaEventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "media_event_processing_duration_seconds",
		Help:      "Duration of media event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// SongsUploadedTotal counts registered songs by visibility.
// Label:
//   - visibility: "public" or "private"
var SongsUploadedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "songs_uploaded_total",
		Help:      "Total number of songs registered, by visibility.",
	},
	[]string{"visibility"},
)

// PlaylistAddDedupTotal counts add-song deduplication outcomes.
// Label:
//   - result: "hit" (duplicate, suppressed) or "miss" (processed)
var PlaylistAddDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "playlist_add_dedup_total",
		Help:      "Total number of add-song deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
