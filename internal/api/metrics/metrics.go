// Package metrics defines and registers all custom Prometheus metrics for the
// catalog API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register themselves with the default registry via
// promauto; the /metrics route is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// BooksAddedTotal counts books persisted through the addBook mutation.
var BooksAddedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_added_total",
		Help:      "Total number of books created via the addBook mutation.",
	},
)

// EventsPublishedTotal counts per-subscriber deliveries on the event bus.
// Label:
//   - topic: the bus topic (e.g. "BOOK_ADDED")
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of events delivered to subscriber buffers, by topic.",
	},
	[]string{"topic"},
)

// EventsDroppedTotal counts deliveries skipped because a subscriber's buffer
// was full. A drop affects only that subscriber; the publisher never blocks.
var EventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of events dropped for slow subscribers, by topic.",
	},
	[]string{"topic"},
)

// SubscribersActive tracks the current number of live bus subscriptions.
var SubscribersActive = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "subscribers_active",
		Help:      "Current number of live event bus subscriptions, by topic.",
	},
	[]string{"topic"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
