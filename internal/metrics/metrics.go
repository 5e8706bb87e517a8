// Package metrics registers the prometheus collectors for the booking
// service. Everything is registered on the default registry and served
// from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Successful bookings (client + event created).",
	})

	BookingsNoSlot = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_no_slot_total",
		Help: "Bookings that exhausted the slot search window.",
	})

	SlotSearchSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slot_search_steps",
		Help:    "15-minute steps walked before a free slot was found.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 7),
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route and status class.",
	}, []string{"route", "status"})
)
