package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wisper",
		Name:      "messages_relayed_total",
		Help:      "Messages delivered live to a connected recipient.",
	})

	MessagesEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wisper",
		Name:      "messages_enqueued_total",
		Help:      "Messages persisted to a recipient's durable queue.",
	})

	MessagesDrained = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wisper",
		Name:      "messages_drained_total",
		Help:      "Queued messages handed off during drain passes.",
	})

	MalformedDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wisper",
		Name:      "malformed_records_dropped_total",
		Help:      "Queued records rejected without requeue during drains.",
	})

	EnqueueFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wisper",
		Name:      "enqueue_failures_total",
		Help:      "Enqueue attempts that failed, including broker-down.",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wisper",
		Name:      "sessions_active",
		Help:      "Currently connected sessions.",
	})
)
