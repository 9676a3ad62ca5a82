package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registrations counts registration attempts by outcome
	// (created|duplicate|invalid|error).
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestpass_registrations_total",
			Help: "Total number of guest registration attempts",
		},
		[]string{"result"},
	)

	// Checkins counts check-in attempts by outcome
	// (checked_in|already_checked|revoked|not_found|invalid|error).
	Checkins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestpass_checkins_total",
			Help: "Total number of check-in attempts",
		},
		[]string{"result"},
	)

	// InviteEmails counts invite email deliveries (sent|failed|disabled).
	InviteEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestpass_invite_emails_total",
			Help: "Total number of invite email delivery attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guestpass_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
