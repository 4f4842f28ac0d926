package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookman",
			Name:      "submissions_total",
			Help:      "Booking form submissions by outcome.",
		},
		[]string{"outcome"},
	)

	deletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookman",
			Name:      "bookings_deleted_total",
			Help:      "Deleted bookings by mode (single, bulk).",
		},
		[]string{"mode"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookman",
			Name:      "notifications_total",
			Help:      "Notification attempts by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(submissions, deletions, notifications)
	})
}

// Submission outcomes.
const (
	OutcomeCreated      = "created"
	OutcomeInvalidNonce = "invalid_nonce"
	OutcomeMissingField = "missing_field"
	OutcomeStorageError = "storage_error"
)

func IncSubmission(outcome string) {
	submissions.WithLabelValues(outcome).Inc()
}

func IncDeleted(mode string) {
	deletions.WithLabelValues(mode).Inc()
}

func IncNotification(channel, outcome string) {
	notifications.WithLabelValues(channel, outcome).Inc()
}
