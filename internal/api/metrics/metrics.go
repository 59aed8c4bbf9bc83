// Package metrics defines and registers all custom Prometheus metrics
// for the scholarship platform API. It is the single source of truth for
// metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scholar"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "pending", "disabled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Labels:
//   - role: "STUDENT" or "PROVIDER"
//   - result: "created", "rejected" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// ApplicationsSubmittedTotal counts application submissions.
// Label:
//   - result: "created", "duplicate", "rejected" or "error"
var ApplicationsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total number of application submissions, by result.",
	},
	[]string{"result"},
)

// ApplicationDecisionsTotal counts review decisions that persisted.
// Label:
//   - status: the new application status (e.g. "APPROVED")
var ApplicationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_decisions_total",
		Help:      "Total number of persisted review decisions, by resulting status.",
	},
	[]string{"status"},
)

// ResetTokensIssuedTotal counts password reset tokens handed to the
// notification channel.
var ResetTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_issued_total",
		Help:      "Total number of password reset tokens issued.",
	},
)

// UploadedFileBytes measures the size of accepted document uploads.
// Label:
//   - category: document store category ("registration", "application", ...)
var UploadedFileBytes = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "uploaded_file_bytes",
		Help:      "Size distribution of accepted document uploads.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. 16MiB
	},
	[]string{"category"},
)
