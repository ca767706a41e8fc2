// Package metrics holds the Prometheus instruments for the sign-up
// workflow.  All collectors register with the global registry, so
// importing this package in cmd/web is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signup_submissions_accepted_total",
			Help: "Sign-ups validated, inserted, and committed.",
		})

	SubmissionsDuplicate = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signup_submissions_duplicate_total",
			Help: "Sign-ups rejected because the account number or email already exists.",
		})

	SubmissionsInvalid = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signup_submissions_invalid_total",
			Help: "Sign-ups rejected by server-side validation.",
		})

	SubmissionsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signup_submissions_failed_total",
			Help: "Sign-ups that hit a database error and were rolled back.",
		})
)

func init() {
	prometheus.MustRegister(
		SubmissionsAccepted,
		SubmissionsDuplicate,
		SubmissionsInvalid,
		SubmissionsFailed,
	)
}
