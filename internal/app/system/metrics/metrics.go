// internal/app/system/metrics/metrics.go

// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemindersCreated counts reminder creations by kind (personal|assigned).
	RemindersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remindhub_reminders_created_total",
			Help: "Total number of reminders created",
		},
		[]string{"kind"},
	)

	// RemindersDeleted counts reminder record deletions, including
	// group-linked duplicates removed alongside a primary delete.
	RemindersDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "remindhub_reminders_deleted_total",
			Help: "Total number of reminder records deleted",
		},
	)

	// NotificationsEmitted counts notification fan-out attempts by result
	// (success|failure). Failures are best-effort losses, not operation
	// failures.
	NotificationsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remindhub_notifications_emitted_total",
			Help: "Total number of fan-out notification emissions",
		},
		[]string{"result"},
	)
)
