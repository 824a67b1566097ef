// internal/app/system/duestatus/duestatus.go

// Package duestatus is the single source of truth for deriving a reminder's
// status. Both the repository read path and the feed merge path go through
// Derive so the two surfaces can never disagree on end-of-day handling.
package duestatus

import (
	"time"

	"github.com/dalemusser/remindhub/internal/domain/models"
)

// Derive computes the effective status at the given instant.
//
// Completed is terminal and wins regardless of the due date. Otherwise a
// reminder turns Overdue once the end of its due day has passed; the
// Upcoming-to-Overdue transition is automatic and recomputed on every read,
// never trusted from the persisted cache.
func Derive(dueDate time.Time, completed bool, now time.Time) models.Status {
	if completed {
		return models.StatusCompleted
	}
	if now.After(EndOfDay(dueDate)) {
		return models.StatusOverdue
	}
	return models.StatusUpcoming
}

// EndOfDay returns the last instant of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// Apply recomputes and overwrites r.Status in place.
func Apply(r *models.Reminder, now time.Time) {
	r.Status = Derive(r.DueDate, r.Completed, now)
}
