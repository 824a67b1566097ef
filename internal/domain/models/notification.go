// internal/domain/models/notification.go
package models

import "time"

// NotificationType distinguishes reminder-driven notifications from
// free-form general ones.
type NotificationType string

const (
	NotificationGeneral  NotificationType = "general"
	NotificationReminder NotificationType = "reminder"
)

// Notification is a one-way message to a user about a reminder event.
//
// ReminderID is a non-owning lookup key: deleting a reminder does not
// cascade to its notifications, which persist as a historical log until
// the recipient clears them.
type Notification struct {
	ID         string           `bson:"_id,omitempty" json:"id"`
	UserID     string           `bson:"user_id" json:"user_id"`
	Title      string           `bson:"title" json:"title"`
	Message    string           `bson:"message" json:"message"`
	Type       NotificationType `bson:"type" json:"type"`
	ReminderID string           `bson:"reminder_id,omitempty" json:"reminder_id,omitempty"`
	IsRead     bool             `bson:"is_read" json:"is_read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
