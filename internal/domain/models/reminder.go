// internal/domain/models/reminder.go
package models

import "time"

// Category classifies what kind of task a reminder tracks.
type Category string

const (
	CategoryAssignment Category = "assignment"
	CategoryExam       Category = "exam"
	CategoryEvent      Category = "event"
	CategoryPersonal   Category = "personal"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryAssignment, CategoryExam, CategoryEvent, CategoryPersonal:
		return true
	}
	return false
}

// Priority is the urgency of a reminder.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the derived lifecycle state of a reminder. It is persisted as a
// convenience cache but must always be recomputed on read from DueDate and
// Completed (see system/duestatus).
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusOverdue   Status = "Overdue"
	StatusCompleted Status = "Completed"
)

// Provenance records who pushed a reminder onto its recipients.
type Provenance string

const (
	AssignedBySelf    Provenance = "Self"
	AssignedByTeacher Provenance = "Teacher"
)

// Reminder is a task with a due date, optionally fanned out to students
// directly (StudentIDs) or through named groups (GroupIDs).
//
// A reminder with a non-empty StudentIDs or GroupIDs is an "assigned"
// reminder and never appears in its creator's personal view. Both empty
// means purely personal.
type Reminder struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Category    Category   `bson:"category" json:"category"`
	Priority    Priority   `bson:"priority" json:"priority"`
	DueDate     time.Time  `bson:"due_date" json:"due_date"`
	Completed   bool       `bson:"completed" json:"completed"`
	Status      Status     `bson:"status" json:"status"`
	CreatorID   string     `bson:"creator_id" json:"creator_id"`
	AssignedBy  Provenance `bson:"assigned_by" json:"assigned_by"`
	StudentIDs  []string   `bson:"student_ids,omitempty" json:"student_ids,omitempty"`
	GroupIDs    []string   `bson:"group_ids,omitempty" json:"group_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsAssigned reports whether the reminder is shared with any recipients,
// directly or through a group.
func (r Reminder) IsAssigned() bool {
	return len(r.StudentIDs) > 0 || len(r.GroupIDs) > 0
}

// HasRecipient reports whether userID is in the reminder's recipient set.
func (r Reminder) HasRecipient(userID string) bool {
	for _, id := range r.StudentIDs {
		if id == userID {
			return true
		}
	}
	return false
}
