// internal/domain/models/group.go
package models

import "time"

// Group is a named set of students a teacher can assign reminders to.
//
// The reminder core only reads the id-to-members mapping; group management
// beyond create/list lives outside this service.
type Group struct {
	ID         string   `bson:"_id,omitempty" json:"id"`
	Name       string   `bson:"name" json:"name"`
	StudentIDs []string `bson:"student_ids" json:"student_ids"`
	CreatedBy  string   `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
