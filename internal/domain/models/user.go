// internal/domain/models/user.go
package models

// Roles known to the service. Identity and role arrive from the session
// layer; the reminder core treats them as opaque inputs.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)
