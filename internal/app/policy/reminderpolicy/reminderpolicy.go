// internal/app/policy/reminderpolicy/reminderpolicy.go
package reminderpolicy

import (
	"github.com/dalemusser/remindhub/internal/domain/models"
)

// CanUpdate reports whether the caller may edit the reminder.
// Only the creator edits a reminder; recipients toggle completion through
// their own copy but never rewrite someone else's record wholesale.
func CanUpdate(r models.Reminder, userID, role string) bool {
	if r.CreatorID == userID {
		return true
	}
	// A recipient may edit the copy they see (e.g. mark it completed).
	return role == models.RoleStudent && r.HasRecipient(userID)
}

// CanDelete reports whether the caller's delete request maps onto one of
// the delete state machine's rules. Anything else would be a silent no-op,
// so handlers can reject it up front.
func CanDelete(r models.Reminder, userID, role string) bool {
	switch role {
	case models.RoleTeacher:
		return r.CreatorID == userID
	case models.RoleStudent:
		return r.CreatorID == userID || r.HasRecipient(userID)
	}
	return false
}
