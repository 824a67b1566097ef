package reminderpolicy_test

import (
	"testing"

	"github.com/dalemusser/remindhub/internal/app/policy/reminderpolicy"
	"github.com/dalemusser/remindhub/internal/domain/models"
)

func TestCanUpdate(t *testing.T) {
	assigned := models.Reminder{CreatorID: "teacher-1", StudentIDs: []string{"s1", "s2"}}
	personal := models.Reminder{CreatorID: "s1"}

	cases := []struct {
		name   string
		r      models.Reminder
		userID string
		role   string
		want   bool
	}{
		{"creator teacher", assigned, "teacher-1", models.RoleTeacher, true},
		{"creator student", personal, "s1", models.RoleStudent, true},
		{"recipient student", assigned, "s1", models.RoleStudent, true},
		{"non-recipient student", assigned, "s9", models.RoleStudent, false},
		{"other teacher", assigned, "teacher-2", models.RoleTeacher, false},
	}
	for _, tc := range cases {
		if got := reminderpolicy.CanUpdate(tc.r, tc.userID, tc.role); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanDelete(t *testing.T) {
	assigned := models.Reminder{CreatorID: "teacher-1", StudentIDs: []string{"s1"}}
	personal := models.Reminder{CreatorID: "s1"}

	cases := []struct {
		name   string
		r      models.Reminder
		userID string
		role   string
		want   bool
	}{
		{"teacher creator", assigned, "teacher-1", models.RoleTeacher, true},
		{"teacher non-creator", assigned, "teacher-2", models.RoleTeacher, false},
		{"student creator", personal, "s1", models.RoleStudent, true},
		{"student recipient", assigned, "s1", models.RoleStudent, true},
		{"student stranger", assigned, "s9", models.RoleStudent, false},
		{"unknown role", assigned, "teacher-1", "admin", false},
	}
	for _, tc := range cases {
		if got := reminderpolicy.CanDelete(tc.r, tc.userID, tc.role); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
