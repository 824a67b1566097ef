package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"github.com/dalemusser/remindhub/internal/app/store/docstore/memdoc"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
)

// SetupTestStore returns a fresh in-memory document store for a test.
func SetupTestStore(t *testing.T) *memdoc.Store {
	t.Helper()
	return memdoc.New()
}

// TestContext returns a context with a generous timeout for test operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	docs docstore.Store
	t    *testing.T
}

// NewFixtures creates a new Fixtures instance over the given store.
func NewFixtures(t *testing.T, docs docstore.Store) *Fixtures {
	t.Helper()
	return &Fixtures{docs: docs, t: t}
}

// Docs returns the underlying store for direct access in tests.
func (f *Fixtures) Docs() docstore.Store {
	return f.docs
}

// CreateGroup creates a test group with the given members.
func (f *Fixtures) CreateGroup(ctx context.Context, name, createdBy string, studentIDs ...string) models.Group {
	f.t.Helper()

	id, err := f.docs.Create(ctx, docstore.Groups, bson.M{
		"name":        name,
		"student_ids": studentIDs,
		"created_by":  createdBy,
	})
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	return models.Group{
		ID:         id,
		Name:       name,
		StudentIDs: studentIDs,
		CreatedBy:  createdBy,
	}
}

// CreatePersonalReminder creates an unassigned reminder owned by creatorID.
func (f *Fixtures) CreatePersonalReminder(ctx context.Context, creatorID, title string, dueDate time.Time) models.Reminder {
	f.t.Helper()
	return f.createReminder(ctx, creatorID, title, dueDate, models.AssignedBySelf, nil, nil)
}

// CreateAssignedReminder creates a teacher-assigned reminder with the given
// recipients.
func (f *Fixtures) CreateAssignedReminder(ctx context.Context, creatorID, title string, dueDate time.Time, studentIDs []string, groupIDs []string) models.Reminder {
	f.t.Helper()
	return f.createReminder(ctx, creatorID, title, dueDate, models.AssignedByTeacher, studentIDs, groupIDs)
}

func (f *Fixtures) createReminder(ctx context.Context, creatorID, title string, dueDate time.Time, assignedBy models.Provenance, studentIDs, groupIDs []string) models.Reminder {
	f.t.Helper()

	// Values are stored with the same types the repository writes so that
	// in-memory filter matching behaves identically.
	doc := bson.M{
		"title":       title,
		"description": "",
		"category":    models.CategoryPersonal,
		"priority":    models.PriorityMedium,
		"due_date":    dueDate,
		"completed":   false,
		"status":      models.StatusUpcoming,
		"creator_id":  creatorID,
		"assigned_by": assignedBy,
		"student_ids": studentIDs,
		"group_ids":   groupIDs,
	}
	id, err := f.docs.Create(ctx, docstore.Reminders, doc)
	if err != nil {
		f.t.Fatalf("failed to create test reminder: %v", err)
	}

	raw, err := f.docs.Get(ctx, docstore.Reminders, id)
	if err != nil {
		f.t.Fatalf("failed to read back test reminder: %v", err)
	}
	var rem models.Reminder
	if err := docstore.Decode(raw, &rem); err != nil {
		f.t.Fatalf("failed to decode test reminder: %v", err)
	}
	return rem
}

// CreateNotification creates a test notification for userID.
func (f *Fixtures) CreateNotification(ctx context.Context, userID, title, message string) models.Notification {
	f.t.Helper()

	id, err := f.docs.Create(ctx, docstore.Notifications, bson.M{
		"user_id": userID,
		"title":   title,
		"message": message,
		"type":    models.NotificationGeneral,
		"is_read": false,
	})
	if err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}

	raw, err := f.docs.Get(ctx, docstore.Notifications, id)
	if err != nil {
		f.t.Fatalf("failed to read back test notification: %v", err)
	}
	var n models.Notification
	if err := docstore.Decode(raw, &n); err != nil {
		f.t.Fatalf("failed to decode test notification: %v", err)
	}
	return n
}
