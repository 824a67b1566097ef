package notificationstore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	notificationstore "github.com/dalemusser/remindhub/internal/app/store/notifications"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"github.com/dalemusser/remindhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAddAndGetByID(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	notes := notificationstore.New(docs)

	id, err := notes.Add(ctx, notificationstore.CreateInput{
		UserID:     "u1",
		Title:      "New Reminder Assigned",
		Message:    "Reminder: Essay is due on 15-09-2026.",
		Type:       models.NotificationReminder,
		ReminderID: "rem-1",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	n, err := notes.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if n.UserID != "u1" || n.Title != "New Reminder Assigned" {
		t.Errorf("unexpected notification: %+v", n)
	}
	if n.Type != models.NotificationReminder {
		t.Errorf("type: got %s, want %s", n.Type, models.NotificationReminder)
	}
	if n.ReminderID != "rem-1" {
		t.Errorf("reminder_id: got %q, want %q", n.ReminderID, "rem-1")
	}
	if n.IsRead {
		t.Error("new notification must start unread")
	}
	if n.CreatedAt.IsZero() {
		t.Error("created_at must be assigned")
	}
}

func TestAdd_DefaultsToGeneralType(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	notes := notificationstore.New(docs)

	id, err := notes.Add(ctx, notificationstore.CreateInput{
		UserID: "u1", Title: "Welcome", Message: "Hello",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	n, err := notes.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if n.Type != models.NotificationGeneral {
		t.Errorf("type: got %s, want %s", n.Type, models.NotificationGeneral)
	}
	if n.ReminderID != "" {
		t.Errorf("expected empty reminder_id, got %q", n.ReminderID)
	}
}

func TestListForUser_IsolatesUsers(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	notes := notificationstore.New(docs)
	fx := testutil.NewFixtures(t, docs)

	fx.CreateNotification(ctx, "u1", "A", "first")
	fx.CreateNotification(ctx, "u1", "B", "second")
	fx.CreateNotification(ctx, "u2", "C", "other user")

	list, err := notes.ListForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d notifications, want 2", len(list))
	}
	for _, n := range list {
		if n.UserID != "u1" {
			t.Errorf("foreign notification leaked: %+v", n)
		}
	}
}

func TestMarkReadAndMarkAllRead(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	notes := notificationstore.New(docs)
	fx := testutil.NewFixtures(t, docs)

	a := fx.CreateNotification(ctx, "u1", "A", "one")
	fx.CreateNotification(ctx, "u1", "B", "two")
	fx.CreateNotification(ctx, "u2", "C", "other")

	if err := notes.MarkRead(ctx, a.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	got, _ := notes.GetByID(ctx, a.ID)
	if !got.IsRead {
		t.Error("expected is_read true after MarkRead")
	}

	if err := notes.MarkAllRead(ctx, "u1"); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	list, _ := notes.ListForUser(ctx, "u1")
	for _, n := range list {
		if !n.IsRead {
			t.Errorf("notification %s still unread", n.ID)
		}
	}

	// Other users' notifications are untouched.
	otherList, _ := notes.ListForUser(ctx, "u2")
	if len(otherList) != 1 || otherList[0].IsRead {
		t.Error("MarkAllRead leaked into another user's notifications")
	}

	// Idempotent when nothing is unread.
	if err := notes.MarkAllRead(ctx, "u1"); err != nil {
		t.Errorf("MarkAllRead on all-read set failed: %v", err)
	}
}

func TestDeleteAndClearAll(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	notes := notificationstore.New(docs)
	fx := testutil.NewFixtures(t, docs)

	a := fx.CreateNotification(ctx, "u1", "A", "one")
	fx.CreateNotification(ctx, "u1", "B", "two")
	fx.CreateNotification(ctx, "u2", "C", "other")

	if err := notes.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := notes.GetByID(ctx, a.ID); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	deleted, err := notes.ClearAll(ctx, "u1")
	if err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted: got %d, want 1", deleted)
	}

	otherList, _ := notes.ListForUser(ctx, "u2")
	if len(otherList) != 1 {
		t.Error("ClearAll removed another user's notifications")
	}
}

func TestSubscribeForUser_LiveBadge(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	notes := notificationstore.New(docs)

	var snapshots [][]models.Notification
	sub, err := notes.SubscribeForUser(ctx, "u1", func(list []models.Notification) {
		snapshots = append(snapshots, list)
	})
	if err != nil {
		t.Fatalf("SubscribeForUser failed: %v", err)
	}
	defer sub.Close()

	if len(snapshots) != 1 || len(snapshots[0]) != 0 {
		t.Fatalf("expected empty initial snapshot, got %v", snapshots)
	}

	_, err = notes.Add(ctx, notificationstore.CreateInput{UserID: "u1", Title: "A", Message: "m"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(snapshots) != 2 || len(snapshots[1]) != 1 {
		t.Fatalf("expected snapshot with 1 notification, got %d snapshots", len(snapshots))
	}

	// Another user's notification re-queries but stays filtered out.
	_, _ = notes.Add(ctx, notificationstore.CreateInput{UserID: "u2", Title: "B", Message: "m"})
	last := snapshots[len(snapshots)-1]
	if len(last) != 1 {
		t.Errorf("foreign notification leaked into snapshot: %v", last)
	}
}

func TestPruneOlderThan(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	notes := notificationstore.New(docs)

	// An old notification: created_at is honored when supplied.
	oldID, err := docs.Create(ctx, docstore.Notifications, bson.M{
		"user_id":    "u1",
		"title":      "Old",
		"message":    "stale",
		"type":       models.NotificationGeneral,
		"is_read":    true,
		"created_at": time.Now().UTC().Add(-48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	freshID, err := notes.Add(ctx, notificationstore.CreateInput{UserID: "u1", Title: "Fresh", Message: "new"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	pruned, err := notes.PruneOlderThan(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneOlderThan failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned: got %d, want 1", pruned)
	}
	if _, err := notes.GetByID(ctx, oldID); !errors.Is(err, docstore.ErrNotFound) {
		t.Error("old notification should be pruned")
	}
	if _, err := notes.GetByID(ctx, freshID); err != nil {
		t.Errorf("fresh notification should survive: %v", err)
	}
}
