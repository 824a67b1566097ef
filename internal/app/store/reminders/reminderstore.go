// internal/app/store/reminders/reminderstore.go

// Package reminderstore owns the reminder lifecycle: create with
// notification fan-out, role-scoped listing and live subscriptions,
// partial updates that keep group-linked duplicates field-identical, and
// the role-sensitive delete state machine.
package reminderstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	notificationstore "github.com/dalemusser/remindhub/internal/app/store/notifications"
	"github.com/dalemusser/remindhub/internal/app/system/duestatus"
	"github.com/dalemusser/remindhub/internal/app/system/fanout"
	"github.com/dalemusser/remindhub/internal/app/system/metrics"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// dueDateFormat is how due dates appear inside notification messages.
const dueDateFormat = "02-01-2006"

// Scope selects one of the two live query shapes per user.
type Scope string

const (
	ScopePersonal Scope = "personal"
	ScopeAssigned Scope = "assigned"
)

// Store is the reminder repository.
//
// The primary record mutation is the unit of success reported to callers.
// Notification emission is a best-effort side effect: per-recipient failures
// are logged and counted, never surfaced as a failure of the operation.
type Store struct {
	docs  docstore.Store
	notes *notificationstore.Store
	log   *zap.Logger
	now   func() time.Time
}

func New(docs docstore.Store, notes *notificationstore.Store, logger *zap.Logger) *Store {
	return &Store{docs: docs, notes: notes, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

// CreateInput carries the fields of a new reminder. The id, created_at and
// status cache are assigned by the repository.
type CreateInput struct {
	Title       string
	Description string
	Category    models.Category
	Priority    models.Priority
	DueDate     time.Time
	CreatorID   string
	AssignedBy  models.Provenance
	StudentIDs  []string
	GroupIDs    []string
}

// UpdateInput is a tagged partial patch: only non-nil fields are applied.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *models.Category
	Priority    *models.Priority
	DueDate     *time.Time
	Completed   *bool
	StudentIDs  *[]string
	GroupIDs    *[]string
}

// Create persists the reminder and, when recipientIDs is non-empty, fans out
// one "New Reminder Assigned" notification per recipient. Fan-out failures
// never roll back the creation.
func (s *Store) Create(ctx context.Context, in CreateInput, recipientIDs []string) (string, error) {
	doc := bson.M{
		"title":       in.Title,
		"description": in.Description,
		"category":    in.Category,
		"priority":    in.Priority,
		"due_date":    in.DueDate.UTC(),
		"completed":   false,
		"status":      duestatus.Derive(in.DueDate, false, s.now()),
		"creator_id":  in.CreatorID,
		"assigned_by": in.AssignedBy,
		"student_ids": in.StudentIDs,
		"group_ids":   in.GroupIDs,
	}

	id, err := s.docs.Create(ctx, docstore.Reminders, doc)
	if err != nil {
		return "", err
	}

	kind := "personal"
	if len(in.StudentIDs) > 0 || len(in.GroupIDs) > 0 {
		kind = "assigned"
	}
	metrics.RemindersCreated.WithLabelValues(kind).Inc()

	if len(recipientIDs) > 0 {
		message := fmt.Sprintf("Reminder: %s is due on %s.", in.Title, in.DueDate.Format(dueDateFormat))
		s.notifyAll(ctx, id, recipientIDs, "New Reminder Assigned", message)
	}
	return id, nil
}

// GetByID fetches one reminder with its status recomputed.
func (s *Store) GetByID(ctx context.Context, id string) (models.Reminder, error) {
	doc, err := s.docs.Get(ctx, docstore.Reminders, id)
	if err != nil {
		return models.Reminder{}, err
	}
	var r models.Reminder
	if err := docstore.Decode(doc, &r); err != nil {
		return models.Reminder{}, err
	}
	duestatus.Apply(&r, s.now())
	return r, nil
}

// List returns the caller's reminders, unfiltered by status: a teacher's own
// records (personal and assigned alike) by creator, or the reminders a
// student is a recipient of. A student's personal reminders are served by
// the personal feed scope, not by List.
func (s *Store) List(ctx context.Context, userID, role string) ([]models.Reminder, error) {
	var f docstore.Filter
	if role == models.RoleTeacher {
		f = docstore.Filter{Eq: map[string]any{"creator_id": userID}}
	} else {
		f = docstore.Filter{Contains: map[string]any{"student_ids": userID}}
	}

	docs, err := s.docs.Query(ctx, docstore.Reminders, f)
	if err != nil {
		return nil, err
	}
	return s.decodeList(docs)
}

// Subscribe opens a live query for one scope of the user's reminders and
// invokes fn with a status-recomputed snapshot on every change.
func (s *Store) Subscribe(ctx context.Context, userID, role string, scope Scope, fn func([]models.Reminder)) (docstore.Subscription, error) {
	f := scopeFilter(userID, role, scope)
	return s.docs.Subscribe(ctx, docstore.Reminders, f, func(docs []bson.M) {
		list, err := s.decodeList(docs)
		if err != nil {
			s.log.Error("reminder snapshot decode failed", zap.Error(err))
			return
		}
		fn(list)
	})
}

// scopeFilter builds the two query shapes per role. Teacher personal shares
// the creator filter with teacher assigned; the feed strips assigned
// reminders out of the personal stream client-side.
func scopeFilter(userID, role string, scope Scope) docstore.Filter {
	if role == models.RoleTeacher && scope == ScopeAssigned {
		return docstore.Filter{Eq: map[string]any{
			"assigned_by": models.AssignedByTeacher,
			"creator_id":  userID,
		}}
	}
	if role == models.RoleStudent && scope == ScopeAssigned {
		return docstore.Filter{Contains: map[string]any{"student_ids": userID}}
	}
	return docstore.Filter{Eq: map[string]any{"creator_id": userID}}
}

// Update applies the patch to the target record. When shared is true the
// reminder participates in group-linked fan-out: newly added recipients are
// notified (existing recipients are not re-notified for field edits), and
// every reminder sharing one of the group ids receives the identical patch
// in a single atomic batch so duplicates cannot diverge.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput, shared bool) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	patch := s.buildPatch(existing, in)
	if err := s.docs.Update(ctx, docstore.Reminders, id, patch); err != nil {
		return err
	}

	if shared && in.StudentIDs != nil {
		added := newlyAdded(existing.StudentIDs, *in.StudentIDs)
		if len(added) > 0 {
			title := existing.Title
			if in.Title != nil {
				title = *in.Title
			}
			message := fmt.Sprintf("Your reminder: %s has been updated.", title)
			s.notifyAll(ctx, id, added, "Reminder Updated", message)
		}
	}

	if shared {
		if err := s.patchGroupLinked(ctx, id, existing, in, patch); err != nil {
			return err
		}
	}
	return nil
}

// patchGroupLinked applies the identical patch to every reminder sharing any
// of the assignment's group ids, atomically as a set.
func (s *Store) patchGroupLinked(ctx context.Context, id string, existing models.Reminder, in UpdateInput, patch bson.M) error {
	groupIDs := existing.GroupIDs
	if in.GroupIDs != nil {
		groupIDs = *in.GroupIDs
	}
	if len(groupIDs) == 0 {
		return nil
	}

	targets := make(map[string]struct{})
	for _, gid := range groupIDs {
		docs, err := s.docs.Query(ctx, docstore.Reminders, docstore.Filter{
			Contains: map[string]any{"group_ids": gid},
		})
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if docID, ok := doc["_id"].(string); ok && docID != id {
				targets[docID] = struct{}{}
			}
		}
	}
	if len(targets) == 0 {
		return nil
	}

	ops := make([]docstore.BatchOp, 0, len(targets))
	for docID := range targets {
		ops = append(ops, docstore.BatchOp{Collection: docstore.Reminders, ID: docID, Patch: patch})
	}
	return s.docs.ApplyBatch(ctx, ops)
}

// Delete runs the role-sensitive delete state machine.
//
// Teacher deleting a reminder they created removes the whole assignment:
// every group-linked duplicate, every record in the same batch sharing the
// full original recipient set, then the target, followed by a "Reminder
// Removed" notification to each affected recipient. A student deleting
// their own reminder removes just that record. A student listed as a
// recipient of someone else's reminder is removed from its recipient set,
// and the record is deleted outright once the last recipient leaves. Any
// other caller/record combination is a no-op.
func (s *Store) Delete(ctx context.Context, id, callerID, callerRole string, affectedRecipients []string) error {
	target, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case callerRole == models.RoleTeacher && target.CreatorID == callerID:
		return s.deleteAssignment(ctx, target, affectedRecipients)

	case callerRole == models.RoleStudent && target.CreatorID == callerID:
		if err := s.docs.Delete(ctx, docstore.Reminders, id); err != nil {
			return err
		}
		metrics.RemindersDeleted.Inc()
		return nil

	case callerRole == models.RoleStudent && target.HasRecipient(callerID):
		return s.removeRecipient(ctx, target, callerID)

	default:
		s.log.Debug("delete matched no rule, ignoring",
			zap.String("reminder_id", id),
			zap.String("caller_id", callerID),
			zap.String("caller_role", callerRole))
		return nil
	}
}

func (s *Store) deleteAssignment(ctx context.Context, target models.Reminder, affectedRecipients []string) error {
	ids := map[string]struct{}{target.ID: {}}

	// Group-linked duplicates.
	for _, gid := range target.GroupIDs {
		docs, err := s.docs.Query(ctx, docstore.Reminders, docstore.Filter{
			Contains: map[string]any{"group_ids": gid},
		})
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if docID, ok := doc["_id"].(string); ok {
				ids[docID] = struct{}{}
			}
		}
	}

	// Records in the same assignment batch: those sharing the full original
	// recipient set.
	if len(target.StudentIDs) > 0 {
		docs, err := s.docs.Query(ctx, docstore.Reminders, docstore.Filter{
			Contains: map[string]any{"student_ids": target.StudentIDs[0]},
		})
		if err != nil {
			return err
		}
		for _, doc := range docs {
			var r models.Reminder
			if err := docstore.Decode(doc, &r); err != nil {
				continue
			}
			if sameIDSet(r.StudentIDs, target.StudentIDs) {
				ids[r.ID] = struct{}{}
			}
		}
	}

	for docID := range ids {
		if err := s.docs.Delete(ctx, docstore.Reminders, docID); err != nil {
			// A duplicate may already be gone; only the primary target
			// matters for the caller's outcome.
			if err == docstore.ErrNotFound && docID != target.ID {
				continue
			}
			return err
		}
		metrics.RemindersDeleted.Inc()
	}

	if len(affectedRecipients) > 0 {
		s.notifyAll(ctx, target.ID, affectedRecipients,
			"Reminder Removed", "A reminder assigned to you has been deleted.")
	}
	return nil
}

func (s *Store) removeRecipient(ctx context.Context, target models.Reminder, userID string) error {
	remaining := make([]string, 0, len(target.StudentIDs))
	for _, sid := range target.StudentIDs {
		if sid != userID {
			remaining = append(remaining, sid)
		}
	}

	// The last recipient leaving deletes the record rather than leaving an
	// empty recipient list behind.
	if len(remaining) == 0 {
		if err := s.docs.Delete(ctx, docstore.Reminders, target.ID); err != nil {
			return err
		}
		metrics.RemindersDeleted.Inc()
		return nil
	}
	return s.docs.Update(ctx, docstore.Reminders, target.ID, bson.M{"student_ids": remaining})
}

// notifyAll fans out one notification per recipient, best-effort. Outcomes
// feed logs and metrics; the caller's operation has already succeeded.
func (s *Store) notifyAll(ctx context.Context, reminderID string, recipients []string, title, message string) {
	outcomes := fanout.Run(ctx, recipients, func(ctx context.Context, recipient string) error {
		_, err := s.notes.Add(ctx, notificationstore.CreateInput{
			UserID:     recipient,
			Title:      title,
			Message:    message,
			Type:       models.NotificationReminder,
			ReminderID: reminderID,
		})
		return err
	})

	failed := fanout.Failed(outcomes)
	metrics.NotificationsEmitted.WithLabelValues("success").Add(float64(len(outcomes) - len(failed)))
	metrics.NotificationsEmitted.WithLabelValues("failure").Add(float64(len(failed)))

	if len(failed) > 0 {
		s.log.Warn("partial notification fan-out",
			zap.String("reminder_id", reminderID),
			zap.String("title", title),
			zap.Int("recipients", len(outcomes)),
			zap.Int("failed", len(failed)),
			zap.Error(fanout.CombinedErr(outcomes)))
	}
}

// buildPatch converts the partial input into a store patch, refreshing the
// status cache from the post-patch due date and completion flag.
func (s *Store) buildPatch(existing models.Reminder, in UpdateInput) bson.M {
	patch := bson.M{}
	if in.Title != nil {
		patch["title"] = *in.Title
	}
	if in.Description != nil {
		patch["description"] = *in.Description
	}
	if in.Category != nil {
		patch["category"] = *in.Category
	}
	if in.Priority != nil {
		patch["priority"] = *in.Priority
	}
	if in.StudentIDs != nil {
		patch["student_ids"] = *in.StudentIDs
	}
	if in.GroupIDs != nil {
		patch["group_ids"] = *in.GroupIDs
	}

	due := existing.DueDate
	if in.DueDate != nil {
		due = in.DueDate.UTC()
		patch["due_date"] = due
	}
	completed := existing.Completed
	if in.Completed != nil {
		completed = *in.Completed
		patch["completed"] = completed
	}
	patch["status"] = duestatus.Derive(due, completed, s.now())

	return patch
}

func (s *Store) decodeList(docs []bson.M) ([]models.Reminder, error) {
	now := s.now()
	out := make([]models.Reminder, 0, len(docs))
	for _, doc := range docs {
		var r models.Reminder
		if err := docstore.Decode(doc, &r); err != nil {
			return nil, err
		}
		duestatus.Apply(&r, now)
		out = append(out, r)
	}
	return out, nil
}

// newlyAdded returns the ids present in next but not in prev, in next's order.
func newlyAdded(prev, next []string) []string {
	seen := make(map[string]struct{}, len(prev))
	for _, id := range prev {
		seen[id] = struct{}{}
	}
	var added []string
	for _, id := range next {
		if _, ok := seen[id]; !ok {
			added = append(added, id)
		}
	}
	return added
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
