// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"time"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Store owns the notification lifecycle. Add is the only way any component
// signals "something happened" to a recipient; records are mutated only to
// flip is_read and deleted only by their recipient.
type Store struct {
	docs docstore.Store
}

func New(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

// CreateInput carries the fields of a new notification.
type CreateInput struct {
	UserID     string
	Title      string
	Message    string
	Type       models.NotificationType
	ReminderID string
}

// Add creates one notification record and returns its id.
func (s *Store) Add(ctx context.Context, in CreateInput) (string, error) {
	typ := in.Type
	if typ == "" {
		typ = models.NotificationGeneral
	}
	doc := bson.M{
		"user_id": in.UserID,
		"title":   in.Title,
		"message": in.Message,
		"type":    typ,
		"is_read": false,
	}
	if in.ReminderID != "" {
		doc["reminder_id"] = in.ReminderID
	}
	return s.docs.Create(ctx, docstore.Notifications, doc)
}

// GetByID fetches one notification; docstore.ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id string) (models.Notification, error) {
	doc, err := s.docs.Get(ctx, docstore.Notifications, id)
	if err != nil {
		return models.Notification{}, err
	}
	var n models.Notification
	if err := docstore.Decode(doc, &n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// ListForUser returns all of a user's notifications, oldest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	docs, err := s.docs.Query(ctx, docstore.Notifications, forUser(userID))
	if err != nil {
		return nil, err
	}
	return decodeList(docs)
}

// MarkRead flips is_read on one notification.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	return s.docs.Update(ctx, docstore.Notifications, id, bson.M{"is_read": true})
}

// MarkAllRead flips is_read on every unread notification of the user.
func (s *Store) MarkAllRead(ctx context.Context, userID string) error {
	list, err := s.ListForUser(ctx, userID)
	if err != nil {
		return err
	}
	ops := make([]docstore.BatchOp, 0, len(list))
	for _, n := range list {
		if n.IsRead {
			continue
		}
		ops = append(ops, docstore.BatchOp{
			Collection: docstore.Notifications,
			ID:         n.ID,
			Patch:      bson.M{"is_read": true},
		})
	}
	if len(ops) == 0 {
		return nil
	}
	return s.docs.ApplyBatch(ctx, ops)
}

// Delete removes one notification.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, docstore.Notifications, id)
}

// ClearAll removes every notification belonging to the user and returns
// how many were deleted.
func (s *Store) ClearAll(ctx context.Context, userID string) (int, error) {
	list, err := s.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, n := range list {
		if err := s.docs.Delete(ctx, docstore.Notifications, n.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// SubscribeForUser delivers the user's full notification set now and on
// every change, for live unread badges.
func (s *Store) SubscribeForUser(ctx context.Context, userID string, fn func([]models.Notification)) (docstore.Subscription, error) {
	return s.docs.Subscribe(ctx, docstore.Notifications, forUser(userID), func(docs []bson.M) {
		list, err := decodeList(docs)
		if err != nil {
			return
		}
		fn(list)
	})
}

// PruneOlderThan deletes notifications created before now-age and returns
// the number removed. Retention is the default; this only runs when a
// prune age is configured.
func (s *Store) PruneOlderThan(ctx context.Context, age time.Duration) (int, error) {
	docs, err := s.docs.Query(ctx, docstore.Notifications, docstore.Filter{})
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().UTC().Add(-age)

	pruned := 0
	for _, doc := range docs {
		var n models.Notification
		if err := docstore.Decode(doc, &n); err != nil {
			continue
		}
		if n.CreatedAt.Before(cutoff) {
			if err := s.docs.Delete(ctx, docstore.Notifications, n.ID); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}

func forUser(userID string) docstore.Filter {
	return docstore.Filter{Eq: map[string]any{"user_id": userID}}
}

func decodeList(docs []bson.M) ([]models.Notification, error) {
	out := make([]models.Notification, 0, len(docs))
	for _, doc := range docs {
		var n models.Notification
		if err := docstore.Decode(doc, &n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
