// internal/app/store/docstore/docstore.go

// Package docstore defines the narrow document-store contract the reminder
// core is written against. Two adapters implement it: mongodoc (production)
// and memdoc (tests and local development).
package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// Collection names used by the service.
const (
	Reminders     = "reminders"
	Notifications = "notifications"
	Groups        = "groups"
)

// ErrNotFound is returned when a get/update/delete targets a document id
// that does not exist in the collection.
var ErrNotFound = errors.New("docstore: document not found")

// Filter is the predicate language the store supports: equality on declared
// fields and array-contains membership tests. All clauses are ANDed.
type Filter struct {
	// Eq matches documents whose field equals the given value.
	Eq map[string]any
	// Contains matches documents whose array field contains the given element.
	Contains map[string]any
}

// BatchOp is one patch inside an atomic batch write.
type BatchOp struct {
	Collection string
	ID         string
	Patch      bson.M
}

// Subscription is a live query handle. Close suppresses further callback
// invocations immediately; in-flight queries are not cancelled.
type Subscription interface {
	Close()
}

// Store is the generic document-store interface (create/read/update/delete/
// query plus real-time subscription and atomic multi-record patching).
//
// Create assigns the document id and, when absent, a created_at timestamp.
// Update and Delete fail with ErrNotFound when the id is unknown.
// Subscribe invokes fn with the full current result set immediately and again
// on every change to it. ApplyBatch applies every patch or none.
type Store interface {
	Create(ctx context.Context, collection string, doc bson.M) (string, error)
	Get(ctx context.Context, collection, id string) (bson.M, error)
	Update(ctx context.Context, collection, id string, patch bson.M) error
	Delete(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection string, f Filter) ([]bson.M, error)
	Subscribe(ctx context.Context, collection string, f Filter, fn func([]bson.M)) (Subscription, error)
	ApplyBatch(ctx context.Context, ops []BatchOp) error
}

// Decode unmarshals a raw document into out via its bson tags.
func Decode(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}
