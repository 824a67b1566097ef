// internal/app/store/docstore/memdoc/memdoc.go

// Package memdoc is an in-memory docstore.Store used by tests and local
// development. It honors the same contract as the MongoDB adapter:
// store-assigned ids and created_at, ErrNotFound on missing targets,
// all-or-nothing batches, and subscriptions that fire with the full current
// result set on every change.
package memdoc

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Store is the in-memory document store. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]bson.M // collection -> id -> document
	subs map[string][]*subscription   // collection -> live queries
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		data: make(map[string]map[string]bson.M),
		subs: make(map[string][]*subscription),
	}
}

type subscription struct {
	store      *Store
	collection string
	filter     docstore.Filter
	fn         func([]bson.M)

	mu     sync.Mutex
	closed bool
}

// Close suppresses all further callback invocations.
func (s *subscription) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *subscription) deliver(results []bson.M) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.fn(results)
}

// Create inserts doc, assigning an id and (when absent) a created_at
// timestamp, and returns the new id.
func (s *Store) Create(ctx context.Context, collection string, doc bson.M) (string, error) {
	id := uuid.NewString()

	stored := copyDoc(doc)
	stored["_id"] = id
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = time.Now().UTC()
	}

	s.mu.Lock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]bson.M)
	}
	s.data[collection][id] = stored
	s.mu.Unlock()

	s.notify(collection)
	return id, nil
}

// Get returns a copy of the document or docstore.ErrNotFound.
func (s *Store) Get(ctx context.Context, collection, id string) (bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return copyDoc(doc), nil
}

// Update merges patch into the document or fails with docstore.ErrNotFound.
func (s *Store) Update(ctx context.Context, collection, id string, patch bson.M) error {
	s.mu.Lock()
	doc, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return docstore.ErrNotFound
	}
	applyPatch(doc, patch)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

// Delete removes the document or fails with docstore.ErrNotFound.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	if _, ok := s.data[collection][id]; !ok {
		s.mu.Unlock()
		return docstore.ErrNotFound
	}
	delete(s.data[collection], id)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

// Query returns copies of all documents matching the filter, ordered by
// created_at then id for deterministic results.
func (s *Store) Query(ctx context.Context, collection string, f docstore.Filter) ([]bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryLocked(collection, f), nil
}

// Subscribe registers a live query. The callback fires synchronously with
// the current result set before Subscribe returns, then again after every
// mutation of the collection.
func (s *Store) Subscribe(ctx context.Context, collection string, f docstore.Filter, fn func([]bson.M)) (docstore.Subscription, error) {
	sub := &subscription{store: s, collection: collection, filter: f, fn: fn}

	s.mu.Lock()
	s.subs[collection] = append(s.subs[collection], sub)
	initial := s.queryLocked(collection, f)
	s.mu.Unlock()

	sub.deliver(initial)
	return sub, nil
}

// ApplyBatch applies every patch or none: all targets are checked for
// existence before any patch is applied.
func (s *Store) ApplyBatch(ctx context.Context, ops []docstore.BatchOp) error {
	s.mu.Lock()
	for _, op := range ops {
		if _, ok := s.data[op.Collection][op.ID]; !ok {
			s.mu.Unlock()
			return docstore.ErrNotFound
		}
	}
	touched := make(map[string]struct{})
	for _, op := range ops {
		applyPatch(s.data[op.Collection][op.ID], op.Patch)
		touched[op.Collection] = struct{}{}
	}
	s.mu.Unlock()

	for collection := range touched {
		s.notify(collection)
	}
	return nil
}

func (s *Store) queryLocked(collection string, f docstore.Filter) []bson.M {
	out := make([]bson.M, 0)
	for _, doc := range s.data[collection] {
		if matches(doc, f) {
			out = append(out, copyDoc(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, iok := out[i]["created_at"].(time.Time)
		tj, jok := out[j]["created_at"].(time.Time)
		if iok && jok && !ti.Equal(tj) {
			return ti.Before(tj)
		}
		si, _ := out[i]["_id"].(string)
		sj, _ := out[j]["_id"].(string)
		return si < sj
	})
	return out
}

// notify re-runs every live query on the collection and delivers fresh
// snapshots. Callbacks run without the store lock held so they may call
// back into the store.
func (s *Store) notify(collection string) {
	s.mu.RLock()
	subs := make([]*subscription, len(s.subs[collection]))
	copy(subs, s.subs[collection])
	snapshots := make([][]bson.M, len(subs))
	for i, sub := range subs {
		snapshots[i] = s.queryLocked(collection, sub.filter)
	}
	s.mu.RUnlock()

	for i, sub := range subs {
		sub.deliver(snapshots[i])
	}
}

func matches(doc bson.M, f docstore.Filter) bool {
	for field, want := range f.Eq {
		if !reflect.DeepEqual(doc[field], want) {
			return false
		}
	}
	for field, elem := range f.Contains {
		if !containsElem(doc[field], elem) {
			return false
		}
	}
	return true
}

func containsElem(value, elem any) bool {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if reflect.DeepEqual(rv.Index(i).Interface(), elem) {
			return true
		}
	}
	return false
}

func applyPatch(doc, patch bson.M) {
	for k, v := range patch {
		if k == "_id" || k == "created_at" {
			continue
		}
		doc[k] = v
	}
}

func copyDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
