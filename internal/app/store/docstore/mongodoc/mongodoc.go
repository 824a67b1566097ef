// internal/app/store/docstore/mongodoc/mongodoc.go

// Package mongodoc implements docstore.Store on MongoDB. Subscriptions are
// driven by change streams when the deployment supports them and fall back
// to polling on standalone servers; atomic batches use multi-document
// transactions with a sequential fallback under the same condition.
package mongodoc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"github.com/dalemusser/remindhub/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const defaultPollInterval = 2 * time.Second

// Store adapts a mongo.Database to the docstore.Store contract.
type Store struct {
	db           *mongo.Database
	log          *zap.Logger
	pollInterval time.Duration
}

// New wraps db as a document store.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{db: db, log: logger, pollInterval: defaultPollInterval}
}

// Ping verifies connectivity for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Create inserts doc with a fresh ObjectID hex id, assigning created_at
// when the caller did not.
func (s *Store) Create(ctx context.Context, collection string, doc bson.M) (string, error) {
	id := primitive.NewObjectID().Hex()

	stored := make(bson.M, len(doc)+2)
	for k, v := range doc {
		stored[k] = v
	}
	stored["_id"] = id
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = time.Now().UTC()
	}

	if _, err := s.db.Collection(collection).InsertOne(ctx, stored); err != nil {
		return "", err
	}
	return id, nil
}

// Get fetches one document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (bson.M, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update applies patch as a $set; docstore.ErrNotFound when id is absent.
func (s *Store) Update(ctx context.Context, collection, id string, patch bson.M) error {
	res, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": patch})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// Delete removes one document by id; docstore.ErrNotFound when absent.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// Query runs the filter and returns all matching documents.
func (s *Store) Query(ctx context.Context, collection string, f docstore.Filter) ([]bson.M, error) {
	cur, err := s.db.Collection(collection).Find(ctx, filterToBSON(f))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]bson.M, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

type subscription struct {
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	fn     func([]bson.M)
}

func (sub *subscription) Close() {
	sub.mu.Lock()
	sub.closed = true
	sub.mu.Unlock()
	sub.cancel()
}

func (sub *subscription) deliver(results []bson.M) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.fn(results)
}

// Subscribe delivers the current result set immediately, then re-runs the
// query and delivers a fresh snapshot whenever the collection changes.
func (s *Store) Subscribe(ctx context.Context, collection string, f docstore.Filter, fn func([]bson.M)) (docstore.Subscription, error) {
	initial, err := s.Query(ctx, collection, f)
	if err != nil {
		return nil, err
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	sub := &subscription{cancel: cancel, fn: fn}
	sub.deliver(initial)

	go s.watch(watchCtx, collection, f, sub)
	return sub, nil
}

func (s *Store) watch(ctx context.Context, collection string, f docstore.Filter, sub *subscription) {
	stream, err := s.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		if txn.IsNotSupported(err) {
			s.log.Warn("change streams unavailable, polling instead",
				zap.String("collection", collection),
				zap.Duration("interval", s.pollInterval))
			s.poll(ctx, collection, f, sub)
			return
		}
		s.log.Error("change stream open failed", zap.String("collection", collection), zap.Error(err))
		return
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		s.refresh(ctx, collection, f, sub)
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		s.log.Error("change stream ended", zap.String("collection", collection), zap.Error(err))
	}
}

func (s *Store) poll(ctx context.Context, collection string, f docstore.Filter, sub *subscription) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx, collection, f, sub)
		}
	}
}

func (s *Store) refresh(ctx context.Context, collection string, f docstore.Filter, sub *subscription) {
	results, err := s.Query(ctx, collection, f)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error("live query refresh failed", zap.String("collection", collection), zap.Error(err))
		}
		return
	}
	sub.deliver(results)
}

// ApplyBatch applies all patches in one multi-document transaction. When the
// deployment cannot run transactions the patches are applied sequentially,
// which loses atomicity but keeps single-node dev setups working.
func (s *Store) ApplyBatch(ctx context.Context, ops []docstore.BatchOp) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		if txn.IsNotSupported(err) {
			return s.applySequential(ctx, ops)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		for _, op := range ops {
			res, err := s.db.Collection(op.Collection).UpdateByID(sc, op.ID, bson.M{"$set": op.Patch})
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, docstore.ErrNotFound
			}
		}
		return nil, nil
	})
	if err != nil && txn.IsNotSupported(err) {
		return s.applySequential(ctx, ops)
	}
	return err
}

func (s *Store) applySequential(ctx context.Context, ops []docstore.BatchOp) error {
	s.log.Warn("transactions unavailable, applying batch sequentially", zap.Int("ops", len(ops)))
	for _, op := range ops {
		if err := s.Update(ctx, op.Collection, op.ID, op.Patch); err != nil {
			return err
		}
	}
	return nil
}

// filterToBSON translates a docstore.Filter into a Mongo filter document.
// Contains clauses rely on Mongo's native array-membership semantics for
// equality matches on array fields.
func filterToBSON(f docstore.Filter) bson.M {
	out := bson.M{}
	for field, v := range f.Eq {
		out[field] = v
	}
	for field, elem := range f.Contains {
		out[field] = elem
	}
	return out
}
