package memdoc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"github.com/dalemusser/remindhub/internal/app/store/docstore/memdoc"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCreateAssignsIDAndCreatedAt(t *testing.T) {
	s := memdoc.New()
	ctx := context.Background()

	id, err := s.Create(ctx, "things", bson.M{"name": "a"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	doc, err := s.Get(ctx, "things", id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc["_id"] != id {
		t.Errorf("_id: got %v, want %v", doc["_id"], id)
	}
	if _, ok := doc["created_at"]; !ok {
		t.Error("expected created_at to be assigned")
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	s := memdoc.New()
	_, err := s.Get(context.Background(), "things", "nope")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	s := memdoc.New()
	ctx := context.Background()

	id, _ := s.Create(ctx, "things", bson.M{"name": "a", "count": 1})
	if err := s.Update(ctx, "things", id, bson.M{"count": 2}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	doc, _ := s.Get(ctx, "things", id)
	if doc["count"] != 2 {
		t.Errorf("count: got %v, want 2", doc["count"])
	}
	if doc["name"] != "a" {
		t.Errorf("name: got %v, want a (untouched fields must survive)", doc["name"])
	}
}

func TestUpdateCannotTouchIDOrCreatedAt(t *testing.T) {
	s := memdoc.New()
	ctx := context.Background()

	id, _ := s.Create(ctx, "things", bson.M{"name": "a"})
	orig, _ := s.Get(ctx, "things", id)

	if err := s.Update(ctx, "things", id, bson.M{"_id": "hijack", "created_at": "bogus"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	doc, err := s.Get(ctx, "things", id)
	if err != nil {
		t.Fatalf("document vanished under its original id: %v", err)
	}
	if doc["_id"] != id {
		t.Errorf("_id changed to %v", doc["_id"])
	}
	if doc["created_at"] != orig["created_at"] {
		t.Errorf("created_at changed to %v", doc["created_at"])
	}
}

func TestUpdateMissingReturnsErrNotFound(t *testing.T) {
	s := memdoc.New()
	err := s.Update(context.Background(), "things", "nope", bson.M{"x": 1})
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := memdoc.New()
	ctx := context.Background()

	id, _ := s.Create(ctx, "things", bson.M{"name": "a"})
	if err := s.Delete(ctx, "things", id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "things", id); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound after delete", err)
	}
	if err := s.Delete(ctx, "things", id); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestQueryFilters(t *testing.T) {
	s := memdoc.New()
	ctx := context.Background()

	_, _ = s.Create(ctx, "things", bson.M{"owner": "u1", "tags": []string{"a", "b"}})
	_, _ = s.Create(ctx, "things", bson.M{"owner": "u2", "tags": []string{"b"}})
	_, _ = s.Create(ctx, "things", bson.M{"owner": "u1", "tags": []string{"c"}})

	byOwner, err := s.Query(ctx, "things", docstore.Filter{Eq: map[string]any{"owner": "u1"}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(byOwner) != 2 {
		t.Errorf("Eq owner=u1: got %d docs, want 2", len(byOwner))
	}

	byTag, err := s.Query(ctx, "things", docstore.Filter{Contains: map[string]any{"tags": "b"}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(byTag) != 2 {
		t.Errorf("Contains tags=b: got %d docs, want 2", len(byTag))
	}

	all, _ := s.Query(ctx, "things", docstore.Filter{})
	if len(all) != 3 {
		t.Errorf("empty filter: got %d docs, want 3", len(all))
	}
}

func TestQueryReturnsCopies(t *testing.T) {
	s := memdoc.New()
	ctx := context.Background()

	id, _ := s.Create(ctx, "things", bson.M{"name": "a"})
	docs, _ := s.Query(ctx, "things", docstore.Filter{})
	docs[0]["name"] = "mutated"

	stored, _ := s.Get(ctx, "things", id)
	if stored["name"] != "a" {
		t.Error("mutating a query result leaked into the store")
	}
}

func TestSubscribeDeliversInitialAndUpdates(t *testing.T) {
	s := memdoc.New()
	ctx := context.Background()

	_, _ = s.Create(ctx, "things", bson.M{"owner": "u1"})

	var snapshots [][]bson.M
	sub, err := s.Subscribe(ctx, "things", docstore.Filter{Eq: map[string]any{"owner": "u1"}}, func(docs []bson.M) {
		snapshots = append(snapshots, docs)
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Close()

	if len(snapshots) != 1 || len(snapshots[0]) != 1 {
		t.Fatalf("expected initial snapshot with 1 doc, got %v", snapshots)
	}

	_, _ = s.Create(ctx, "things", bson.M{"owner": "u1"})
	if len(snapshots) != 2 || len(snapshots[1]) != 2 {
		t.Fatalf("expected second snapshot with 2 docs, got %d snapshots", len(snapshots))
	}

	// A non-matching document still triggers re-query but the result set
	// stays filtered.
	_, _ = s.Create(ctx, "things", bson.M{"owner": "other"})
	last := snapshots[len(snapshots)-1]
	if len(last) != 2 {
		t.Errorf("filtered snapshot leaked foreign docs: %v", last)
	}
}

func TestSubscribeCloseSuppressesCallbacks(t *testing.T) {
	s := memdoc.New()
	ctx := context.Background()

	count := 0
	sub, _ := s.Subscribe(ctx, "things", docstore.Filter{}, func(docs []bson.M) {
		count++
	})
	if count != 1 {
		t.Fatalf("expected initial delivery, got %d", count)
	}

	sub.Close()
	_, _ = s.Create(ctx, "things", bson.M{"name": "a"})
	if count != 1 {
		t.Errorf("callback fired after Close: count=%d", count)
	}
}

func TestApplyBatchAllOrNothing(t *testing.T) {
	s := memdoc.New()
	ctx := context.Background()

	id1, _ := s.Create(ctx, "things", bson.M{"n": 1})
	id2, _ := s.Create(ctx, "things", bson.M{"n": 2})

	err := s.ApplyBatch(ctx, []docstore.BatchOp{
		{Collection: "things", ID: id1, Patch: bson.M{"n": 10}},
		{Collection: "things", ID: "missing", Patch: bson.M{"n": 20}},
	})
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// Nothing was applied.
	doc1, _ := s.Get(ctx, "things", id1)
	if doc1["n"] != 1 {
		t.Errorf("partial batch applied: n=%v", doc1["n"])
	}

	err = s.ApplyBatch(ctx, []docstore.BatchOp{
		{Collection: "things", ID: id1, Patch: bson.M{"n": 10}},
		{Collection: "things", ID: id2, Patch: bson.M{"n": 20}},
	})
	if err != nil {
		t.Fatalf("ApplyBatch failed: %v", err)
	}
	doc1, _ = s.Get(ctx, "things", id1)
	doc2, _ := s.Get(ctx, "things", id2)
	if doc1["n"] != 10 || doc2["n"] != 20 {
		t.Errorf("batch not applied: n1=%v n2=%v", doc1["n"], doc2["n"])
	}
}
