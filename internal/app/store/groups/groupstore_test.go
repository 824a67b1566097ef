package groupstore_test

import (
	"errors"
	"testing"

	groupstore "github.com/dalemusser/remindhub/internal/app/store/groups"
	"github.com/dalemusser/remindhub/internal/domain/models"
	"github.com/dalemusser/remindhub/internal/testutil"
)

func TestCreateAndGetAll(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := groupstore.New(docs)

	g, err := store.Create(ctx, models.Group{
		Name:       "Period 3",
		StudentIDs: []string{"s1", "s2"},
		CreatedBy:  "teacher-1",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.ID == "" {
		t.Fatal("expected assigned id")
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d groups, want 1", len(all))
	}
	got := all[0]
	if got.Name != "Period 3" || got.CreatedBy != "teacher-1" {
		t.Errorf("unexpected group: %+v", got)
	}
	if len(got.StudentIDs) != 2 {
		t.Errorf("student_ids: got %v", got.StudentIDs)
	}
}

func TestCreate_TrimsName(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := groupstore.New(docs)

	g, err := store.Create(ctx, models.Group{Name: "  Period 4 ", CreatedBy: "teacher-1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.Name != "Period 4" {
		t.Errorf("returned name: got %q, want %q", g.Name, "Period 4")
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 || all[0].Name != "Period 4" {
		t.Errorf("persisted name: got %+v", all)
	}
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := groupstore.New(docs)

	_, err := store.Create(ctx, models.Group{Name: "   ", CreatedBy: "teacher-1"})
	if !errors.Is(err, groupstore.ErrEmptyGroupName) {
		t.Errorf("got %v, want ErrEmptyGroupName", err)
	}

	all, _ := store.GetAll(ctx)
	if len(all) != 0 {
		t.Error("rejected group must not be persisted")
	}
}
