package store

import (
	"testing"

	"github.com/dukerupert/chorezilla/internal/database"
)

func setupFamilyTestDB(t *testing.T) *FamilyStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewFamilyStore(db)
}

func TestFamilyCreateAndGet(t *testing.T) {
	fs := setupFamilyTestDB(t)

	fam, err := fs.Create("The Parkers")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	if fam.ID == "" {
		t.Error("family id is empty")
	}
	if fam.Name != "The Parkers" {
		t.Errorf("name = %q, want %q", fam.Name, "The Parkers")
	}

	got, err := fs.GetByID(fam.ID)
	if err != nil {
		t.Fatalf("get family: %v", err)
	}
	if got == nil {
		t.Fatal("family not found")
	}
	if got.Name != fam.Name {
		t.Errorf("got name = %q, want %q", got.Name, fam.Name)
	}
}

func TestFamilyGetMissing(t *testing.T) {
	fs := setupFamilyTestDB(t)

	got, err := fs.GetByID("no-such-family")
	if err != nil {
		t.Fatalf("get family: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestFamilyParentSet(t *testing.T) {
	fs := setupFamilyTestDB(t)

	fam, err := fs.Create("Test Family")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}

	isParent, err := fs.IsParent(fam.ID, "user-1")
	if err != nil {
		t.Fatalf("is parent: %v", err)
	}
	if isParent {
		t.Error("user-1 should not be a parent yet")
	}

	if err := fs.AddParent(fam.ID, "user-1"); err != nil {
		t.Fatalf("add parent: %v", err)
	}
	// Adding again is a no-op, not an error
	if err := fs.AddParent(fam.ID, "user-1"); err != nil {
		t.Fatalf("add parent twice: %v", err)
	}

	isParent, err = fs.IsParent(fam.ID, "user-1")
	if err != nil {
		t.Fatalf("is parent: %v", err)
	}
	if !isParent {
		t.Error("user-1 should be a parent")
	}

	if err := fs.AddParent(fam.ID, "user-2"); err != nil {
		t.Fatalf("add second parent: %v", err)
	}
	ids, err := fs.ListParentIDs(fam.ID)
	if err != nil {
		t.Fatalf("list parent ids: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("len(ids) = %d, want 2", len(ids))
	}
}

func TestFamilyDelete(t *testing.T) {
	fs := setupFamilyTestDB(t)

	fam, err := fs.Create("Short Lived")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	if err := fs.Delete(fam.ID); err != nil {
		t.Fatalf("delete family: %v", err)
	}
	got, err := fs.GetByID(fam.ID)
	if err != nil {
		t.Fatalf("get family: %v", err)
	}
	if got != nil {
		t.Error("family still present after delete")
	}
}
