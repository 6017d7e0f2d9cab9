package store

import (
	"testing"

	"github.com/dukerupert/chorezilla/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func seedUser(t *testing.T, us *UserStore, id, email string) {
	t.Helper()
	if _, err := us.db.Exec(`INSERT INTO users (id, email) VALUES (?, ?)`, id, email); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestUserGetByID(t *testing.T) {
	us := setupUserTestDB(t)
	seedUser(t, us, "user-1", "alex@example.com")

	got, err := us.GetByID("user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got == nil {
		t.Fatal("user not found")
	}
	if got.Email != "alex@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "alex@example.com")
	}

	missing, err := us.GetByID("no-such-user")
	if err != nil {
		t.Fatalf("get missing user: %v", err)
	}
	if missing != nil {
		t.Errorf("got %v, want nil for a missing user", missing)
	}
}

func TestUpsertProfileMergePreservesEmail(t *testing.T) {
	us := setupUserTestDB(t)
	seedUser(t, us, "user-1", "alex@example.com")

	u, err := us.UpsertProfile("user-1", "Alex", "parent", "family-1")
	if err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
	if u.DisplayName != "Alex" {
		t.Errorf("display_name = %q, want %q", u.DisplayName, "Alex")
	}
	if u.Role != "parent" {
		t.Errorf("role = %q, want %q", u.Role, "parent")
	}
	if u.FamilyID != "family-1" {
		t.Errorf("family_id = %q, want %q", u.FamilyID, "family-1")
	}
	// The merge must not clobber fields it does not name
	if u.Email != "alex@example.com" {
		t.Errorf("email = %q, want %q (merge clobbered it)", u.Email, "alex@example.com")
	}
}

func TestUpsertProfileCreatesWhenMissing(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.UpsertProfile("user-2", "Sam", "parent", "family-1")
	if err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
	if u == nil {
		t.Fatal("user not created")
	}
	if u.DisplayName != "Sam" {
		t.Errorf("display_name = %q, want %q", u.DisplayName, "Sam")
	}
}
