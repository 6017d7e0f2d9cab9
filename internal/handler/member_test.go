package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/chorezilla/internal/database"
	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/dukerupert/chorezilla/internal/store"
	"github.com/dukerupert/chorezilla/internal/websocket"
)

type memberFixture struct {
	handler  *MemberHandler
	members  *store.MemberStore
	familyID string
}

func setupMemberHandler(t *testing.T) *memberFixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	families := store.NewFamilyStore(db)
	members := store.NewMemberStore(db)

	fam, err := families.Create("Test Family")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}

	logger := slog.New(slog.DiscardHandler)
	return &memberFixture{
		handler:  NewMemberHandler(members, websocket.NewHub(logger), logger),
		members:  members,
		familyID: fam.ID,
	}
}

func TestMemberDelete(t *testing.T) {
	f := setupMemberHandler(t)

	m, err := f.members.Create(f.familyID, "Riley", model.RoleChild, "", false)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	req := authedRequest(http.MethodDelete, "/api/members/"+m.ID, "parent-1", "")
	req.SetPathValue("id", m.ID)
	rec := httptest.NewRecorder()
	f.handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusNoContent, rec.Body)
	}

	got, err := f.members.GetByID(m.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got != nil {
		t.Error("member row still present after delete")
	}
}

func TestMemberDeleteUnknown(t *testing.T) {
	f := setupMemberHandler(t)

	req := authedRequest(http.MethodDelete, "/api/members/no-such", "parent-1", "")
	req.SetPathValue("id", "no-such")
	rec := httptest.NewRecorder()
	f.handler.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
