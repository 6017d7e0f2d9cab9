package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/chorezilla/internal/database"
	"github.com/dukerupert/chorezilla/internal/media"
	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/dukerupert/chorezilla/internal/notify"
	"github.com/dukerupert/chorezilla/internal/push"
	"github.com/dukerupert/chorezilla/internal/store"
	"github.com/dukerupert/chorezilla/internal/websocket"
)

// channelSender records multicast sends and signals each one on a channel so
// tests can wait for the background dispatch.
type channelSender struct {
	sent chan push.Payload
}

func (c *channelSender) SendMulticast(subs []model.PushSubscription, payload push.Payload) []push.Result {
	results := make([]push.Result, len(subs))
	for i, sub := range subs {
		results[i] = push.Result{Subscription: sub}
	}
	c.sent <- payload
	return results
}

type assignmentFixture struct {
	handler     *AssignmentHandler
	assignments *store.AssignmentStore
	sender      *channelSender
	familyID    string
}

func setupAssignmentHandler(t *testing.T) *assignmentFixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	families := store.NewFamilyStore(db)
	members := store.NewMemberStore(db)
	assignments := store.NewAssignmentStore(db)
	subs := store.NewPushStore(db)

	fam, err := families.Create("Test Family")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	parent, err := members.Create(fam.ID, "Mom", model.RoleParent, "", true)
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if _, err := subs.CreateSubscription(parent.ID, fam.ID, "https://push.example.com/mom", "k", "a", "phone"); err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	logger := slog.New(slog.DiscardHandler)
	sender := &channelSender{sent: make(chan push.Payload, 1)}
	dispatcher := notify.NewDispatcher(members, subs, sender, logger)
	hub := websocket.NewHub(logger)
	mediaSvc := media.NewService(media.Config{})

	return &assignmentFixture{
		handler:     NewAssignmentHandler(assignments, families, dispatcher, mediaSvc, hub, logger),
		assignments: assignments,
		sender:      sender,
		familyID:    fam.ID,
	}
}

func (f *assignmentFixture) createAssignment(t *testing.T, requiresApproval bool) *model.Assignment {
	t.Helper()
	a, err := f.assignments.Create(f.familyID, "Dishes", "Riley", "", requiresApproval)
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return a
}

func TestAssignmentUpdateStatusNotifiesParents(t *testing.T) {
	f := setupAssignmentHandler(t)
	a := f.createAssignment(t, true)

	req := authedRequest(http.MethodPut, "/api/assignments/"+a.ID+"/status", "parent-1",
		`{"status":"pending"}`)
	req.SetPathValue("id", a.ID)
	rec := httptest.NewRecorder()
	f.handler.UpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	var got model.Assignment
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != model.AssignmentStatusPending {
		t.Errorf("status = %q, want %q", got.Status, model.AssignmentStatusPending)
	}

	select {
	case payload := <-f.sender.sent:
		if payload.Data["assignment_id"] != a.ID {
			t.Errorf("payload assignment_id = %q, want %q", payload.Data["assignment_id"], a.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for review notification")
	}
}

func TestAssignmentUpdateStatusNoApprovalNoNotification(t *testing.T) {
	f := setupAssignmentHandler(t)
	a := f.createAssignment(t, false)

	req := authedRequest(http.MethodPut, "/api/assignments/"+a.ID+"/status", "parent-1",
		`{"status":"pending"}`)
	req.SetPathValue("id", a.ID)
	rec := httptest.NewRecorder()
	f.handler.UpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	select {
	case <-f.sender.sent:
		t.Error("notification sent for assignment without approval requirement")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAssignmentUpdateStatusMissing(t *testing.T) {
	f := setupAssignmentHandler(t)

	req := authedRequest(http.MethodPut, "/api/assignments/no-such/status", "parent-1",
		`{"status":"pending"}`)
	req.SetPathValue("id", "no-such")
	rec := httptest.NewRecorder()
	f.handler.UpdateStatus(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAssignmentCreateUnknownFamily(t *testing.T) {
	f := setupAssignmentHandler(t)

	req := authedRequest(http.MethodPost, "/api/assignments", "parent-1",
		`{"family_id":"no-such-family","chore_title":"Dishes"}`)
	rec := httptest.NewRecorder()
	f.handler.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestAssignmentList(t *testing.T) {
	f := setupAssignmentHandler(t)
	f.createAssignment(t, false)
	f.createAssignment(t, true)

	req := authedRequest(http.MethodGet, "/api/families/"+f.familyID+"/assignments", "parent-1", "")
	req.SetPathValue("id", f.familyID)
	rec := httptest.NewRecorder()
	f.handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var list []model.Assignment
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len(list) = %d, want 2", len(list))
	}
}
