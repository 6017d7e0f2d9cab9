package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorezilla/internal/apperror"
	"github.com/dukerupert/chorezilla/internal/media"
	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/dukerupert/chorezilla/internal/notify"
	"github.com/dukerupert/chorezilla/internal/store"
	"github.com/dukerupert/chorezilla/internal/websocket"
)

// maxProofPhotoBytes caps proof photo uploads.
const maxProofPhotoBytes = 10 << 20

type AssignmentHandler struct {
	assignments *store.AssignmentStore
	families    *store.FamilyStore
	dispatcher  *notify.Dispatcher
	media       *media.Service
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewAssignmentHandler(assignments *store.AssignmentStore, families *store.FamilyStore, dispatcher *notify.Dispatcher, mediaSvc *media.Service, hub *websocket.Hub, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		families:    families,
		dispatcher:  dispatcher,
		media:       mediaSvc,
		hub:         hub,
		logger:      logger,
	}
}

// Create handles POST /api/assignments.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FamilyID         string `json:"family_id"`
		ChoreTitle       string `json:"chore_title"`
		MemberName       string `json:"member_name"`
		Status           string `json:"status"`
		RequiresApproval bool   `json:"requires_approval"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid JSON"))
		return
	}

	familyID := strings.TrimSpace(req.FamilyID)
	if familyID == "" {
		writeError(w, apperror.New(apperror.InvalidArgument, "missing family_id"))
		return
	}

	fam, err := h.families.GetByID(familyID)
	if err != nil {
		h.logger.Error("get family", "family_id", familyID, "error", err)
		writeError(w, err)
		return
	}
	if fam == nil {
		writeError(w, apperror.New(apperror.NotFound, "family not found"))
		return
	}

	a, err := h.assignments.Create(familyID, req.ChoreTitle, req.MemberName, req.Status, req.RequiresApproval)
	if err != nil {
		h.logger.Error("create assignment", "family_id", familyID, "error", err)
		writeError(w, err)
		return
	}

	h.hub.Broadcast(familyID, websocket.NewMessage("assignment", "created", a.ID, nil))
	writeJSON(w, http.StatusCreated, a)
}

// Get handles GET /api/assignments/{id}.
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.assignments.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get assignment", "error", err)
		writeError(w, err)
		return
	}
	if a == nil {
		writeError(w, apperror.New(apperror.NotFound, "assignment not found"))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// List handles GET /api/families/{id}/assignments.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignments.ListByFamily(r.PathValue("id"))
	if err != nil {
		h.logger.Error("list assignments", "error", err)
		writeError(w, err)
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}

// UpdateStatus handles PUT /api/assignments/{id}/status. The store returns
// the before/after snapshots from the update transaction; they go to the
// review dispatcher once the update has committed. Dispatch runs in the
// background and can never fail the request.
func (h *AssignmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid JSON"))
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		writeError(w, apperror.New(apperror.InvalidArgument, "missing status"))
		return
	}

	before, after, err := h.assignments.UpdateStatus(id, status)
	if err != nil {
		h.logger.Error("update assignment status", "assignment_id", id, "error", err)
		writeError(w, err)
		return
	}
	if before == nil || after == nil {
		writeError(w, apperror.New(apperror.NotFound, "assignment not found"))
		return
	}

	h.hub.Broadcast(after.FamilyID, websocket.NewMessage("assignment", "updated", after.ID, map[string]any{
		"status": after.Status,
	}))
	go h.dispatcher.AssignmentUpdated(after.FamilyID, after.ID, *before, *after)

	writeJSON(w, http.StatusOK, after)
}

// UploadProof handles POST /api/assignments/{id}/proof. Multipart form with
// an optional "photo" file and an optional "note" field; the photo goes to
// object storage and its URL lands on the proof record.
func (h *AssignmentHandler) UploadProof(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	a, err := h.assignments.GetByID(id)
	if err != nil {
		h.logger.Error("get assignment", "assignment_id", id, "error", err)
		writeError(w, err)
		return
	}
	if a == nil {
		writeError(w, apperror.New(apperror.NotFound, "assignment not found"))
		return
	}

	if err := r.ParseMultipartForm(maxProofPhotoBytes); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid multipart form"))
		return
	}

	note := strings.TrimSpace(r.FormValue("note"))
	photoURL := a.Proof.PhotoURL

	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		contentType := header.Header.Get("Content-Type")
		url, err := h.media.UploadProofPhoto(r.Context(), a.FamilyID, a.ID, contentType, file)
		if errors.Is(err, media.ErrDisabled) {
			writeError(w, apperror.New(apperror.FailedPrecondition, "photo uploads are not configured"))
			return
		}
		if err != nil {
			h.logger.Error("upload proof photo", "assignment_id", id, "error", err)
			writeError(w, err)
			return
		}
		photoURL = url
	case errors.Is(err, http.ErrMissingFile):
		// note-only proof
	default:
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid photo upload"))
		return
	}

	if photoURL == a.Proof.PhotoURL && note == "" {
		writeError(w, apperror.New(apperror.InvalidArgument, "proof needs a photo or a note"))
		return
	}

	updated, err := h.assignments.SetProof(id, photoURL, note)
	if err != nil {
		h.logger.Error("set proof", "assignment_id", id, "error", err)
		writeError(w, err)
		return
	}

	h.hub.Broadcast(updated.FamilyID, websocket.NewMessage("assignment", "proof_added", updated.ID, nil))
	writeJSON(w, http.StatusOK, updated)
}
