package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorezilla/internal/apperror"
	"github.com/dukerupert/chorezilla/internal/auth"
	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/dukerupert/chorezilla/internal/store"
)

type FamilyHandler struct {
	families *store.FamilyStore
	members  *store.MemberStore
	users    *store.UserStore
	logger   *slog.Logger
}

func NewFamilyHandler(families *store.FamilyStore, members *store.MemberStore, users *store.UserStore, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{families: families, members: members, users: users, logger: logger}
}

// Create handles POST /api/families. The creator becomes the family's first
// parent and gets a member row on this device.
func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		writeError(w, apperror.New(apperror.Unauthenticated, "sign in required"))
		return
	}

	var req struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid JSON"))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, apperror.New(apperror.InvalidArgument, "missing name"))
		return
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = "Parent"
	}

	fam, err := h.families.Create(name)
	if err != nil {
		h.logger.Error("create family", "error", err)
		writeError(w, err)
		return
	}

	if err := h.families.AddParent(fam.ID, uid); err != nil {
		h.logger.Error("add creator to parent set", "family_id", fam.ID, "error", err)
		writeError(w, err)
		return
	}

	if _, err := h.users.UpsertProfile(uid, displayName, model.RoleParent, fam.ID); err != nil {
		h.logger.Error("upsert creator profile", "family_id", fam.ID, "error", err)
		writeError(w, err)
		return
	}

	if _, err := h.members.Create(fam.ID, displayName, model.RoleParent, "🦄", true); err != nil {
		h.logger.Error("create creator member row", "family_id", fam.ID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, fam)
}

// Get handles GET /api/families/{id}.
func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		writeError(w, apperror.New(apperror.Unauthenticated, "sign in required"))
		return
	}

	fam, err := h.families.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get family", "error", err)
		writeError(w, err)
		return
	}
	if fam == nil {
		writeError(w, apperror.New(apperror.NotFound, "family not found"))
		return
	}

	parentIDs, err := h.families.ListParentIDs(fam.ID)
	if err != nil {
		h.logger.Error("list parent ids", "family_id", fam.ID, "error", err)
		writeError(w, err)
		return
	}
	if parentIDs == nil {
		parentIDs = []string{}
	}

	writeJSON(w, http.StatusOK, struct {
		*model.Family
		ParentIDs []string `json:"parent_ids"`
	}{fam, parentIDs})
}

// Delete handles DELETE /api/families/{id}. Parents only. Outstanding
// invite codes are left behind and fail at redeem time instead.
func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		writeError(w, apperror.New(apperror.Unauthenticated, "sign in required"))
		return
	}

	id := r.PathValue("id")
	fam, err := h.families.GetByID(id)
	if err != nil {
		h.logger.Error("get family", "family_id", id, "error", err)
		writeError(w, err)
		return
	}
	if fam == nil {
		writeError(w, apperror.New(apperror.NotFound, "family not found"))
		return
	}

	isParent, err := h.families.IsParent(id, uid)
	if err != nil {
		h.logger.Error("check parent", "family_id", id, "error", err)
		writeError(w, err)
		return
	}
	if !isParent {
		writeError(w, apperror.New(apperror.PermissionDenied, "parents only"))
		return
	}

	if err := h.families.Delete(id); err != nil {
		h.logger.Error("delete family", "family_id", id, "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
