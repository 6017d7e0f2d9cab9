package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorezilla/internal/apperror"
	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/dukerupert/chorezilla/internal/store"
	"github.com/dukerupert/chorezilla/internal/websocket"
	"golang.org/x/crypto/bcrypt"
)

type MemberHandler struct {
	members *store.MemberStore
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewMemberHandler(members *store.MemberStore, hub *websocket.Hub, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{members: members, hub: hub, logger: logger}
}

// List handles GET /api/families/{id}/members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.ListByFamily(r.PathValue("id"))
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeError(w, err)
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

// Create handles POST /api/families/{id}/members — parents adding kids (or
// other profiles) to the family.
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("id")

	var req struct {
		Name           string `json:"name"`
		Role           string `json:"role"`
		AvatarEmoji    string `json:"avatar_emoji"`
		UsesThisDevice bool   `json:"uses_this_device"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid JSON"))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, apperror.New(apperror.InvalidArgument, "name is required"))
		return
	}
	if req.Role != "" && req.Role != model.RoleParent && req.Role != model.RoleChild {
		writeError(w, apperror.New(apperror.InvalidArgument, "role must be parent or child"))
		return
	}

	member, err := h.members.Create(familyID, req.Name, req.Role, req.AvatarEmoji, req.UsesThisDevice)
	if err != nil {
		h.logger.Error("create member", "family_id", familyID, "error", err)
		writeError(w, err)
		return
	}

	h.hub.Broadcast(familyID, websocket.NewMessage("member", "created", member.ID, nil))
	writeJSON(w, http.StatusCreated, member)
}

// Delete handles DELETE /api/members/{id}.
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	member, err := h.members.GetByID(id)
	if err != nil {
		h.logger.Error("get member", "member_id", id, "error", err)
		writeError(w, err)
		return
	}
	if member == nil {
		writeError(w, apperror.New(apperror.NotFound, "member not found"))
		return
	}

	if err := h.members.Delete(id); err != nil {
		h.logger.Error("delete member", "member_id", id, "error", err)
		writeError(w, err)
		return
	}

	h.hub.Broadcast(member.FamilyID, websocket.NewMessage("member", "deleted", member.ID, nil))
	w.WriteHeader(http.StatusNoContent)
}

// UpdateNotifications handles PUT /api/members/{id}/notifications — the
// per-member push opt-in used by the review dispatcher.
func (h *MemberHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid JSON"))
		return
	}

	member, err := h.members.GetByID(id)
	if err != nil {
		h.logger.Error("get member", "member_id", id, "error", err)
		writeError(w, err)
		return
	}
	if member == nil {
		writeError(w, apperror.New(apperror.NotFound, "member not found"))
		return
	}

	if err := h.members.SetNotificationsEnabled(id, req.Enabled); err != nil {
		h.logger.Error("set notifications enabled", "member_id", id, "error", err)
		writeError(w, err)
		return
	}

	member.NotificationsEnabled = req.Enabled
	writeJSON(w, http.StatusOK, member)
}

// SetPIN handles POST /api/members/{id}/pin.
func (h *MemberHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid JSON"))
		return
	}

	if len(req.PIN) < 4 || len(req.PIN) > 8 || !isDigits(req.PIN) {
		writeError(w, apperror.New(apperror.InvalidArgument, "PIN must be 4-8 digits"))
		return
	}

	member, err := h.members.GetByID(id)
	if err != nil {
		h.logger.Error("get member", "member_id", id, "error", err)
		writeError(w, err)
		return
	}
	if member == nil {
		writeError(w, apperror.New(apperror.NotFound, "member not found"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash pin", "error", err)
		writeError(w, err)
		return
	}

	if err := h.members.SetPIN(id, string(hash)); err != nil {
		h.logger.Error("set pin", "member_id", id, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

// VerifyPIN handles POST /api/members/{id}/pin/verify.
func (h *MemberHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid JSON"))
		return
	}

	hash, err := h.members.GetPINHash(id)
	if err != nil {
		writeError(w, apperror.New(apperror.NotFound, "member not found"))
		return
	}
	if hash == "" {
		writeError(w, apperror.New(apperror.FailedPrecondition, "member has no PIN"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.PIN)); err != nil {
		writeError(w, apperror.New(apperror.PermissionDenied, "incorrect PIN"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// ClearPIN handles DELETE /api/members/{id}/pin.
func (h *MemberHandler) ClearPIN(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.members.ClearPIN(id); err != nil {
		h.logger.Error("clear pin", "member_id", id, "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
