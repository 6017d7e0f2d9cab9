package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/chorezilla/internal/apperror"
	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/dukerupert/chorezilla/internal/push"
	"github.com/dukerupert/chorezilla/internal/store"
)

type PushHandler struct {
	subs    *store.PushStore
	members *store.MemberStore
	service *push.Service
	logger  *slog.Logger
}

func NewPushHandler(subs *store.PushStore, members *store.MemberStore, service *push.Service, logger *slog.Logger) *PushHandler {
	return &PushHandler{subs: subs, members: members, service: service, logger: logger}
}

// VAPIDKey handles GET /api/push/vapid-key. Public so the service worker can
// subscribe before the user has signed in on this device.
func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"public_key": h.service.VAPIDPublicKey(),
	})
}

// Subscribe handles POST /api/push/subscribe.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID   string `json:"member_id"`
		Endpoint   string `json:"endpoint"`
		P256dh     string `json:"p256dh"`
		Auth       string `json:"auth"`
		DeviceName string `json:"device_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid JSON"))
		return
	}

	req.Endpoint = strings.TrimSpace(req.Endpoint)
	if req.MemberID == "" || req.Endpoint == "" || req.P256dh == "" || req.Auth == "" {
		writeError(w, apperror.New(apperror.InvalidArgument, "missing subscription fields"))
		return
	}

	member, err := h.members.GetByID(req.MemberID)
	if err != nil {
		h.logger.Error("get member", "member_id", req.MemberID, "error", err)
		writeError(w, err)
		return
	}
	if member == nil {
		writeError(w, apperror.New(apperror.NotFound, "member not found"))
		return
	}

	sub, err := h.subs.CreateSubscription(member.ID, member.FamilyID, req.Endpoint, req.P256dh, req.Auth, req.DeviceName)
	if err != nil {
		h.logger.Error("create push subscription", "member_id", req.MemberID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// ListByFamily handles GET /api/families/{id}/push-subscriptions. Key
// material stays out of the JSON; this is for device management UIs.
func (h *PushHandler) ListByFamily(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subs.ListByFamily(r.PathValue("id"))
	if err != nil {
		h.logger.Error("list push subscriptions", "error", err)
		writeError(w, err)
		return
	}
	if subs == nil {
		subs = []model.PushSubscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// Unsubscribe handles DELETE /api/push/subscriptions/{id}.
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid subscription id"))
		return
	}

	if err := h.subs.DeleteSubscription(id); err != nil {
		h.logger.Error("delete push subscription", "subscription_id", id, "error", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
