package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/chorezilla/internal/apperror"
	"github.com/dukerupert/chorezilla/internal/auth"
	"github.com/dukerupert/chorezilla/internal/model"
	"github.com/dukerupert/chorezilla/internal/store"
)

const defaultInviteTTLHours = 72

type InviteHandler struct {
	invites  *store.InviteStore
	families *store.FamilyStore
	logger   *slog.Logger
}

func NewInviteHandler(invites *store.InviteStore, families *store.FamilyStore, logger *slog.Logger) *InviteHandler {
	return &InviteHandler{invites: invites, families: families, logger: logger}
}

// Create handles POST /api/invites. Only parents of the family may mint
// codes. A code collision surfaces as Aborted; the client retries.
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		writeError(w, apperror.New(apperror.Unauthenticated, "sign in required"))
		return
	}

	var req struct {
		FamilyID string   `json:"family_id"`
		TTLHours *float64 `json:"ttl_hours"`
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

	// The default applies only when the field is absent. A zero or negative
	// value is honored as given and mints an already-expired code.
	ttl := float64(defaultInviteTTLHours)
	if req.TTLHours != nil {
		ttl = *req.TTLHours
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

	isParent, err := h.families.IsParent(familyID, uid)
	if err != nil {
		h.logger.Error("check parent", "family_id", familyID, "error", err)
		writeError(w, err)
		return
	}
	if !isParent {
		writeError(w, apperror.New(apperror.PermissionDenied, "only parents can create invites"))
		return
	}

	code, err := store.GenerateCode()
	if err != nil {
		h.logger.Error("generate invite code", "error", err)
		writeError(w, err)
		return
	}
	expiresAt := time.Now().UTC().Add(time.Duration(ttl * float64(time.Hour)))

	inv, err := h.invites.Create(code, familyID, uid, expiresAt)
	if errors.Is(err, store.ErrCodeTaken) {
		writeError(w, apperror.New(apperror.Aborted, "code collision, try again"))
		return
	}
	if err != nil {
		h.logger.Error("create invite", "family_id", familyID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"code":       inv.Code,
		"family_id":  inv.FamilyID,
		"expires_at": inv.ExpiresAt.Format(time.RFC3339),
	})
}

// Redeem handles POST /api/invites/redeem. The whole redemption is one
// transaction in the store: the caller either joins the family completely
// or not at all, and the code is gone afterwards.
func (h *InviteHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		writeError(w, apperror.New(apperror.Unauthenticated, "sign in required"))
		return
	}

	var req struct {
		Code        string `json:"code"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.New(apperror.InvalidArgument, "invalid JSON"))
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		writeError(w, apperror.New(apperror.InvalidArgument, "missing code"))
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = "Parent"
	}

	familyID, err := h.invites.Redeem(code, uid, displayName, time.Now().UTC())
	switch {
	case errors.Is(err, store.ErrInviteNotFound):
		writeError(w, apperror.New(apperror.NotFound, "invalid invite"))
		return
	case errors.Is(err, store.ErrInviteExpired):
		writeError(w, apperror.New(apperror.FailedPrecondition, "invite expired"))
		return
	case errors.Is(err, store.ErrFamilyNotFound):
		writeError(w, apperror.New(apperror.NotFound, "family missing"))
		return
	case err != nil:
		h.logger.Error("redeem invite", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"family_id": familyID})
}

// List handles GET /api/families/{id}/invites — the family-scoped view of
// outstanding codes, for parents only.
func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		writeError(w, apperror.New(apperror.Unauthenticated, "sign in required"))
		return
	}

	familyID := r.PathValue("id")
	isParent, err := h.families.IsParent(familyID, uid)
	if err != nil {
		h.logger.Error("check parent", "family_id", familyID, "error", err)
		writeError(w, err)
		return
	}
	if !isParent {
		writeError(w, apperror.New(apperror.PermissionDenied, "only parents can list invites"))
		return
	}

	invites, err := h.invites.ListByFamily(familyID)
	if err != nil {
		h.logger.Error("list invites", "family_id", familyID, "error", err)
		writeError(w, err)
		return
	}
	if invites == nil {
		invites = []model.Invite{}
	}
	writeJSON(w, http.StatusOK, invites)
}
