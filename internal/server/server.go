package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorezilla/internal/handler"
	"github.com/dukerupert/chorezilla/internal/media"
	"github.com/dukerupert/chorezilla/internal/middleware"
	"github.com/dukerupert/chorezilla/internal/notify"
	"github.com/dukerupert/chorezilla/internal/push"
	"github.com/dukerupert/chorezilla/internal/store"
	ws "github.com/dukerupert/chorezilla/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	familyH     *handler.FamilyHandler
	memberH     *handler.MemberHandler
	inviteH     *handler.InviteHandler
	assignmentH *handler.AssignmentHandler
	pushH       *handler.PushHandler
	rateLimiter *middleware.RateLimiter
	tokenSecret []byte
	logger      *slog.Logger
}

func New(db *sql.DB, pushSvc *push.Service, mediaSvc *media.Service, tokenSecret []byte, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	familyStore := store.NewFamilyStore(db)
	userStore := store.NewUserStore(db)
	memberStore := store.NewMemberStore(db)
	inviteStore := store.NewInviteStore(db)
	assignmentStore := store.NewAssignmentStore(db)
	pushStore := store.NewPushStore(db)

	dispatcher := notify.NewDispatcher(memberStore, pushStore, pushSvc, logger.With("component", "notify"))

	return &Server{
		db:          db,
		hub:         hub,
		familyH:     handler.NewFamilyHandler(familyStore, memberStore, userStore, logger.With("component", "family")),
		memberH:     handler.NewMemberHandler(memberStore, hub, logger.With("component", "member")),
		inviteH:     handler.NewInviteHandler(inviteStore, familyStore, logger.With("component", "invite")),
		assignmentH: handler.NewAssignmentHandler(assignmentStore, familyStore, dispatcher, mediaSvc, hub, logger.With("component", "assignment")),
		pushH:       handler.NewPushHandler(pushStore, memberStore, pushSvc, logger.With("component", "push_handler")),
		rateLimiter: middleware.NewRateLimiter(),
		tokenSecret: tokenSecret,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /healthz", s.healthHandler)
	outerMux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokenSecret)
	requestLogger := middleware.RequestLogger(s.logger.With("component", "http"))
	outerMux.Handle("/api/", authMiddleware(requestLogger(protectedMux)))

	return outerMux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Family routes
	mux.HandleFunc("POST /api/families", s.familyH.Create)
	mux.HandleFunc("GET /api/families/{id}", s.familyH.Get)
	mux.HandleFunc("DELETE /api/families/{id}", s.familyH.Delete)

	// Invite routes. Creation and redemption are rate limited so invite
	// codes cannot be brute-forced from a single address.
	mux.HandleFunc("POST /api/invites", s.rateLimited(s.inviteH.Create))
	mux.HandleFunc("POST /api/invites/redeem", s.rateLimited(s.inviteH.Redeem))
	mux.HandleFunc("GET /api/families/{id}/invites", s.inviteH.List)

	// Member routes
	mux.HandleFunc("GET /api/families/{id}/members", s.memberH.List)
	mux.HandleFunc("POST /api/families/{id}/members", s.memberH.Create)
	mux.HandleFunc("PUT /api/members/{id}/notifications", s.memberH.UpdateNotifications)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)

	// PIN routes
	mux.HandleFunc("POST /api/members/{id}/pin", s.memberH.SetPIN)
	mux.HandleFunc("POST /api/members/{id}/pin/verify", s.memberH.VerifyPIN)
	mux.HandleFunc("DELETE /api/members/{id}/pin", s.memberH.ClearPIN)

	// Assignment routes
	mux.HandleFunc("POST /api/assignments", s.assignmentH.Create)
	mux.HandleFunc("GET /api/assignments/{id}", s.assignmentH.Get)
	mux.HandleFunc("GET /api/families/{id}/assignments", s.assignmentH.List)
	mux.HandleFunc("PUT /api/assignments/{id}/status", s.assignmentH.UpdateStatus)
	mux.HandleFunc("POST /api/assignments/{id}/proof", s.assignmentH.UploadProof)

	// Push subscription routes
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/families/{id}/push-subscriptions", s.pushH.ListByFamily)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
}
