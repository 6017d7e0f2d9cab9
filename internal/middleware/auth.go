package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/chorezilla/internal/auth"
)

// RequireAuth verifies the bearer token and stores the caller's user id in
// the request context. Requests without a valid token get a 401 with the
// unauthenticated error kind.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				unauthenticated(w)
				return
			}

			uid, err := auth.Verify(secret, token)
			if err != nil {
				unauthenticated(w)
				return
			}

			ctx := auth.WithUserID(r.Context(), uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "sign in required",
		"kind":  "unauthenticated",
	})
}
