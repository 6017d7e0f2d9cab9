package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dukerupert/chorezilla/internal/apperror"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an application error to its HTTP status and JSON body.
// Unclassified errors become an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal error",
			"kind":  string(apperror.Internal),
		})
		return
	}
	writeJSON(w, apperror.HTTPStatus(ae.Kind), map[string]string{
		"error": ae.Message,
		"kind":  string(ae.Kind),
	})
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
