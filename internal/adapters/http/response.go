package http

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError emits the flat failure shape every endpoint but the
// product validation check uses.
func writeError(w http.ResponseWriter, statusCode int, label, message string) {
	writeJSON(w, statusCode, map[string]any{
		"error":   label,
		"message": message,
	})
}
