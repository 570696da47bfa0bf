package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes {"error": message} with the given status.
// The shape matches the handler package's error body so clients see one format.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
