package server

import (
	"encoding/json"
	"net/http"
)

// writeJSON sends v as the whole response body. A nil v encodes as a JSON
// null, which the wiki cache GET relies on for its miss contract.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the {"detail": ...} error shape the front-end was built
// against.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
