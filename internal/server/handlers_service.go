package server

import (
	"encoding/json"
	"net/http"
	"time"
)

const apiVersion = "1.0.0"

// endpointGroups is the static route inventory shown on the banner page.
// Keep it in sync with Handler.
var endpointGroups = map[string][]string{
	"Health": {"GET /health"},
	"Lang":   {"GET /lang/config"},
	"Auth": {
		"GET /auth/status",
		"POST /auth/validate",
	},
	"Api": {
		"DELETE /api/wiki_cache",
		"GET /api/processed_projects",
		"GET /api/wiki_cache",
		"POST /api/wiki_cache",
	},
	"Embedding": {
		"GET /embedding-models",
		"GET /embedding/current-config",
		"GET /migration-presets",
		"POST /embedding/update-config",
	},
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome to DeepWiki API",
		"version":   apiVersion,
		"endpoints": endpointGroups,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   serviceName,
	})
}

func (s *Server) handleLangConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"supported_languages": s.cfg.Languages.Supported,
		"default":             s.cfg.Languages.Default,
	})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"auth_required": s.authMode})
}

func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": s.authCode == req.Code})
}
