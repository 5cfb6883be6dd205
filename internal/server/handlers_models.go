package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/asyncfuncai/deepwiki-cli/internal/catalog"
	"github.com/asyncfuncai/deepwiki-cli/internal/embedder"
	"github.com/asyncfuncai/deepwiki-cli/internal/switcher"
)

func (s *Server) handleEmbeddingModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.All())
}

func (s *Server) handleMigrationPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Presets())
}

func (s *Server) handleCurrentConfig(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Current()
	if err != nil {
		s.log.Error("cannot read embedder configuration", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch current embedding configuration")
		return
	}

	dims := doc.Embedder.ModelKwargs.Dimensions
	if dims == 0 {
		// Local providers omit dimensions; every local model in the
		// catalog is baseline-width.
		dims = catalog.BaselineDimensions
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"model":        doc.Embedder.ModelKwargs.Model,
		"provider":     doc.Embedder.ProviderName(),
		"client_class": doc.Embedder.ClientClass,
		"dimensions":   dims,
		"config":       doc,
	})
}

// updateConfigRequest selects the target model; the server derives the full
// configuration from the catalog rather than accepting raw config JSON.
type updateConfigRequest struct {
	ModelID string `json:"model_id"`
	Force   bool   `json:"force"`
}

// handleUpdateConfig runs a model switch and maps its typed failures:
// unknown model 404, incompatible dimensions 409, unavailable or failed
// install 502, write failure 500.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ModelID == "" {
		writeError(w, http.StatusBadRequest, "model_id is required")
		return
	}

	out, err := s.sw.Switch(r.Context(), req.ModelID, req.Force)
	if err != nil {
		s.log.Warn("embedding config update failed", "model", req.ModelID, "error", err)
		switch {
		case errors.Is(err, catalog.ErrUnknownModel):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, switcher.ErrIncompatibleDimension):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, switcher.ErrNotAvailable), errors.Is(err, switcher.ErrInstallationFailed):
			writeError(w, http.StatusBadGateway, err.Error())
		case errors.Is(err, embedder.ErrConfigWrite):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update embedding configuration")
		}
		return
	}

	doc, err := s.store.Current()
	if err != nil {
		// The switch committed; reading it back is best-effort.
		s.log.Warn("cannot read back embedder configuration", "error", err)
	}
	resp := map[string]any{
		"success": true,
		"message": "Embedding configuration updated successfully",
		"model":   out.Model.ID,
		"config":  doc,
	}
	if advice := switcher.Advise(out); advice != "" {
		resp["warning"] = advice
	}
	writeJSON(w, http.StatusOK, resp)
}
