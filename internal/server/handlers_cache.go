package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/asyncfuncai/deepwiki-cli/internal/wikicache"
)

// cacheKeyFromQuery decodes the (owner, repo, repo_type, language) tuple
// every wiki cache route is parameterized by. The language is returned raw;
// each handler decides between fallback and rejection.
func cacheKeyFromQuery(r *http.Request) (wikicache.Key, error) {
	q := r.URL.Query()
	k := wikicache.Key{
		Owner:    q.Get("owner"),
		Repo:     q.Get("repo"),
		RepoType: q.Get("repo_type"),
		Language: q.Get("language"),
	}
	if k.Owner == "" || k.Repo == "" || k.RepoType == "" || k.Language == "" {
		return k, errors.New("owner, repo, repo_type and language are required")
	}
	return k, nil
}

// handleGetWikiCache serves one cached wiki. A miss is 200 with a null body,
// not 404: the front-end treats null as "generate from scratch".
func (s *Server) handleGetWikiCache(w http.ResponseWriter, r *http.Request) {
	k, err := cacheKeyFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	k.Language = s.cfg.Languages.Normalize(k.Language)

	entry, err := s.wiki.Get(k)
	if err != nil {
		s.log.Info("wiki cache miss", "key", k.String())
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// wikiCacheRequest is the POST body: the generated artifact plus the key
// fields it is stored under.
type wikiCacheRequest struct {
	Repo           wikicache.RepoInfo        `json:"repo"`
	Language       string                    `json:"language"`
	WikiStructure  wikicache.Structure       `json:"wiki_structure"`
	GeneratedPages map[string]wikicache.Page `json:"generated_pages"`
	Provider       string                    `json:"provider"`
	Model          string                    `json:"model"`
}

func (s *Server) handleStoreWikiCache(w http.ResponseWriter, r *http.Request) {
	var req wikiCacheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Repo.Owner == "" || req.Repo.Repo == "" || req.Repo.Type == "" {
		writeError(w, http.StatusBadRequest, "repo owner, repo and type are required")
		return
	}

	k := wikicache.Key{
		Owner:    req.Repo.Owner,
		Repo:     req.Repo.Repo,
		RepoType: req.Repo.Type,
		Language: s.cfg.Languages.Normalize(req.Language),
	}
	entry := &wikicache.Entry{
		WikiStructure:  req.WikiStructure,
		GeneratedPages: req.GeneratedPages,
		Repo:           &req.Repo,
		Provider:       req.Provider,
		Model:          req.Model,
	}
	if err := s.wiki.Put(k, entry); err != nil {
		s.log.Error("cannot save wiki cache", "key", k.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save wiki cache")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Wiki cache saved successfully"})
}

func (s *Server) handleDeleteWikiCache(w http.ResponseWriter, r *http.Request) {
	k, err := cacheKeyFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Deletes reject unsupported languages instead of falling back: a
	// fallback would silently delete a different entry than asked for.
	if !s.cfg.Languages.Supports(k.Language) {
		writeError(w, http.StatusBadRequest, "Language is not supported")
		return
	}
	if s.authMode {
		if r.URL.Query().Get("authorization_code") != s.authCode {
			writeError(w, http.StatusUnauthorized, "Authorization code is invalid")
			return
		}
	}

	if err := s.wiki.Delete(k); err != nil {
		if errors.Is(err, wikicache.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Wiki cache not found")
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete wiki cache: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Wiki cache for %s/%s (%s) deleted successfully", k.Owner, k.Repo, k.Language),
	})
}

func (s *Server) handleProcessedProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.wiki.List()
	if err != nil {
		s.log.Error("cannot list processed projects", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list processed projects from server cache.")
		return
	}
	if projects == nil {
		projects = []wikicache.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}
