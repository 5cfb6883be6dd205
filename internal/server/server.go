// Package server is the HTTP hosting layer: it exposes the wiki cache, the
// embedding model catalog, and the embedding configuration over the JSON API
// the DeepWiki front-end consumes, mapping the core's typed errors onto
// status codes. It owns no business rules of its own.
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asyncfuncai/deepwiki-cli/internal/config"
	"github.com/asyncfuncai/deepwiki-cli/internal/embedder"
	"github.com/asyncfuncai/deepwiki-cli/internal/switcher"
	"github.com/asyncfuncai/deepwiki-cli/internal/wikicache"
)

const serviceName = "deepwiki-api"

// Server wires the stores and the switcher to their HTTP routes. All
// dependencies are injected once at construction; handlers hold no other
// state.
type Server struct {
	cfg   *config.Config
	wiki  *wikicache.Store
	store *embedder.Store
	sw    *switcher.Switcher
	log   *slog.Logger

	// Auth pass-through, resolved at construction from the environment or
	// the dotenv file. When authMode is on, DELETE on the wiki cache
	// resource requires the matching code.
	authMode bool
	authCode string
}

// New returns a Server over the given handles. Auth settings resolve from
// WIKI_AUTH_MODE / WIKI_AUTH_CODE (process env first, then dotenv).
func New(cfg *config.Config, wiki *wikicache.Store, store *embedder.Store, sw *switcher.Switcher, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{cfg: cfg, wiki: wiki, store: store, sw: sw, log: log}

	if v, err := config.GetConfigValue("WIKI_AUTH_MODE"); err == nil {
		if mode, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			s.authMode = mode
		}
	}
	if v, err := config.GetConfigValue("WIKI_AUTH_CODE"); err == nil {
		s.authCode = v
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /lang/config", s.handleLangConfig)

	mux.HandleFunc("GET /auth/status", s.handleAuthStatus)
	mux.HandleFunc("POST /auth/validate", s.handleAuthValidate)

	mux.HandleFunc("GET /api/wiki_cache", s.handleGetWikiCache)
	mux.HandleFunc("POST /api/wiki_cache", s.handleStoreWikiCache)
	mux.HandleFunc("DELETE /api/wiki_cache", s.handleDeleteWikiCache)
	mux.HandleFunc("GET /api/processed_projects", s.handleProcessedProjects)

	mux.HandleFunc("GET /embedding-models", s.handleEmbeddingModels)
	mux.HandleFunc("GET /migration-presets", s.handleMigrationPresets)
	mux.HandleFunc("GET /embedding/current-config", s.handleCurrentConfig)
	mux.HandleFunc("POST /embedding/update-config", s.handleUpdateConfig)

	return s.middleware(mux)
}

// middleware tags every request with an id (honoring one supplied by the
// caller), echoes it back, and logs the request once it completes.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", id,
			"duration", time.Since(start))
	})
}
