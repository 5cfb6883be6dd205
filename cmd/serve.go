package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/asyncfuncai/deepwiki-cli/internal/config"
	"github.com/asyncfuncai/deepwiki-cli/internal/embedder"
	"github.com/asyncfuncai/deepwiki-cli/internal/runner"
	"github.com/asyncfuncai/deepwiki-cli/internal/server"
	"github.com/asyncfuncai/deepwiki-cli/internal/switcher"
	"github.com/asyncfuncai/deepwiki-cli/internal/wikicache"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wiki cache and embedding API over HTTP",
	Long: `Start the JSON API the DeepWiki front-end talks to. Only one serve
process may run per user; a lock file under the config directory enforces
this.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from settings or $PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	unlock, err := acquireServeLock()
	if err != nil {
		return err
	}
	defer unlock()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	path, err := config.EmbedderConfigPath()
	if err != nil {
		return err
	}
	store := embedder.NewStore(path, log)
	wiki := wikicache.NewStore(cfg.WikiCacheDir, log)
	run := runner.System{Timeout: cfg.CommandTimeout()}
	sw := switcher.New(store, switcher.NewChecker(run, log), run, log)
	srv := server.New(cfg, wiki, store, sw, log)

	addr := resolveServeAddr(flagServeAddr, os.Getenv("PORT"), cfg.ServerAddr)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Config updates may install a model synchronously; give them room.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	printOK("", fmt.Sprintf("deepwiki API listening on %s", addr))
	log.Info("serving", "addr", addr, "wiki_cache_dir", cfg.WikiCacheDir)
	return httpSrv.ListenAndServe()
}

// resolveServeAddr picks the listen address: explicit flag first, then $PORT
// (the deployment convention the original service used), then the settings
// file.
func resolveServeAddr(flagAddr, portEnv, cfgAddr string) string {
	if flagAddr != "" {
		return flagAddr
	}
	if portEnv != "" {
		if _, err := strconv.Atoi(portEnv); err == nil {
			return ":" + portEnv
		}
	}
	if cfgAddr != "" {
		return cfgAddr
	}
	return ":8001"
}

// acquireServeLock takes the single-instance lock. A second serve fails
// immediately instead of fighting over the port.
func acquireServeLock() (func(), error) {
	lockPath, err := config.ServeLockPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create lock directory: %w", err)
	}

	l := flock.New(lockPath)
	locked, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("cannot acquire serve lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another deepwiki serve is running (lock: %s)", lockPath)
	}
	return func() { _ = l.Unlock() }, nil
}
