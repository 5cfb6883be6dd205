// Package switcher orchestrates embedding model changes: it gates them on
// dimensional compatibility, ensures the target model is actually usable
// (installing it when possible), and commits the new configuration through
// the embedder store.
package switcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/asyncfuncai/deepwiki-cli/internal/catalog"
	"github.com/asyncfuncai/deepwiki-cli/internal/embedder"
	"github.com/asyncfuncai/deepwiki-cli/internal/runner"
)

// State is the phase a switch reached.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateRejected
	StateInstalling
	StateInstallFailed
	StateConfiguring
	StateConfigured
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateValidating:    "validating",
	StateRejected:      "rejected",
	StateInstalling:    "installing",
	StateInstallFailed: "install-failed",
	StateConfiguring:   "configuring",
	StateConfigured:    "configured",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome reports what a switch did. State is always set, including on
// failures, so callers can tell a rejected switch from a failed install.
type Outcome struct {
	Model         catalog.Descriptor
	State         State
	PreviousModel string
	Installed     bool
	Forced        bool
}

// local model pulls need roughly a gigabyte free
const minInstallBytes = 1 << 30

// Switcher coordinates the catalog, the availability checker, and the
// config store. Construct one per process and pass it by handle; it holds
// no hidden global state.
type Switcher struct {
	store    *embedder.Store
	check    *Checker
	run      runner.Runner
	log      *slog.Logger
	diskFree func(path string) (uint64, error)
}

// New returns a Switcher committing through store, probing through check,
// and installing through r.
func New(store *embedder.Store, check *Checker, r runner.Runner, log *slog.Logger) *Switcher {
	if log == nil {
		log = slog.Default()
	}
	return &Switcher{
		store:    store,
		check:    check,
		run:      r,
		log:      log,
		diskFree: freeBytes,
	}
}

// Switch changes the active embedding model to modelID.
//
//  1. Resolve the descriptor; unknown ids fail with no side effects.
//  2. Read the current configuration, for logging only.
//  3. Gate on compatibility unless forced.
//  4. If the model is unavailable, install it (synchronous, no retry);
//     models with nothing to install fail with ErrNotAvailable.
//  5. Build the new embedder section; foreign document sections carry over.
//  6. Commit through the store (backup-before-overwrite).
//
// Switching to the already-active compatible model succeeds with a
// byte-identical persisted configuration.
func (s *Switcher) Switch(ctx context.Context, modelID string, force bool) (Outcome, error) {
	out := Outcome{State: StateValidating, Forced: force}

	d, err := catalog.Find(modelID)
	if err != nil {
		out.State = StateRejected
		return out, err
	}
	out.Model = d

	cur, err := s.store.Current()
	if err != nil {
		// Not a decision input: a broken current file must not block the
		// switch that would repair it.
		s.log.Warn("cannot read current configuration", "error", err)
		cur = embedder.Defaults()
	}
	out.PreviousModel = cur.Embedder.ModelKwargs.Model
	s.log.Info("switching embedding model", "from", out.PreviousModel, "to", d.ID)

	if !d.Compatible && !force {
		out.State = StateRejected
		return out, fmt.Errorf("%w: %s produces %dD vectors, index baseline is %dD (compatible models: %s)",
			ErrIncompatibleDimension, d.ID, d.Dimensions, catalog.BaselineDimensions,
			strings.Join(catalog.CompatibleIDs(), ", "))
	}

	if !s.check.Available(ctx, d) {
		if d.InstallCmd == "" {
			// Nothing to install: cloud models become available by setting
			// their credential, not by running a directive.
			out.State = StateRejected
			if env := d.Provider.CredentialEnv(); env != "" {
				return out, fmt.Errorf("%w: %s (set %s and retry)", ErrNotAvailable, d.ID, env)
			}
			return out, fmt.Errorf("%w: %s", ErrNotAvailable, d.ID)
		}
		out.State = StateInstalling
		s.log.Info("model not available, attempting install", "model", d.ID)
		if _, err := s.Install(ctx, d); err != nil {
			out.State = StateInstallFailed
			return out, err
		}
		out.Installed = true
	}

	out.State = StateConfiguring
	next := *cur
	next.Embedder = buildEmbedder(d)
	if err := s.store.Update(&next); err != nil {
		return out, err
	}
	out.State = StateConfigured
	s.log.Info("switched embedding model", "model", d.ID, "forced", force)
	return out, nil
}

// Install runs the descriptor's install directive through the runner.
// Models without a directive are API-based and need no installation; the
// bool reports whether an install actually ran. Local installs are preceded
// by a free-disk preflight.
func (s *Switcher) Install(ctx context.Context, d catalog.Descriptor) (bool, error) {
	if d.InstallCmd == "" {
		s.log.Info("model is API-based and needs no installation", "model", d.ID)
		return false, nil
	}

	fields := strings.Fields(d.InstallCmd)
	if len(fields) == 0 {
		return false, fmt.Errorf("%w: empty install directive for %s", ErrInstallationFailed, d.ID)
	}

	if d.Provider.Local() {
		if home, err := os.UserHomeDir(); err == nil {
			if free, err := s.diskFree(home); err == nil && free < minInstallBytes {
				return false, fmt.Errorf("%w: insufficient free disk space (%d MB available)",
					ErrInstallationFailed, free>>20)
			}
		}
	}

	s.log.Info("installing model", "model", d.ID, "directive", d.InstallCmd)
	if err := s.run.Run(ctx, fields[0], fields[1:]...); err != nil {
		return false, fmt.Errorf("%w: %q: %w", ErrInstallationFailed, d.InstallCmd, err)
	}
	s.log.Info("installed model", "model", d.ID)
	return true, nil
}

// buildEmbedder maps a descriptor onto the persisted embedder section.
// Cloud providers record the dimensionality explicitly because their APIs
// can serve several widths for one model; local providers have a fixed
// width and omit it.
func buildEmbedder(d catalog.Descriptor) embedder.Embedder {
	kwargs := embedder.ModelKwargs{Model: d.ModelName()}
	if !d.Provider.Local() {
		kwargs.Dimensions = d.Dimensions
	}
	return embedder.Embedder{
		ClientClass: d.Provider.ClientClass(),
		ModelKwargs: kwargs,
	}
}
