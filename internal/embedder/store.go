package embedder

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio"
)

var (
	// ErrConfigRead marks a persisted configuration that exists but cannot
	// be parsed.
	ErrConfigRead = errors.New("cannot read embedder configuration")
	// ErrConfigWrite marks a failed configuration update. The prior
	// configuration stays active.
	ErrConfigWrite = errors.New("cannot write embedder configuration")
)

// Store reads and writes the persisted embedding configuration with a
// backup-before-overwrite discipline. It holds no state beyond the file
// path: every deployment constructs one Store and passes it by handle.
//
// Update is deliberately not guarded by a lock. Two overlapping updates can
// interleave their backup-then-write steps, leaving backup fidelity
// undefined; callers needing stronger guarantees serialize externally.
type Store struct {
	path string
	log  *slog.Logger
}

// NewStore returns a Store over the configuration file at path.
func NewStore(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{path: path, log: log}
}

// Path returns the primary configuration file path.
func (s *Store) Path() string { return s.path }

// BackupPath returns the fixed sibling path holding the single retained
// backup, clobbered on every successful update.
func (s *Store) BackupPath() string { return s.path + ".bak" }

// Exists reports whether a configuration file has been persisted yet.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// HasBackup reports whether a backup from a prior update exists.
func (s *Store) HasBackup() bool {
	_, err := os.Stat(s.BackupPath())
	return err == nil
}

// Current returns the persisted configuration document. A missing file is
// not an error: the built-in defaults are returned. A file that exists but
// cannot be parsed is ErrConfigRead.
func (s *Store) Current() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigRead, s.path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON in %s: %w", ErrConfigRead, s.path, err)
	}
	return &doc, nil
}

// Update replaces the active configuration with doc. If a configuration file
// exists it is first copied verbatim to the backup path, overwriting any
// prior backup. The primary write goes through a temp-file rename, so a torn
// primary is never observable; the backup/primary pair itself is not
// transactional — a crash between the two writes leaves a fresh backup next
// to the old primary.
func (s *Store) Update(doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}

	prior, err := os.ReadFile(s.path)
	if err == nil {
		if err := os.WriteFile(s.BackupPath(), prior, 0o644); err != nil {
			return fmt.Errorf("%w: cannot back up %s: %w", ErrConfigWrite, s.path, err)
		}
		s.log.Info("backed up embedder configuration", "path", s.BackupPath())
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: %s: %w", ErrConfigWrite, s.path, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfigWrite, s.path, err)
	}
	s.log.Info("updated embedder configuration",
		"path", s.path,
		"model", doc.Embedder.ModelKwargs.Model,
		"client_class", doc.Embedder.ClientClass)
	return nil
}
