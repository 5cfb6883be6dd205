package wikicache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio"
)

var (
	// ErrNotFound marks a Get or Delete against a key with no usable entry.
	ErrNotFound = errors.New("wiki cache entry not found")
	// ErrCacheWrite marks a failure to persist an entry.
	ErrCacheWrite = errors.New("cannot write wiki cache entry")
)

// Store reads and writes wiki cache entries under a single directory.
// Files are written whole via rename, so readers never observe a partial
// entry, but concurrent writers of the same key race: last writer wins.
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore returns a store rooted at dir. The directory is created lazily
// on first Put.
func NewStore(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: dir, log: log}
}

// Dir returns the directory the store operates on.
func (s *Store) Dir() string { return s.dir }

// PathFor returns the file path addressing key.
func (s *Store) PathFor(k Key) string {
	return filepath.Join(s.dir, k.Filename())
}

// Get loads the entry for key. A missing file and an unreadable or
// malformed one both come back as ErrNotFound; corruption details go to the
// log, not the caller.
func (s *Store) Get(k Key) (*Entry, error) {
	path := s.PathFor(k)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Error("cannot read wiki cache entry", "path", path, "error", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		s.log.Error("cannot parse wiki cache entry", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	return &e, nil
}

// Put serializes entry and replaces whatever the key currently holds.
// Overwrites are whole-file, never a merge.
func (s *Store) Put(k Key, e *Entry) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	path := s.PathFor(k)
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	s.log.Info("wrote wiki cache entry", "path", path, "bytes", len(data))
	return nil
}

// Delete removes the entry for key, or reports ErrNotFound when there is
// nothing to remove.
func (s *Store) Delete(k Key) error {
	path := s.PathFor(k)
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	if err != nil {
		return fmt.Errorf("cannot delete wiki cache entry %s: %w", path, err)
	}
	s.log.Info("deleted wiki cache entry", "path", path)
	return nil
}

// List enumerates every decodable cache file as a Project row, newest
// first by modification time. Filenames that do not decode are skipped and
// logged rather than failing the listing; a missing directory is an empty
// listing.
func (s *Store) List() ([]Project, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot list wiki cache directory %s: %w", s.dir, err)
	}
	var out []Project
	for _, de := range entries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		k, err := ParseFilename(name)
		if err != nil {
			s.log.Warn("skipping undecodable cache file", "file", name, "error", err)
			continue
		}
		info, err := de.Info()
		if err != nil {
			s.log.Warn("cannot stat cache file", "file", name, "error", err)
			continue
		}
		out = append(out, Project{
			ID:          name,
			Owner:       k.Owner,
			Repo:        k.Repo,
			Name:        k.Owner + "/" + k.Repo,
			RepoType:    k.RepoType,
			SubmittedAt: info.ModTime().UnixMilli(),
			Language:    k.Language,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt > out[j].SubmittedAt })
	return out, nil
}
