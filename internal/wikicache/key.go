package wikicache

import (
	"fmt"
	"strings"
)

const (
	filePrefix = "deepwiki_cache_"
	fileSuffix = ".json"
)

// Key addresses one cached wiki artifact.
//
// Owner, RepoType, and Language contain no underscores by construction, but
// Repo may. The filename scheme is therefore only decodable by fixing the
// roles of the outer tokens and rejoining whatever sits between them.
type Key struct {
	Owner    string
	Repo     string
	RepoType string
	Language string
}

// Filename encodes the key in the legacy naming scheme,
// deepwiki_cache_{repoType}_{owner}_{repo}_{language}.json, kept so caches
// written by earlier deployments stay readable in place.
func (k Key) Filename() string {
	return fmt.Sprintf("%s%s_%s_%s_%s%s", filePrefix, k.RepoType, k.Owner, k.Repo, k.Language, fileSuffix)
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s/%s (%s)", k.RepoType, k.Owner, k.Repo, k.Language)
}

// ParseFilename decodes a cache filename back into its Key. The first token
// is the repo type, the second the owner, the last the language, and
// everything in between is the repo name with its underscores restored.
// Names with fewer than four tokens are not decodable.
func ParseFilename(name string) (Key, error) {
	stem, ok := strings.CutPrefix(name, filePrefix)
	if !ok {
		return Key{}, fmt.Errorf("cannot parse cache filename %s: missing %s prefix", name, filePrefix)
	}
	stem, ok = strings.CutSuffix(stem, fileSuffix)
	if !ok {
		return Key{}, fmt.Errorf("cannot parse cache filename %s: missing %s suffix", name, fileSuffix)
	}
	parts := strings.Split(stem, "_")
	if len(parts) < 4 {
		return Key{}, fmt.Errorf("cannot parse cache filename %s: want at least 4 tokens, got %d", name, len(parts))
	}
	return Key{
		RepoType: parts[0],
		Owner:    parts[1],
		Repo:     strings.Join(parts[2:len(parts)-1], "_"),
		Language: parts[len(parts)-1],
	}, nil
}
