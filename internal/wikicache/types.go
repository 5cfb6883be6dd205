// Package wikicache is the durable, file-backed store of generated wiki
// artifacts, keyed by repository identity and language. One JSON file per
// key; entries are never auto-expired, even when a model switch makes their
// embeddings dimensionally stale.
package wikicache

// Page is one generated wiki page.
type Page struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	FilePaths    []string `json:"filePaths"`
	Importance   string   `json:"importance"`
	RelatedPages []string `json:"relatedPages"`
}

// Section groups pages inside the wiki tree.
type Section struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Pages       []string `json:"pages"`
	Subsections []string `json:"subsections,omitempty"`
}

// Structure is the overall wiki layout for one repository.
type Structure struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Pages        []Page    `json:"pages"`
	Sections     []Section `json:"sections,omitempty"`
	RootSections []string  `json:"rootSections,omitempty"`
}

// RepoInfo describes the source repository an artifact was generated from.
type RepoInfo struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	Type      string `json:"type"`
	Token     string `json:"token,omitempty"`
	LocalPath string `json:"localPath,omitempty"`
	RepoURL   string `json:"repoUrl,omitempty"`
}

// Entry is the cached artifact for one repository+language pair. Page ids in
// GeneratedPages are expected to match those referenced by WikiStructure,
// but this is not enforced here.
type Entry struct {
	WikiStructure  Structure       `json:"wiki_structure"`
	GeneratedPages map[string]Page `json:"generated_pages"`
	// RepoURL is kept for caches written before RepoInfo existed.
	RepoURL  string    `json:"repo_url,omitempty"`
	Repo     *RepoInfo `json:"repo,omitempty"`
	Provider string    `json:"provider,omitempty"`
	Model    string    `json:"model,omitempty"`
}

// Project is one row of the processed-projects listing: a cache entry seen
// through its filename and modification time, without opening the file.
type Project struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Name        string `json:"name"`
	RepoType    string `json:"repo_type"`
	SubmittedAt int64  `json:"submittedAt"`
	Language    string `json:"language"`
}

// Key rebuilds the cache key addressing this project's entry.
func (p Project) Key() Key {
	return Key{Owner: p.Owner, Repo: p.Repo, RepoType: p.RepoType, Language: p.Language}
}
