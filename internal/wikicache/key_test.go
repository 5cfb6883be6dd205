package wikicache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameEncoding(t *testing.T) {
	k := Key{Owner: "AsyncFuncAI", Repo: "deepwiki-open", RepoType: "github", Language: "en"}
	assert.Equal(t, "deepwiki_cache_github_AsyncFuncAI_deepwiki-open_en.json", k.Filename())
}

func TestParseFilenameRoundTrip(t *testing.T) {
	k := Key{Owner: "AsyncFuncAI", Repo: "deepwiki-open", RepoType: "github", Language: "en"}
	got, err := ParseFilename(k.Filename())
	require.NoError(t, err)
	assert.Equal(t, k, got)
}

func TestParseFilenameTokens(t *testing.T) {
	got, err := ParseFilename("deepwiki_cache_github_AsyncFuncAI_deepwiki-open_en.json")
	require.NoError(t, err)
	assert.Equal(t, "github", got.RepoType)
	assert.Equal(t, "AsyncFuncAI", got.Owner)
	assert.Equal(t, "deepwiki-open", got.Repo)
	assert.Equal(t, "en", got.Language)
}

func TestParseFilenameRepoWithUnderscores(t *testing.T) {
	k := Key{Owner: "octo", Repo: "my_big_repo", RepoType: "gitlab", Language: "zh-tw"}
	got, err := ParseFilename(k.Filename())
	require.NoError(t, err)
	assert.Equal(t, "my_big_repo", got.Repo)
	assert.Equal(t, "zh-tw", got.Language)
}

func TestParseFilenameRejectsShortNames(t *testing.T) {
	cases := []string{
		"deepwiki_cache_github_owner.json",    // 2 tokens
		"deepwiki_cache_github_owner_en.json", // 3 tokens
		"deepwiki_cache_.json",
	}
	for _, name := range cases {
		_, err := ParseFilename(name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestParseFilenameRejectsForeignNames(t *testing.T) {
	_, err := ParseFilename("notes_github_owner_repo_en.json")
	assert.Error(t, err)

	_, err = ParseFilename("deepwiki_cache_github_owner_repo_en.txt")
	assert.Error(t, err)
}
