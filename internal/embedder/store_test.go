package embedder

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "embedder.json"), nil)
}

func TestCurrent_MissingFileReturnsDefaults(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "OllamaClient", doc.Embedder.ClientClass)
	assert.Equal(t, "nomic-embed-text", doc.Embedder.ModelKwargs.Model)
	assert.False(t, s.Exists())
}

func TestCurrent_MalformedFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	_, err := s.Current()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigRead))
}

func TestUpdate_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	doc := &Document{
		Embedder: Embedder{
			ClientClass: "OpenAIClient",
			ModelKwargs: ModelKwargs{Model: "text-embedding-3-small", Dimensions: 768},
		},
	}
	require.NoError(t, s.Update(doc))

	got, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestUpdate_FirstWriteCreatesNoBackup(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Update(Defaults()))
	assert.True(t, s.Exists())
	assert.False(t, s.HasBackup())
}

func TestUpdate_BackupEqualsPriorConfig(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Update(Defaults()))
	prior, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	next := &Document{
		Embedder: Embedder{
			ClientClass: "OpenAIClient",
			ModelKwargs: ModelKwargs{Model: "text-embedding-3-small", Dimensions: 768},
		},
	}
	require.NoError(t, s.Update(next))

	backup, err := os.ReadFile(s.BackupPath())
	require.NoError(t, err)
	assert.Equal(t, prior, backup, "backup must hold the configuration active before the update")
}

func TestUpdate_KeepsSingleBackup(t *testing.T) {
	s := newTestStore(t)

	first := Defaults()
	second := &Document{Embedder: Embedder{ClientClass: "GoogleEmbedderClient", ModelKwargs: ModelKwargs{Model: "text-embedding-004", Dimensions: 768}}}
	third := &Document{Embedder: Embedder{ClientClass: "HuggingFaceClient", ModelKwargs: ModelKwargs{Model: "all-mpnet-base-v2"}}}

	require.NoError(t, s.Update(first))
	require.NoError(t, s.Update(second))
	require.NoError(t, s.Update(third))

	// The backup reflects the second update, not the first.
	backup, err := os.ReadFile(s.BackupPath())
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(backup, &doc))
	assert.Equal(t, "text-embedding-004", doc.Embedder.ModelKwargs.Model)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "only the primary and one backup may exist")
}

func TestUpdate_RewriteIsByteIdentical(t *testing.T) {
	s := newTestStore(t)

	doc := Defaults()
	require.NoError(t, s.Update(doc))
	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	require.NoError(t, s.Update(doc))
	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUpdate_CarriesForeignSections(t *testing.T) {
	s := newTestStore(t)

	body := `{
  "embedder": {"client_class": "OllamaClient", "model_kwargs": {"model": "nomic-embed-text"}},
  "retriever": {"top_k": 20},
  "text_splitter": {"split_by": "word", "chunk_size": 350}
}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(body), 0o644))

	doc, err := s.Current()
	require.NoError(t, err)
	doc.Embedder = Embedder{
		ClientClass: "OpenAIClient",
		ModelKwargs: ModelKwargs{Model: "text-embedding-3-small", Dimensions: 768},
	}
	require.NoError(t, s.Update(doc))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Contains(t, out, "retriever")
	assert.Contains(t, out, "text_splitter")
	assert.JSONEq(t, `{"top_k": 20}`, string(out["retriever"]))
}

func TestProviderName(t *testing.T) {
	cases := []struct {
		class string
		want  string
	}{
		{"OllamaClient", "ollama"},
		{"OpenAIClient", "openai"},
		{"GoogleEmbedderClient", "google"},
		{"HuggingFaceClient", "huggingface"},
		{"SomethingElse", "unknown"},
	}
	for _, c := range cases {
		e := Embedder{ClientClass: c.class}
		assert.Equal(t, c.want, e.ProviderName(), "class %s", c.class)
	}
}
