package switcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asyncfuncai/deepwiki-cli/internal/catalog"
	"github.com/asyncfuncai/deepwiki-cli/internal/embedder"
)

// fakeRunner scripts external command behavior per "name arg arg..." key.
type fakeRunner struct {
	lookOK map[string]bool
	out    map[string]string
	outErr map[string]error
	runErr map[string]error
	ran    []string
}

func (f *fakeRunner) Look(name string) bool { return f.lookOK[name] }

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	return f.out[key], f.outErr[key]
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	key := strings.Join(append([]string{name}, args...), " ")
	f.ran = append(f.ran, key)
	return f.runErr[key]
}

func newTestSwitcher(t *testing.T, fr *fakeRunner, cred map[string]string) (*Switcher, *embedder.Store) {
	t.Helper()
	store := embedder.NewStore(filepath.Join(t.TempDir(), "embedder.json"), nil)
	c := NewChecker(fr, nil)
	c.cred = func(key string) (string, error) { return cred[key], nil }
	s := New(store, c, fr, nil)
	s.diskFree = func(string) (uint64, error) { return 10 << 30, nil }
	return s, store
}

func TestSwitch_UnknownModel(t *testing.T) {
	s, store := newTestSwitcher(t, &fakeRunner{}, nil)

	out, err := s.Switch(context.Background(), "openai_gpt-5", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnknownModel))
	assert.Equal(t, StateRejected, out.State)
	assert.False(t, store.Exists(), "unknown model must leave no side effects")
}

func TestSwitch_RejectsIncompatibleWithoutForce(t *testing.T) {
	s, store := newTestSwitcher(t, &fakeRunner{}, map[string]string{"OPENAI_API_KEY": "sk-x"})
	require.NoError(t, store.Update(embedder.Defaults()))
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	out, err := s.Switch(context.Background(), "openai_text-embedding-3-large", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompatibleDimension))
	assert.Equal(t, StateRejected, out.State)
	assert.Contains(t, err.Error(), "ollama_nomic-embed-text", "message should list compatible alternatives")

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "rejected switch must not mutate the configuration")
}

func TestSwitch_ForcedIncompatibleUpdatesConfig(t *testing.T) {
	s, store := newTestSwitcher(t, &fakeRunner{}, map[string]string{"OPENAI_API_KEY": "sk-x"})
	require.NoError(t, store.Update(embedder.Defaults()))

	out, err := s.Switch(context.Background(), "openai_text-embedding-3-large", true)
	require.NoError(t, err)
	assert.Equal(t, StateConfigured, out.State)
	assert.True(t, out.Forced)

	doc, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, "OpenAIClient", doc.Embedder.ClientClass)
	assert.Equal(t, "text-embedding-3-large", doc.Embedder.ModelKwargs.Model)
	assert.Equal(t, 3072, doc.Embedder.ModelKwargs.Dimensions)
}

func TestSwitch_ActiveModelIsByteIdentical(t *testing.T) {
	fr := &fakeRunner{out: map[string]string{
		"ollama list": "NAME                    ID      SIZE    MODIFIED\nnomic-embed-text:latest abc123  274 MB  2 days ago",
	}}
	s, store := newTestSwitcher(t, fr, nil)
	require.NoError(t, store.Update(embedder.Defaults()))
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	out, err := s.Switch(context.Background(), "ollama_nomic-embed-text", false)
	require.NoError(t, err)
	assert.Equal(t, StateConfigured, out.State)
	assert.False(t, out.Installed)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "re-switching to the active model must be byte-identical")
}

func TestSwitch_InstallsUnavailableLocalModel(t *testing.T) {
	fr := &fakeRunner{out: map[string]string{"ollama list": "NAME  ID  SIZE  MODIFIED"}}
	s, store := newTestSwitcher(t, fr, nil)

	out, err := s.Switch(context.Background(), "ollama_nomic-embed-text", false)
	require.NoError(t, err)
	assert.Equal(t, StateConfigured, out.State)
	assert.True(t, out.Installed)
	assert.Contains(t, fr.ran, "ollama pull nomic-embed-text")

	doc, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, "OllamaClient", doc.Embedder.ClientClass)
	assert.Equal(t, 0, doc.Embedder.ModelKwargs.Dimensions, "local providers omit dimensions")
}

func TestSwitch_InstallFailure(t *testing.T) {
	fr := &fakeRunner{
		out:    map[string]string{"ollama list": ""},
		runErr: map[string]error{"ollama pull nomic-embed-text": errors.New("exit status 1")},
	}
	s, store := newTestSwitcher(t, fr, nil)

	out, err := s.Switch(context.Background(), "ollama_nomic-embed-text", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInstallationFailed))
	assert.Equal(t, StateInstallFailed, out.State)
	assert.False(t, store.Exists(), "failed install must leave the configuration untouched")
}

func TestSwitch_CloudModelWithCredential(t *testing.T) {
	s, store := newTestSwitcher(t, &fakeRunner{}, map[string]string{"OPENAI_API_KEY": "sk-x"})

	out, err := s.Switch(context.Background(), "openai_text-embedding-3-small", false)
	require.NoError(t, err)
	assert.Equal(t, StateConfigured, out.State)
	assert.False(t, out.Installed)

	doc, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", doc.Embedder.ModelKwargs.Model)
	assert.Equal(t, 768, doc.Embedder.ModelKwargs.Dimensions)
}

func TestSwitch_CloudModelWithoutCredentialFails(t *testing.T) {
	// API-based models have no install directive; with the credential
	// missing there is nothing the switcher can do.
	s, store := newTestSwitcher(t, &fakeRunner{}, nil)

	out, err := s.Switch(context.Background(), "openai_text-embedding-3-small", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotAvailable))
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Equal(t, StateRejected, out.State)
	assert.False(t, store.Exists(), "unavailable model must leave the configuration untouched")
}

func TestSwitch_InsufficientDiskBlocksLocalInstall(t *testing.T) {
	fr := &fakeRunner{out: map[string]string{"ollama list": ""}}
	s, store := newTestSwitcher(t, fr, nil)
	s.diskFree = func(string) (uint64, error) { return 100 << 20, nil }

	_, err := s.Switch(context.Background(), "ollama_nomic-embed-text", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInstallationFailed))
	assert.Contains(t, err.Error(), "disk space")
	assert.Empty(t, fr.ran, "preflight failure must skip the install command")
	assert.False(t, store.Exists())
}

func TestSwitch_CarriesForeignSections(t *testing.T) {
	s, store := newTestSwitcher(t, &fakeRunner{}, map[string]string{"GOOGLE_API_KEY": "g-x"})
	body := `{"embedder": {"client_class": "OllamaClient", "model_kwargs": {"model": "nomic-embed-text"}}, "retriever": {"top_k": 20}}`
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(body), 0o644))

	_, err := s.Switch(context.Background(), "google_text-embedding-004", false)
	require.NoError(t, err)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"top_k"`)
	assert.Contains(t, string(raw), "GoogleEmbedderClient")
}

func TestSwitch_PreviousModelRecorded(t *testing.T) {
	s, store := newTestSwitcher(t, &fakeRunner{}, map[string]string{"OPENAI_API_KEY": "sk-x"})
	require.NoError(t, store.Update(embedder.Defaults()))

	out, err := s.Switch(context.Background(), "openai_text-embedding-3-small", false)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", out.PreviousModel)
}

func TestAdvise(t *testing.T) {
	large, err := catalog.Find("openai_text-embedding-3-large")
	require.NoError(t, err)
	small, err := catalog.Find("openai_text-embedding-3-small")
	require.NoError(t, err)

	assert.Empty(t, Advise(Outcome{Model: small, State: StateConfigured}))
	assert.Empty(t, Advise(Outcome{Model: large, State: StateRejected}))

	advice := Advise(Outcome{Model: large, State: StateConfigured, Forced: true})
	assert.Contains(t, advice, "cache clear")
	assert.Contains(t, advice, "3072D")
}
