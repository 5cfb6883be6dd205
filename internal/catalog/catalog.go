// Package catalog is the compiled-in registry of embedding models the
// service knows how to run, together with their compatibility against the
// fixed vector width the similarity index is built around.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// BaselineDimensions is the vector width of the similarity index. Models
// with any other output width require a full index rebuild before their
// embeddings can be searched.
const BaselineDimensions = 768

// ErrUnknownModel is returned when a model id is not in the catalog.
var ErrUnknownModel = errors.New("unknown embedding model")

// Provider identifies where an embedding model runs. The set is closed:
// every behavior that depends on the provider (availability probe, config
// construction) switches over it exhaustively.
type Provider int

const (
	Ollama Provider = iota
	OpenAI
	Google
	HuggingFace
)

var providerNames = map[Provider]string{
	Ollama:      "ollama",
	OpenAI:      "openai",
	Google:      "google",
	HuggingFace: "huggingface",
}

func (p Provider) String() string {
	if s, ok := providerNames[p]; ok {
		return s
	}
	return fmt.Sprintf("provider(%d)", int(p))
}

// MarshalText renders the provider as its wire name ("ollama", "openai", ...).
func (p Provider) MarshalText() ([]byte, error) {
	s, ok := providerNames[p]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unknown provider %d", int(p))
	}
	return []byte(s), nil
}

// UnmarshalText parses a wire name back into a Provider.
func (p *Provider) UnmarshalText(text []byte) error {
	s := string(text)
	for k, v := range providerNames {
		if v == s {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("cannot unmarshal provider %q", s)
}

// Local reports whether the provider runs models on this machine rather
// than behind a remote API.
func (p Provider) Local() bool {
	return p == Ollama || p == HuggingFace
}

// CredentialEnv returns the environment variable holding the provider's
// API credential, or "" for local providers.
func (p Provider) CredentialEnv() string {
	switch p {
	case OpenAI:
		return "OPENAI_API_KEY"
	case Google:
		return "GOOGLE_API_KEY"
	case Ollama, HuggingFace:
		return ""
	}
	return ""
}

// ClientClass returns the embedder client class recorded in the persisted
// configuration for this provider.
func (p Provider) ClientClass() string {
	switch p {
	case Ollama:
		return "OllamaClient"
	case OpenAI:
		return "OpenAIClient"
	case Google:
		return "GoogleEmbedderClient"
	case HuggingFace:
		return "HuggingFaceClient"
	}
	return ""
}

// Descriptor describes one embedding model the service can be switched to.
// Compatible is derived at catalog build time, never at runtime: it is true
// iff Dimensions equals BaselineDimensions.
type Descriptor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Provider    Provider `json:"provider"`
	Dimensions  int      `json:"dimensions"`
	Cost        string   `json:"cost"`
	Privacy     string   `json:"privacy"`
	Compatible  bool     `json:"compatible"`
	Description string   `json:"description"`
	InstallCmd  string   `json:"install_cmd,omitempty"`
}

// ModelName returns the provider-local model name, i.e. the id with its
// "<provider>_" prefix stripped.
func (d Descriptor) ModelName() string {
	if _, name, ok := strings.Cut(d.ID, "_"); ok {
		return name
	}
	return d.ID
}

var models = []Descriptor{
	{
		ID:          "ollama_nomic-embed-text",
		Name:        "Nomic Embed Text",
		Provider:    Ollama,
		Dimensions:  768,
		Cost:        "free",
		Privacy:     "local",
		Description: "High-quality embeddings running locally with Ollama",
		InstallCmd:  "ollama pull nomic-embed-text",
	},
	{
		ID:          "openai_text-embedding-3-small",
		Name:        "Text Embedding 3 Small",
		Provider:    OpenAI,
		Dimensions:  768,
		Cost:        "low",
		Privacy:     "external",
		Description: "OpenAI's efficient embedding model (768D for compatibility)",
	},
	{
		ID:          "openai_text-embedding-3-large",
		Name:        "Text Embedding 3 Large",
		Provider:    OpenAI,
		Dimensions:  3072,
		Cost:        "medium",
		Privacy:     "external",
		Description: "OpenAI's highest quality embedding model (requires migration)",
	},
	{
		ID:          "openai_text-embedding-ada-002",
		Name:        "Text Embedding Ada 002",
		Provider:    OpenAI,
		Dimensions:  1536,
		Cost:        "low",
		Privacy:     "external",
		Description: "Legacy OpenAI embedding model (requires migration)",
	},
	{
		ID:          "google_text-embedding-004",
		Name:        "Text Embedding 004",
		Provider:    Google,
		Dimensions:  768,
		Cost:        "low",
		Privacy:     "external",
		Description: "Google's embedding model (768D for compatibility)",
	},
	{
		ID:          "huggingface_all-mpnet-base-v2",
		Name:        "All-MiniLM-L6-v2",
		Provider:    HuggingFace,
		Dimensions:  768,
		Cost:        "free",
		Privacy:     "local",
		Description: "Popular sentence transformer model (768D compatible)",
		InstallCmd:  "pip install sentence-transformers",
	},
}

func init() {
	for i := range models {
		models[i].Compatible = models[i].Dimensions == BaselineDimensions
	}
}

// All returns the catalog in its fixed order. The returned slice is a copy;
// the catalog itself never changes at runtime.
func All() []Descriptor {
	out := make([]Descriptor, len(models))
	copy(out, models)
	return out
}

// Find returns the descriptor for id, or ErrUnknownModel.
func Find(id string) (Descriptor, error) {
	for _, d := range models {
		if d.ID == id {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownModel, id)
}

// Compatible returns the descriptors whose output width matches the
// baseline, in catalog order. Used for gate messages suggesting
// alternatives.
func Compatible() []Descriptor {
	var out []Descriptor
	for _, d := range models {
		if d.Compatible {
			out = append(out, d)
		}
	}
	return out
}

// CompatibleIDs returns the ids of all baseline-width models.
func CompatibleIDs() []string {
	var out []string
	for _, d := range models {
		if d.Compatible {
			out = append(out, d.ID)
		}
	}
	return out
}
