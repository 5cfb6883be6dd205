// Package embedder owns the persisted embedding configuration: the single
// JSON document that tells the RAG pipeline which embedding client to
// construct. There is exactly one active configuration per deployment; it is
// replaced, never deleted.
package embedder

import (
	"encoding/json"
	"strings"
)

// ModelKwargs are the parameters handed to the embedding client. Dimensions
// is set only for cloud providers, which can serve several output widths for
// one model.
type ModelKwargs struct {
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions,omitempty"`
}

// Embedder is the section of the document the switcher rewrites.
type Embedder struct {
	ClientClass string      `json:"client_class"`
	ModelKwargs ModelKwargs `json:"model_kwargs"`
}

// ProviderName derives the provider from the client class the way the
// service always has: by substring. Returns "unknown" for foreign classes.
func (e Embedder) ProviderName() string {
	switch {
	case strings.Contains(e.ClientClass, "Ollama"):
		return "ollama"
	case strings.Contains(e.ClientClass, "OpenAI"):
		return "openai"
	case strings.Contains(e.ClientClass, "Google"):
		return "google"
	case strings.Contains(e.ClientClass, "HuggingFace"):
		return "huggingface"
	}
	return "unknown"
}

// Document is the whole embedder.json file. The retriever and text_splitter
// sections belong to the generation pipeline; they are carried through
// writes untouched.
type Document struct {
	Embedder     Embedder        `json:"embedder"`
	Retriever    json.RawMessage `json:"retriever,omitempty"`
	TextSplitter json.RawMessage `json:"text_splitter,omitempty"`
}

// Defaults returns the configuration assumed on first run, before any
// switch has been persisted: local Ollama embeddings with the baseline
// model.
func Defaults() *Document {
	return &Document{
		Embedder: Embedder{
			ClientClass: "OllamaClient",
			ModelKwargs: ModelKwargs{Model: "nomic-embed-text"},
		},
	}
}
