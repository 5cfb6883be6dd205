package catalog

// PresetRef names one half of a migration preset. Dimensions is set only on
// the embedding side.
type PresetRef struct {
	Model      string `json:"model"`
	Provider   string `json:"provider"`
	Dimensions int    `json:"dimensions,omitempty"`
	Cost       string `json:"cost"`
}

// Preset is a pre-configured pairing of embedding and generation model
// choices for common hybrid RAG setups. Presets are informational: applying
// one is the caller's job, via a normal model switch.
type Preset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Embedding   PresetRef `json:"embedding"`
	Generation  PresetRef `json:"generation"`
	Benefits    []string  `json:"benefits"`
	Recommended bool      `json:"recommended"`
}

var presets = []Preset{
	{
		ID:          "hybrid_optimal",
		Name:        "Hybrid Optimal (Recommended)",
		Description: "Best balance of privacy, cost, and performance using local embeddings with external generation",
		Embedding:   PresetRef{Model: "ollama_nomic-embed-text", Provider: "ollama", Dimensions: 768, Cost: "free"},
		Generation:  PresetRef{Model: "openai_gpt-4o-mini", Provider: "openai", Cost: "low"},
		Benefits: []string{
			"100% Privacy for Documents",
			"Zero Embedding Costs",
			"High-Quality Answers",
			"No API Limits for Embeddings",
		},
		Recommended: true,
	},
	{
		ID:          "openai_compatible",
		Name:        "OpenAI Compatible",
		Description: "Use OpenAI for both embeddings and generation with 768D compatibility",
		Embedding:   PresetRef{Model: "openai_text-embedding-3-small", Provider: "openai", Dimensions: 768, Cost: "low"},
		Generation:  PresetRef{Model: "openai_gpt-4o-mini", Provider: "openai", Cost: "low"},
		Benefits: []string{
			"Single Provider",
			"Enterprise Support",
			"High Reliability",
			"Dimension Compatibility",
		},
	},
	{
		ID:          "google_hybrid",
		Name:        "Google Gemini Hybrid",
		Description: "Local embeddings with Google Gemini for generation",
		Embedding:   PresetRef{Model: "ollama_nomic-embed-text", Provider: "ollama", Dimensions: 768, Cost: "free"},
		Generation:  PresetRef{Model: "google_gemini-2.5-flash", Provider: "google", Cost: "low"},
		Benefits: []string{
			"Free Embeddings",
			"Fast Google Generation",
			"Cost Effective",
			"Privacy for Documents",
		},
	},
	{
		ID:          "fully_local",
		Name:        "Fully Local (Privacy First)",
		Description: "Complete local processing using only Ollama models",
		Embedding:   PresetRef{Model: "ollama_nomic-embed-text", Provider: "ollama", Dimensions: 768, Cost: "free"},
		Generation:  PresetRef{Model: "ollama_llama3.1", Provider: "ollama", Cost: "free"},
		Benefits: []string{
			"100% Local",
			"Complete Privacy",
			"Zero API Costs",
			"No Internet Required",
		},
	},
}

// Presets returns the migration presets in their fixed order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}
