package switcher

import (
	"context"
	"log/slog"
	"strings"

	"github.com/asyncfuncai/deepwiki-cli/internal/catalog"
	"github.com/asyncfuncai/deepwiki-cli/internal/config"
	"github.com/asyncfuncai/deepwiki-cli/internal/runner"
)

// Checker probes whether a model's runtime prerequisite is satisfied right
// now. Probes never return errors: every failure degrades to "not
// available".
type Checker struct {
	run  runner.Runner
	cred func(key string) (string, error)
	py   string
	log  *slog.Logger
}

// NewChecker returns a Checker probing through r. Credentials resolve via
// the process environment with a dotenv fallback.
func NewChecker(r runner.Runner, log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		run:  r,
		cred: config.GetConfigValue,
		py:   "python3",
		log:  log,
	}
}

// Available reports whether d can be used without installation, dispatched
// by provider:
//   - ollama: the runtime's model listing must contain the model name
//   - openai/google: the provider credential must be set
//   - huggingface: the helper interpreter must be able to load the
//     sentence-transformers library
func (c *Checker) Available(ctx context.Context, d catalog.Descriptor) bool {
	switch d.Provider {
	case catalog.Ollama:
		out, err := c.run.Output(ctx, "ollama", "list")
		if err != nil {
			c.log.Warn("ollama listing failed", "model", d.ID, "error", err)
			return false
		}
		return strings.Contains(out, d.ModelName())

	case catalog.OpenAI, catalog.Google:
		v, err := c.cred(d.Provider.CredentialEnv())
		if err != nil {
			c.log.Warn("credential lookup failed", "model", d.ID, "error", err)
			return false
		}
		return v != ""

	case catalog.HuggingFace:
		if err := c.run.Run(ctx, c.py, "-c", "import sentence_transformers"); err != nil {
			return false
		}
		return true
	}
	return false
}
