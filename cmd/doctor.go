package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/asyncfuncai/deepwiki-cli/internal/config"
	"github.com/asyncfuncai/deepwiki-cli/internal/embedder"
	"github.com/asyncfuncai/deepwiki-cli/internal/runner"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that deepwiki's dependencies and environment are correctly configured.
Run this command when something seems wrong, or before filing a bug report.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("deepwiki doctor")
	fmt.Println()

	// ── Check 1: settings file ────────────────────────────────────────────
	fmt.Println("[ settings ]")
	cfg, loadErr := config.Load()
	if loadErr != nil {
		failD("cannot parse deepwiki.yaml: %v", loadErr)
	} else {
		cfgPath, _ := config.ConfigPath()
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			printInfo("", fmt.Sprintf("no settings file at %s; defaults in effect", cfgPath))
		} else {
			printOK("", fmt.Sprintf("valid YAML: %s", cfgPath))
		}
		printOK("", fmt.Sprintf("%d supported language(s), default %q",
			len(cfg.Languages.Supported), cfg.Languages.Default))
	}
	fmt.Println()

	// ── Check 2: embedder.json is valid ───────────────────────────────────────
	fmt.Println("[ embedder.json ]")
	embPath, pathErr := config.EmbedderConfigPath()
	if pathErr != nil {
		failD("cannot determine config directory: %v", pathErr)
	} else {
		store := embedder.NewStore(embPath, cliLogger())
		if !store.Exists() {
			printInfo("", "not written yet; defaults in effect (ollama / nomic-embed-text)")
		} else if doc, err := store.Current(); err != nil {
			failD("cannot parse %s: %v", embPath, err)
		} else {
			printOK("", fmt.Sprintf("valid: %s (%s)", doc.Embedder.ModelKwargs.Model, doc.Embedder.ClientClass))
		}
		if store.HasBackup() {
			printInfo("", fmt.Sprintf("backup present: %s", store.BackupPath()))
		}
	}
	fmt.Println()

	// ── Check 3: wiki cache dir writable ──────────────────────────────────────
	fmt.Println("[ wiki cache dir ]")
	if loadErr == nil {
		if err := checkDirWritable(cfg.WikiCacheDir); err != nil {
			failD("%s is not writable: %v", cfg.WikiCacheDir, err)
		} else {
			printOK("", fmt.Sprintf("writable: %s", cfg.WikiCacheDir))
		}
	} else {
		printWarn("", "skipped (settings not loaded)")
	}
	fmt.Println()

	run := runner.System{Timeout: 10 * time.Second}

	// ── Check 4: ollama runtime ───────────────────────────────────────────
	fmt.Println("[ ollama ]")
	if !run.Look("ollama") {
		printWarn("", "ollama not found on PATH; local ollama models cannot run (https://ollama.com)")
	} else if out, err := run.Output(cmd.Context(), "ollama", "--version"); err != nil {
		failD("ollama is present but not responding: %v", err)
	} else {
		printOK("", out)
	}
	fmt.Println()

	// ── Check 5: python3 helper (huggingface models) ──────────────────────────
	fmt.Println("[ python3 ]")
	if !run.Look("python3") {
		printWarn("", "python3 not found on PATH; huggingface models are unavailable")
	} else if err := run.Run(cmd.Context(), "python3", "-c", "import sentence_transformers"); err != nil {
		printWarn("", "sentence-transformers not importable (pip install sentence-transformers)")
	} else {
		printOK("", "python3 with sentence-transformers")
	}
	fmt.Println()

	// ── Check 6: provider credentials ─────────────────────────────────────
	fmt.Println("[ credentials ]")
	for _, env := range []string{"OPENAI_API_KEY", "GOOGLE_API_KEY"} {
		v, err := config.GetConfigValue(env)
		if err != nil {
			failD("cannot read %s: %v", env, err)
			continue
		}
		if v == "" {
			printSkip("", fmt.Sprintf("%s not set", env))
		} else {
			printOK("", fmt.Sprintf("%s = %s", env, maskCredential(v)))
		}
	}
	fmt.Println()

	// ── Check 7: dotenv template ──────────────────────────────────────────────
	fmt.Println("[ dotenv ]")
	if err := config.EnsureDotEnvTemplate(); err != nil {
		failD("cannot write dotenv template: %v", err)
	} else {
		p, _ := config.DotEnvPath()
		printOK("", fmt.Sprintf("present: %s", p))
	}
	fmt.Println()

	// ── Summary ──────────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if allOK {
		fmt.Println("✓  All checks passed. DeepWiki is ready to use.")
	} else {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

// checkDirWritable creates dir if needed and probes it with a throwaway file.
func checkDirWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".deepwiki-doctor-probe")
	if err := os.WriteFile(probe, []byte("probe"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// maskCredential keeps just enough of a secret to recognize it.
func maskCredential(v string) string {
	if len(v) <= 8 {
		return "********"
	}
	return v[:4] + "..." + v[len(v)-4:]
}
