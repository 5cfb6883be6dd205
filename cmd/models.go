package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/asyncfuncai/deepwiki-cli/internal/catalog"
	"github.com/asyncfuncai/deepwiki-cli/internal/config"
	"github.com/asyncfuncai/deepwiki-cli/internal/embedder"
	"github.com/asyncfuncai/deepwiki-cli/internal/runner"
	"github.com/asyncfuncai/deepwiki-cli/internal/switcher"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage embedding models",
	Long: `Inspect the embedding model catalog, probe availability, and switch the
active model. Switching to a model with a different vector width requires
--force and makes existing embeddings unusable until regenerated.`,
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the embedding model catalog",
	RunE:  runModelsList,
}

var modelsCheckCmd = &cobra.Command{
	Use:   "check <model-id>",
	Short: "Check whether a model is available right now",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsCheck,
}

var modelsInstallCmd = &cobra.Command{
	Use:   "install <model-id>",
	Short: "Install a local model",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsInstall,
}

var flagSwitchForce bool

var modelsSwitchCmd = &cobra.Command{
	Use:   "switch <model-id>",
	Short: "Switch the active embedding model",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsSwitch,
}

var modelsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active configuration and model availability",
	RunE:  runModelsStatus,
}

var modelsPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Show migration presets for common hybrid setups",
	RunE:  runModelsPresets,
}

func init() {
	modelsSwitchCmd.Flags().BoolVar(&flagSwitchForce, "force", false, "Switch even if the model's vector width does not match the index")
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsCheckCmd)
	modelsCmd.AddCommand(modelsInstallCmd)
	modelsCmd.AddCommand(modelsSwitchCmd)
	modelsCmd.AddCommand(modelsStatusCmd)
	modelsCmd.AddCommand(modelsPresetsCmd)
	rootCmd.AddCommand(modelsCmd)
}

// modelDeps bundles the handles the models subcommands share.
type modelDeps struct {
	store *embedder.Store
	check *switcher.Checker
	sw    *switcher.Switcher
}

// wireModels builds the store, checker and switcher over the real
// configuration and process runner.
func wireModels() (*modelDeps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path, err := config.EmbedderConfigPath()
	if err != nil {
		return nil, err
	}
	log := cliLogger()
	store := embedder.NewStore(path, log)
	run := runner.System{Timeout: cfg.CommandTimeout(), Stdout: os.Stdout, Stderr: os.Stderr}
	check := switcher.NewChecker(run, log)
	return &modelDeps{
		store: store,
		check: check,
		sw:    switcher.New(store, check, run, log),
	}, nil
}

func runModelsList(_ *cobra.Command, _ []string) error {
	fmt.Printf("\nEmbedding models (index baseline: %dD):\n\n", catalog.BaselineDimensions)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tDIMENSIONS\tCOST\tPRIVACY\tCOMPATIBLE")
	for _, d := range catalog.All() {
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\t%s\n",
			d.ID, d.Dimensions, d.Cost, d.Privacy, compatMark(d.Compatible))
	}
	_ = w.Flush()

	fmt.Println("\nIncompatible models require 'models switch <id> --force' and an embeddings rebuild.")
	return nil
}

func compatMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func runModelsCheck(cmd *cobra.Command, args []string) error {
	deps, err := wireModels()
	if err != nil {
		return err
	}
	d, err := catalog.Find(args[0])
	if err != nil {
		return err
	}

	if deps.check.Available(cmd.Context(), d) {
		printOK("", fmt.Sprintf("%s is available", d.ID))
		return nil
	}
	if env := d.Provider.CredentialEnv(); env != "" {
		return fmt.Errorf("%s is not available (set %s)", d.ID, env)
	}
	if d.InstallCmd != "" {
		return fmt.Errorf("%s is not available (run 'deepwiki models install %s')", d.ID, d.ID)
	}
	return fmt.Errorf("%s is not available", d.ID)
}

func runModelsInstall(cmd *cobra.Command, args []string) error {
	deps, err := wireModels()
	if err != nil {
		return err
	}
	d, err := catalog.Find(args[0])
	if err != nil {
		return err
	}

	ran, err := deps.sw.Install(cmd.Context(), d)
	if err != nil {
		return err
	}
	if !ran {
		printSkip("", fmt.Sprintf("%s is API-based; nothing to install", d.ID))
		return nil
	}
	printOK("", fmt.Sprintf("installed %s", d.ID))
	return nil
}

func runModelsSwitch(cmd *cobra.Command, args []string) error {
	deps, err := wireModels()
	if err != nil {
		return err
	}

	printSection("Switch Embedding Model")
	fmt.Println()

	out, err := deps.sw.Switch(cmd.Context(), args[0], flagSwitchForce)
	if err != nil {
		return err
	}

	if out.PreviousModel != "" && out.PreviousModel != out.Model.ModelName() {
		printInfo("", fmt.Sprintf("model: %s -> %s", out.PreviousModel, out.Model.ModelName()))
	}
	if out.Installed {
		printOK("", fmt.Sprintf("installed %s", out.Model.ID))
	}
	if deps.store.HasBackup() {
		printBackup(fmt.Sprintf("previous configuration saved: %s", deps.store.BackupPath()))
	}
	printOK("", fmt.Sprintf("active embedding model: %s (%dD, %s)",
		out.Model.ID, out.Model.Dimensions, out.Model.Provider))

	if advice := switcher.Advise(out); advice != "" {
		fmt.Println()
		printWarn("", advice)
	}
	return nil
}

func runModelsStatus(cmd *cobra.Command, _ []string) error {
	deps, err := wireModels()
	if err != nil {
		return err
	}

	fmt.Println("=== Embedding Configuration ===")

	doc, err := deps.store.Current()
	if err != nil {
		return err
	}
	dims := doc.Embedder.ModelKwargs.Dimensions
	if dims == 0 {
		dims = catalog.BaselineDimensions
	}
	fmt.Printf("\n  Model:        %s\n", doc.Embedder.ModelKwargs.Model)
	fmt.Printf("  Provider:     %s\n", doc.Embedder.ProviderName())
	fmt.Printf("  Client class: %s\n", doc.Embedder.ClientClass)
	fmt.Printf("  Dimensions:   %d\n", dims)
	fmt.Println()

	if d, ok := activeDescriptor(doc); !ok {
		printWarn("", fmt.Sprintf("%q is not in the model catalog", doc.Embedder.ModelKwargs.Model))
	} else if d.Compatible {
		printOK("", fmt.Sprintf("catalog entry %s, compatible with the %dD index", d.ID, catalog.BaselineDimensions))
	} else {
		printWarn("", fmt.Sprintf("catalog entry %s produces %dD vectors; cached embeddings built for %dD are stale",
			d.ID, d.Dimensions, catalog.BaselineDimensions))
	}

	if !deps.store.Exists() {
		printInfo("", "no embedder.json written yet; defaults are in effect")
	}
	if deps.store.HasBackup() {
		printInfo("", fmt.Sprintf("backup present: %s", deps.store.BackupPath()))
	} else {
		printMiss("", "no backup present (written on first switch)")
	}

	printBullet("Availability:")
	var avail int
	all := catalog.All()
	for _, d := range all {
		if deps.check.Available(cmd.Context(), d) {
			fmt.Printf("  ✓  [%s]\n", d.ID)
			avail++
		} else {
			fmt.Printf("  -  [%s]\n", d.ID)
		}
	}
	fmt.Printf("\n  %d available / %d unavailable  (total: %d models)\n",
		avail, len(all)-avail, len(all))
	return nil
}

// activeDescriptor resolves the persisted configuration back to its catalog
// entry by model name and client class.
func activeDescriptor(doc *embedder.Document) (catalog.Descriptor, bool) {
	for _, d := range catalog.All() {
		if d.ModelName() == doc.Embedder.ModelKwargs.Model &&
			d.Provider.ClientClass() == doc.Embedder.ClientClass {
			return d, true
		}
	}
	return catalog.Descriptor{}, false
}

func runModelsPresets(_ *cobra.Command, _ []string) error {
	fmt.Println("=== Migration Presets ===")
	for _, p := range catalog.Presets() {
		printBullet(p.Name)
		fmt.Printf("  %s\n", p.Description)
		fmt.Printf("  embedding:  %s (%s)\n", p.Embedding.Model, p.Embedding.Cost)
		fmt.Printf("  generation: %s (%s)\n", p.Generation.Model, p.Generation.Cost)
		for _, b := range p.Benefits {
			fmt.Printf("    - %s\n", b)
		}
	}
	fmt.Println("\nApply one with 'deepwiki models switch <embedding-model-id>'.")
	return nil
}
