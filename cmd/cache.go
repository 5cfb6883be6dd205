package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/asyncfuncai/deepwiki-cli/internal/config"
	"github.com/asyncfuncai/deepwiki-cli/internal/wikicache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the generated wiki cache",
	Long: `Inspect and prune the file-backed wiki cache and its sibling data
directories (vector databases, cloned repositories).`,
}

var (
	flagCacheOwner string
	flagCacheRepo  string
	flagCacheType  string
	flagCacheLang  string
	flagCacheYes   bool
)

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached wikis, newest first",
	RunE:  runCacheList,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one cache entry's summary",
	RunE:  runCacheShow,
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete one cache entry",
	RunE:  runCacheDelete,
}

var (
	flagClearWiki       bool
	flagClearEmbeddings bool
	flagClearRepos      bool
)

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Sweep cached wikis, vector databases, or cloned repos",
	Long: `Clear selected data directories. At least one target must be named:

  --wiki        generated wiki cache files
  --embeddings  vector database artifacts (*.pkl, *.faiss, *.index)
  --repos       cloned source repositories

Run this after a forced model switch to remove dimensionally stale
embeddings.`,
	RunE: runCacheClear,
}

func init() {
	for _, c := range []*cobra.Command{cacheShowCmd, cacheDeleteCmd} {
		c.Flags().StringVar(&flagCacheOwner, "owner", "", "Repository owner")
		c.Flags().StringVar(&flagCacheRepo, "repo", "", "Repository name")
		c.Flags().StringVar(&flagCacheType, "type", "github", "Repository type (github, gitlab, bitbucket, ...)")
		c.Flags().StringVar(&flagCacheLang, "lang", "en", "Wiki language")
	}
	cacheDeleteCmd.Flags().BoolVar(&flagCacheYes, "yes", false, "Do not ask for confirmation")

	cacheClearCmd.Flags().BoolVar(&flagClearWiki, "wiki", false, "Clear the wiki cache directory")
	cacheClearCmd.Flags().BoolVar(&flagClearEmbeddings, "embeddings", false, "Clear vector database artifacts")
	cacheClearCmd.Flags().BoolVar(&flagClearRepos, "repos", false, "Clear cloned repositories")
	cacheClearCmd.Flags().BoolVar(&flagCacheYes, "yes", false, "Do not ask for confirmation")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// wireCache builds the wiki cache store over the configured directory.
func wireCache() (*config.Config, *wikicache.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, wikicache.NewStore(cfg.WikiCacheDir, cliLogger()), nil
}

// cacheKeyFromFlags validates the --owner/--repo/--type/--lang tuple.
func cacheKeyFromFlags() (wikicache.Key, error) {
	k := wikicache.Key{
		Owner:    flagCacheOwner,
		Repo:     flagCacheRepo,
		RepoType: flagCacheType,
		Language: flagCacheLang,
	}
	if k.Owner == "" || k.Repo == "" {
		return k, errors.New("--owner and --repo are required")
	}
	return k, nil
}

func runCacheList(_ *cobra.Command, _ []string) error {
	_, store, err := wireCache()
	if err != nil {
		return err
	}
	projects, err := store.List()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		printMiss("", fmt.Sprintf("no cached wikis found in %s", store.Dir()))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  REPOSITORY\tTYPE\tLANGUAGE\tUPDATED")
	for _, p := range projects {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
			p.Name, p.RepoType, p.Language,
			time.UnixMilli(p.SubmittedAt).Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
	fmt.Printf("\n  %d cached wiki(s)\n", len(projects))
	return nil
}

func runCacheShow(_ *cobra.Command, _ []string) error {
	_, store, err := wireCache()
	if err != nil {
		return err
	}
	k, err := cacheKeyFromFlags()
	if err != nil {
		return err
	}

	entry, err := store.Get(k)
	if err != nil {
		return err
	}

	path := store.PathFor(k)
	var size string
	if info, statErr := os.Stat(path); statErr == nil {
		size = humanBytes(info.Size())
	} else {
		size = "n/a"
	}

	fmt.Println("=== Wiki Cache Entry ===")
	fmt.Printf("\n  Repository:  %s/%s (%s)\n", k.Owner, k.Repo, k.RepoType)
	fmt.Printf("  Language:    %s\n", k.Language)
	fmt.Printf("  Title:       %s\n", emptyAsNA(entry.WikiStructure.Title))
	fmt.Printf("  Description: %s\n", emptyAsNA(entry.WikiStructure.Description))
	fmt.Printf("  Pages:       %d generated / %d in structure\n",
		len(entry.GeneratedPages), len(entry.WikiStructure.Pages))
	fmt.Printf("  Embeddings:  %s / %s\n", emptyAsNA(entry.Provider), emptyAsNA(entry.Model))
	fmt.Printf("  File:        %s (%s)\n", path, size)
	return nil
}

func runCacheDelete(_ *cobra.Command, _ []string) error {
	_, store, err := wireCache()
	if err != nil {
		return err
	}
	k, err := cacheKeyFromFlags()
	if err != nil {
		return err
	}

	if !confirm(fmt.Sprintf("Delete wiki cache for %s/%s (%s)?", k.Owner, k.Repo, k.Language), flagCacheYes) {
		printSkip("", "aborted")
		return nil
	}
	if err := store.Delete(k); err != nil {
		return err
	}
	printOK("", fmt.Sprintf("deleted wiki cache for %s/%s (%s)", k.Owner, k.Repo, k.Language))
	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	cfg, store, err := wireCache()
	if err != nil {
		return err
	}
	if !flagClearWiki && !flagClearEmbeddings && !flagClearRepos {
		return errors.New("nothing selected; pass --wiki, --embeddings and/or --repos")
	}

	printSection("deepwiki cache clear")
	var targets []string
	if flagClearWiki {
		targets = append(targets, "wiki cache ("+store.Dir()+")")
	}
	if flagClearEmbeddings {
		targets = append(targets, "embeddings ("+cfg.EmbeddingsDir+")")
	}
	if flagClearRepos {
		targets = append(targets, "repos ("+cfg.ReposDir+")")
	}
	fmt.Println()
	for _, t := range targets {
		printInfo("", "will clear "+t)
	}
	fmt.Println()

	if !confirm("This permanently deletes the listed data. Proceed?", flagCacheYes) {
		printSkip("", "aborted")
		return nil
	}

	var removed, failed int

	if flagClearWiki {
		fmt.Println("\n[ wiki cache ]")
		n, f := clearWikiEntries(store)
		removed += n
		failed += f
	}

	if flagClearEmbeddings {
		fmt.Println("\n[ embeddings ]")
		n, f := clearFiles(cfg.EmbeddingsDir, isIndexArtifact)
		removed += n
		failed += f
	}

	if flagClearRepos {
		fmt.Println("\n[ repos ]")
		n, f := clearRepoClones(cfg.ReposDir)
		removed += n
		failed += f
	}

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d item(s) could not be removed", failed)
	}
	fmt.Printf("  ✓  %d item(s) removed.\n", removed)
	return nil
}

// clearWikiEntries deletes every listable cache entry through the store, so
// undecodable stray files are left alone.
func clearWikiEntries(store *wikicache.Store) (removed, failed int) {
	projects, err := store.List()
	if err != nil {
		printErr("", err.Error())
		return 0, 1
	}
	if len(projects) == 0 {
		printSkip("", "nothing to clear")
		return 0, 0
	}
	for _, p := range projects {
		if err := store.Delete(p.Key()); err != nil {
			printErr("", err.Error())
			failed++
			continue
		}
		printOK("", fmt.Sprintf("deleted %s (%s)", p.Name, p.Language))
		removed++
	}
	return removed, failed
}

// isIndexArtifact reports whether name looks like a vector database file.
func isIndexArtifact(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pkl", ".faiss", ".index":
		return true
	}
	return false
}

// clearFiles walks dir and removes every regular file matching match,
// printing one line per file. A missing dir is nothing to clear.
func clearFiles(dir string, match func(name string) bool) (removed, failed int) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printSkip("", fmt.Sprintf("directory does not exist: %s", dir))
		return 0, 0
	}

	var found []string
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !match(d.Name()) {
			return err
		}
		found = append(found, path)
		return nil
	})
	if len(found) == 0 {
		printSkip("", "nothing to clear")
		return 0, 0
	}

	for _, path := range found {
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		if err := os.Remove(path); err != nil {
			printErr("", fmt.Sprintf("cannot delete %s: %v", rel, err))
			failed++
			continue
		}
		printOK("", fmt.Sprintf("deleted %s", rel))
		removed++
	}
	return removed, failed
}

// clearRepoClones removes each top-level entry of the cloned-repos dir.
func clearRepoClones(dir string) (removed, failed int) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		printSkip("", fmt.Sprintf("directory does not exist: %s", dir))
		return 0, 0
	}
	if err != nil {
		printErr("", err.Error())
		return 0, 1
	}
	if len(entries) == 0 {
		printSkip("", "nothing to clear")
		return 0, 0
	}

	for _, de := range entries {
		if err := os.RemoveAll(filepath.Join(dir, de.Name())); err != nil {
			printErr("", fmt.Sprintf("cannot delete %s: %v", de.Name(), err))
			failed++
			continue
		}
		printOK("", fmt.Sprintf("deleted %s", de.Name()))
		removed++
	}
	return removed, failed
}

// confirm prompts on stdin, unless assumeYes short-circuits it.
func confirm(prompt string, assumeYes bool) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// humanBytes formats a byte count in a human-friendly binary unit.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	prefix := "KMGTPE"[exp]
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), prefix)
}
