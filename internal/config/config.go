package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Languages holds the wiki language settings.
type Languages struct {
	Supported []string `yaml:"supported,omitempty"`
	Default   string   `yaml:"default,omitempty"`
}

// Config is the in-memory representation of ~/.deepwiki/deepwiki.yaml.
type Config struct {
	ServerAddr            string    `yaml:"server_addr,omitempty"`
	WikiCacheDir          string    `yaml:"wiki_cache_dir,omitempty"`
	EmbeddingsDir         string    `yaml:"embeddings_dir,omitempty"`
	ReposDir              string    `yaml:"repos_dir,omitempty"`
	CommandTimeoutSeconds int       `yaml:"command_timeout_seconds,omitempty"`
	Languages             Languages `yaml:"languages,omitempty"`
}

// CommandTimeout returns the bound applied to external process calls
// (availability probes, model installs).
func (c *Config) CommandTimeout() time.Duration {
	if c.CommandTimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.CommandTimeoutSeconds) * time.Second
}

// Dir returns the absolute path to the deepwiki config directory:
// $DEEPWIKI_CONFIG_DIR if set, otherwise ~/.deepwiki.
func Dir() (string, error) {
	if d := os.Getenv("DEEPWIKI_CONFIG_DIR"); d != "" {
		return ExpandPath(d)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".deepwiki"), nil
}

// ConfigPath returns the absolute path to the settings file.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "deepwiki.yaml"), nil
}

// EmbedderConfigPath returns the absolute path to the persisted embedding
// configuration (embedder.json).
func EmbedderConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "embedder.json"), nil
}

// ServeLockPath returns the path of the lock file taken by 'deepwiki serve'.
func ServeLockPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "serve.lock"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the defaults used when no settings file exists.
//
// The cache and data directories default to the legacy ~/.adalflow layout so
// that wikis and indexes generated by earlier deployments keep working.
func DefaultConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	j := func(parts ...string) string { return filepath.Join(append([]string{home}, parts...)...) }

	return &Config{
		ServerAddr:            ":8001",
		WikiCacheDir:          j(".adalflow", "wikicache"),
		EmbeddingsDir:         j(".adalflow", "databases"),
		ReposDir:              j(".adalflow", "repos"),
		CommandTimeoutSeconds: 120,
		Languages: Languages{
			Supported: []string{"en", "ja", "zh", "zh-tw", "es", "kr", "vi", "pt-br", "fr", "ru"},
			Default:   "en",
		},
	}, nil
}

// Load reads and parses the settings file. A missing file is not an error:
// defaults are returned so first runs need no setup step.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	// Expand ~ in directory fields at load time.
	for _, p := range []*string{&cfg.WikiCacheDir, &cfg.EmbeddingsDir, &cfg.ReposDir} {
		*p, err = ExpandPath(*p)
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Save marshals cfg and writes it to the settings file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
