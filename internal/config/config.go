package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFileName = "config.toml"
	StateFileName  = "_registry.json"
	AgentsFileName = "agents.yaml"

	// DefaultRegistryURL is the canonical skill index endpoint. The index is
	// a single JSON document listing every installable skill.
	DefaultRegistryURL = "https://registry.skillpack.dev/index.json"
)

// ConfigFile represents the TOML config file structure
type ConfigFile struct {
	RegistryURL string `toml:"registry_url,omitempty"`
	SkillsDir   string `toml:"skills_dir,omitempty"`
	AgentsPath  string `toml:"agents_path,omitempty"`
}

// Config holds the runtime configuration
type Config struct {
	ConfigDir   string
	ConfigPath  string
	SkillsDir   string // central skills directory; payloads and the tracking file live here
	StatePath   string // skills/_registry.json
	AgentsPath  string // agent-configuration document
	LogsDir     string
	RegistryURL string
}

// ExpandPath expands ~ to home directory in a path
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// DefaultConfig returns the default configuration, overlaid with any
// settings found in the config file.
func DefaultConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configDir := filepath.Join(home, ".skillpack")
	cfg := configWithDirs(configDir, filepath.Join(configDir, "skills"))

	if err := cfg.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return cfg, nil
}

// At returns a configuration rooted at an explicit directory pair. Used by
// tests and by callers pointing several instances at different registries.
func At(configDir, skillsDir string) *Config {
	return configWithDirs(configDir, skillsDir)
}

func configWithDirs(configDir, skillsDir string) *Config {
	return &Config{
		ConfigDir:   configDir,
		ConfigPath:  filepath.Join(configDir, ConfigFileName),
		SkillsDir:   skillsDir,
		StatePath:   filepath.Join(skillsDir, StateFileName),
		AgentsPath:  filepath.Join(configDir, AgentsFileName),
		LogsDir:     filepath.Join(configDir, "logs"),
		RegistryURL: DefaultRegistryURL,
	}
}

// Load reads the config from disk
func (c *Config) Load() error {
	var cf ConfigFile
	if _, err := toml.DecodeFile(c.ConfigPath, &cf); err != nil {
		return err
	}

	if cf.RegistryURL != "" {
		c.RegistryURL = cf.RegistryURL
	}
	if cf.SkillsDir != "" {
		dir, err := ExpandPath(cf.SkillsDir)
		if err != nil {
			return err
		}
		c.SkillsDir = dir
		c.StatePath = filepath.Join(dir, StateFileName)
	}
	if cf.AgentsPath != "" {
		p, err := ExpandPath(cf.AgentsPath)
		if err != nil {
			return err
		}
		c.AgentsPath = p
	}

	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	if err := c.EnsureDirs(); err != nil {
		return err
	}

	cf := ConfigFile{
		RegistryURL: c.RegistryURL,
		SkillsDir:   c.SkillsDir,
		AgentsPath:  c.AgentsPath,
	}

	f, err := os.Create(c.ConfigPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cf)
}

// EnsureDirs creates necessary directories if they don't exist
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.ConfigDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(c.SkillsDir, 0755)
}
