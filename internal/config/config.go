// Package config loads the lox command's settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that overrides the config path.
const EnvVar = "LOX_CONFIG"

// DefaultFile is the config file looked up in the home directory.
const DefaultFile = ".loxrc.yml"

// Config holds REPL and interpreter settings.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	Color              bool   `yaml:"color"`
	MaxDepth           int    `yaml:"max_depth"`
	Debug              bool   `yaml:"debug"`

	// Path is the file the settings were read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Prompt:             "> ",
		ContinuationPrompt: ". ",
		HistoryFile:        "~/.lox_history",
		Color:              true,
		MaxDepth:           1024,
	}
}

// Load reads settings from path. Keys missing from the file keep their
// default values; unknown keys are an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", abs, err)
	}
	return cfg, nil
}

// LoadDefault reads the file named by $LOX_CONFIG, or ~/.loxrc.yml when the
// variable is unset. A missing ~/.loxrc.yml yields the defaults; a missing
// file named explicitly by the variable is an error.
func LoadDefault() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Default(), nil
	}
	cfg, err := Load(filepath.Join(home, DefaultFile))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// HistoryPath returns HistoryFile with a leading ~ expanded. It returns ""
// when history is disabled or the home directory is unknown.
func (c *Config) HistoryPath() string {
	path := strings.TrimSpace(c.HistoryFile)
	if path == "" {
		return ""
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
