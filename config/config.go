package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Backend string        `json:"backend" yaml:"backend" toml:"backend"`
	Window  WindowConfig  `json:"window" yaml:"window" toml:"window"`
	Ranking RankingConfig `json:"ranking" yaml:"ranking" toml:"ranking"`
	Filters FilterConfig  `json:"filters" yaml:"filters" toml:"filters"`
	Log     LogConfig     `json:"log" yaml:"log" toml:"log"`
}

// WindowConfig holds defaults for windowed queries.
type WindowConfig struct {
	DefaultCount int `json:"defaultCount" yaml:"defaultCount" toml:"defaultCount"` // Default: 100
}

// RankingConfig holds modification ranking options.
type RankingConfig struct {
	Limit            int `json:"limit" yaml:"limit" toml:"limit"`                                  // Default: 16, at most 16
	MinModifications int `json:"minModifications" yaml:"minModifications" toml:"minModifications"` // Default: 2, at least 2
}

// FilterConfig holds file path filtering options for the ranking.
type FilterConfig struct {
	Include []string `json:"include" yaml:"include" toml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude" toml:"exclude"`
}

// LogConfig holds logger options.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`    // debug, info, warn, error
	Format string `json:"format" yaml:"format" toml:"format"` // text, json, logfmt
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend: "gogit",
		Window: WindowConfig{
			DefaultCount: 100,
		},
		Ranking: RankingConfig{
			Limit:            16,
			MinModifications: 2,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Window.DefaultCount < 0 {
		return fmt.Errorf("window.defaultCount must not be negative, got %d", c.Window.DefaultCount)
	}
	if c.Ranking.Limit < 0 || c.Ranking.Limit > 16 {
		return fmt.Errorf("ranking.limit must be between 0 and 16, got %d", c.Ranking.Limit)
	}
	if c.Ranking.MinModifications != 0 && c.Ranking.MinModifications < 2 {
		return fmt.Errorf("ranking.minModifications must be at least 2, got %d", c.Ranking.MinModifications)
	}
	for _, p := range append(append([]string{}, c.Filters.Include...), c.Filters.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid filter pattern %q", p)
		}
	}
	return nil
}

// candidateNames are the file names searched when no path is given.
var candidateNames = []string{".gitplay.json", ".gitplay.yaml", ".gitplay.yml", ".gitplay.toml"}

// LoadConfig loads configuration from a file, merging with defaults.
// The format is chosen by file extension; anything else is read as JSON.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func findConfig() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range candidateNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// SaveConfig saves configuration to a file in the format implied by its extension.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".toml":
		data, err = toml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
