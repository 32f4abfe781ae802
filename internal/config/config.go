package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the orgtree configuration
type Config struct {
	LogFile         string   `mapstructure:"log_file" yaml:"log_file"`
	LogLevel        string   `mapstructure:"log_level" yaml:"log_level"`
	TabWidth        int      `mapstructure:"tab_width" yaml:"tab_width"`
	TodoKeywords    []string `mapstructure:"todo_keywords" yaml:"todo_keywords"`
	DoneKeywords    []string `mapstructure:"done_keywords" yaml:"done_keywords"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	IndexPath       string   `mapstructure:"index_path" yaml:"index_path"`
	Workers         int      `mapstructure:"workers" yaml:"workers"`
	WrapWidth       int      `mapstructure:"wrap_width" yaml:"wrap_width"`
	Color           bool     `mapstructure:"color" yaml:"color"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		LogFile:         "",
		LogLevel:        "info",
		TabWidth:        8,
		TodoKeywords:    []string{"TODO"},
		DoneKeywords:    []string{"DONE"},
		ExcludePatterns: []string{},
		IndexPath:       IndexPath(),
		Workers:         runtime.NumCPU(),
		WrapWidth:       100,
		Color:           true,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "orgtree", "config.yaml")
	}
	return filepath.Join(home, ".config", "orgtree", "config.yaml")
}

// IndexPath returns the default path of the headline index database
// Uses platform-specific XDG data directory
// Can be overridden for testing
var IndexPath = func() string {
	return filepath.Join(xdg.DataHome, "orgtree", "index.db")
}

// Load reads configuration from ConfigPath
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads configuration from path. A missing file yields the
// defaults. ORGTREE_* environment variables override file values.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("orgtree")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("tab_width", def.TabWidth)
	v.SetDefault("todo_keywords", def.TodoKeywords)
	v.SetDefault("done_keywords", def.DoneKeywords)
	v.SetDefault("exclude_patterns", def.ExcludePatterns)
	v.SetDefault("index_path", def.IndexPath)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("wrap_width", def.WrapWidth)
	v.SetDefault("color", def.Color)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Expand paths
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to ConfigPath as YAML
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

// SaveFile writes configuration to configPath as YAML
func (c *Config) SaveFile(configPath string) error {
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error, fatal", c.LogLevel)
	}
	if c.TabWidth <= 0 {
		return fmt.Errorf("tab_width must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.WrapWidth < 0 {
		return fmt.Errorf("wrap_width cannot be negative")
	}
	if c.IndexPath == "" {
		return fmt.Errorf("index_path cannot be empty")
	}

	seen := make(map[string]bool)
	for _, kw := range append(append([]string{}, c.TodoKeywords...), c.DoneKeywords...) {
		if kw == "" || strings.ContainsAny(kw, " \t") {
			return fmt.Errorf("invalid keyword '%s': keywords must be single words", kw)
		}
		if seen[kw] {
			return fmt.Errorf("keyword '%s' is listed twice", kw)
		}
		seen[kw] = true
	}

	return nil
}

// Keywords returns every TODO state, open states first.
func (c *Config) Keywords() []string {
	return append(append([]string{}, c.TodoKeywords...), c.DoneKeywords...)
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	c.IndexPath, err = expandPath(c.IndexPath)
	if err != nil {
		return fmt.Errorf("failed to expand index_path: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
