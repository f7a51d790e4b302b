package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"redditharvest/pkg/logger"
)

// Config holds all configuration options for the harvester
type Config struct {
	// Browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Fetch pacing and scroll settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging logger.Config `yaml:"logging" json:"logging"`
}

// BrowserConfig holds browser session configuration
type BrowserConfig struct {
	Headless  bool   `yaml:"headless" json:"headless"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// FetchConfig holds scroll and pacing configuration.
// All pauses are fixed durations, not event-driven waits.
type FetchConfig struct {
	PageSettle          time.Duration `yaml:"page_settle" json:"page_settle"`
	ScrollPause         time.Duration `yaml:"scroll_pause" json:"scroll_pause"`
	CommentScrollPasses int           `yaml:"comment_scroll_passes" json:"comment_scroll_passes"`
	ItemDelay           time.Duration `yaml:"item_delay" json:"item_delay"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:  false,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Fetch: FetchConfig{
			PageSettle:          3 * time.Second,
			ScrollPause:         2 * time.Second,
			CommentScrollPasses: 5,
			ItemDelay:           2 * time.Second,
		},
		Output: OutputConfig{
			DataDir: "data",
		},
		Logging: logger.Config{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if dataDir := os.Getenv("REDDITHARVEST_DATA_DIR"); dataDir != "" {
		c.Output.DataDir = dataDir
	}
	if userAgent := os.Getenv("REDDITHARVEST_USER_AGENT"); userAgent != "" {
		c.Browser.UserAgent = userAgent
	}
	if headless := os.Getenv("REDDITHARVEST_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) == "true"
	}
	if itemDelay := os.Getenv("REDDITHARVEST_ITEM_DELAY"); itemDelay != "" {
		if d, err := time.ParseDuration(itemDelay); err == nil && d > 0 {
			c.Fetch.ItemDelay = d
		}
	}
	if logLevel := os.Getenv("REDDITHARVEST_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("REDDITHARVEST_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".redditharvest.yaml",
		".redditharvest.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "redditharvest", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".redditharvest.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Output.DataDir == "" {
		errs = append(errs, errors.New("data directory is required"))
	}

	if c.Fetch.PageSettle <= 0 {
		errs = append(errs, errors.New("page settle duration must be positive"))
	}
	if c.Fetch.ScrollPause <= 0 {
		errs = append(errs, errors.New("scroll pause must be positive"))
	}
	if c.Fetch.CommentScrollPasses < 0 {
		errs = append(errs, errors.New("comment scroll passes cannot be negative"))
	}
	if c.Fetch.ItemDelay < 0 {
		errs = append(errs, errors.New("item delay cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if dataDir, ok := flags["data-dir"].(string); ok && dataDir != "" {
		c.Output.DataDir = dataDir
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = headless
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".redditharvest.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
