// Package config loads wordscan settings from defaults, YAML files and
// WORDSCAN_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/wordscan/internal/backend"
	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
)

// Defaults.
const (
	DefaultParallelism   = 4
	DefaultBackend       = backend.NamePool
	DefaultLogLevel      = "warn"
	DefaultCorpusSource  = "https://gutenberg.net.au/ebooks01/0100021.txt"
	DefaultCorpusTimeout = "30s"
)

// ProjectConfigNames are the project config file names, in lookup order.
var ProjectConfigNames = []string{".wordscan.yaml", ".wordscan.yml"}

// Config represents the complete wordscan configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Scan    ScanConfig    `yaml:"scan" json:"scan"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Corpus  CorpusConfig  `yaml:"corpus" json:"corpus"`
}

// ScanConfig configures the search command.
type ScanConfig struct {
	// Parallelism is the maximum number of batches in flight.
	Parallelism int `yaml:"parallelism" json:"parallelism"`

	// BatchSize is files per batch; 0 derives one batch per worker.
	BatchSize int `yaml:"batch_size" json:"batch_size"`

	// Backend is pool or process.
	Backend string `yaml:"backend" json:"backend"`

	// Recursive descends into subdirectories of the input directory.
	Recursive bool `yaml:"recursive" json:"recursive"`

	// MaxFileSize skips larger files, in bytes (0 = unlimited).
	MaxFileSize int64 `yaml:"max_file_size" json:"max_file_size"`

	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// CorpusConfig configures the gen command.
type CorpusConfig struct {
	// Source is the word list, an http(s) URL or a local file.
	Source string `yaml:"source" json:"source"`

	// Timeout bounds the word list download, as a Go duration string.
	Timeout string `yaml:"timeout" json:"timeout"`
}

// TimeoutDuration parses Timeout, falling back to the default on error.
func (c CorpusConfig) TimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultCorpusTimeout)
	return d
}

// NewConfig returns a Config with all defaults applied.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Scan: ScanConfig{
			Parallelism: DefaultParallelism,
			Backend:     DefaultBackend,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Corpus: CorpusConfig{
			Source:  DefaultCorpusSource,
			Timeout: DefaultCorpusTimeout,
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/wordscan/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/wordscan/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wordscan", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "wordscan", "config.yaml")
	}
	return filepath.Join(home, ".config", "wordscan", "config.yaml")
}

// Load loads configuration for the given working directory.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/wordscan/config.yaml)
//  3. Project config (.wordscan.yaml in dir)
//  4. Environment variables (WORDSCAN_*)
//
// Command-line flags are applied by the caller on top of the result.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if path := FindProjectConfig(dir); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads defaults overlaid with one explicit file, then env overrides.
func LoadFile(path string) (*Config, error) {
	if !fileExists(path) {
		return nil, scanerrors.New(scanerrors.ErrCodeConfigNotFound,
			fmt.Sprintf("config file %s not found", path), nil).WithDetail("path", path)
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindProjectConfig returns the project config path in dir, or "" if none.
func FindProjectConfig(dir string) string {
	for _, name := range ProjectConfigNames {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path
		}
	}
	return ""
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return scanerrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return scanerrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Scan.Parallelism != 0 {
		c.Scan.Parallelism = other.Scan.Parallelism
	}
	if other.Scan.BatchSize != 0 {
		c.Scan.BatchSize = other.Scan.BatchSize
	}
	if other.Scan.Backend != "" {
		c.Scan.Backend = other.Scan.Backend
	}
	if other.Scan.Recursive {
		c.Scan.Recursive = true
	}
	if other.Scan.MaxFileSize != 0 {
		c.Scan.MaxFileSize = other.Scan.MaxFileSize
	}
	if len(other.Scan.Include) > 0 {
		c.Scan.Include = other.Scan.Include
	}
	if len(other.Scan.Exclude) > 0 {
		c.Scan.Exclude = append(c.Scan.Exclude, other.Scan.Exclude...)
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}

	if other.Corpus.Source != "" {
		c.Corpus.Source = other.Corpus.Source
	}
	if other.Corpus.Timeout != "" {
		c.Corpus.Timeout = other.Corpus.Timeout
	}
}

// applyEnvOverrides applies WORDSCAN_* environment variable overrides.
// Malformed numbers are configuration errors rather than silently ignored.
func (c *Config) applyEnvOverrides() error {
	intVars := []struct {
		name string
		dst  *int
	}{
		{"WORDSCAN_PARALLELISM", &c.Scan.Parallelism},
		{"WORDSCAN_BATCH_SIZE", &c.Scan.BatchSize},
	}
	for _, v := range intVars {
		if s := os.Getenv(v.name); s != "" {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return scanerrors.ConfigError(fmt.Sprintf("%s must be an integer, got %q", v.name, s), err)
			}
			*v.dst = n
		}
	}

	if s := os.Getenv("WORDSCAN_MAX_FILE_SIZE"); s != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return scanerrors.ConfigError(fmt.Sprintf("WORDSCAN_MAX_FILE_SIZE must be an integer, got %q", s), err)
		}
		c.Scan.MaxFileSize = n
	}
	if s := os.Getenv("WORDSCAN_RECURSIVE"); s != "" {
		c.Scan.Recursive = strings.EqualFold(s, "true") || s == "1"
	}
	if s := os.Getenv("WORDSCAN_BACKEND"); s != "" {
		c.Scan.Backend = s
	}
	if s := os.Getenv("WORDSCAN_LOG_LEVEL"); s != "" {
		c.Logging.Level = s
	}
	if s := os.Getenv("WORDSCAN_CORPUS_SOURCE"); s != "" {
		c.Corpus.Source = s
	}
	if s := os.Getenv("WORDSCAN_CORPUS_TIMEOUT"); s != "" {
		c.Corpus.Timeout = s
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Scan.Parallelism < 1 {
		return scanerrors.ConfigError(fmt.Sprintf("scan.parallelism must be at least 1, got %d", c.Scan.Parallelism), nil)
	}
	if c.Scan.BatchSize < 0 {
		return scanerrors.ConfigError(fmt.Sprintf("scan.batch_size must be non-negative, got %d", c.Scan.BatchSize), nil)
	}
	if c.Scan.MaxFileSize < 0 {
		return scanerrors.ConfigError(fmt.Sprintf("scan.max_file_size must be non-negative, got %d", c.Scan.MaxFileSize), nil)
	}
	if _, err := backend.Canonical(c.Scan.Backend); err != nil {
		return scanerrors.ConfigError(fmt.Sprintf("scan.backend must be one of %s, got %q",
			strings.Join(backend.Names(), ", "), c.Scan.Backend), err)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return scanerrors.ConfigError(fmt.Sprintf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level), nil)
	}

	if d, err := time.ParseDuration(c.Corpus.Timeout); err != nil || d <= 0 {
		return scanerrors.ConfigError(fmt.Sprintf("corpus.timeout must be a positive duration, got %q", c.Corpus.Timeout), err)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file, creating parent directories.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
