// Package config provides configuration loading for Agora.
//
// Precedence, lowest to highest: built-in defaults, agora.yaml in the
// working directory (or the file named by --config), environment
// variables (AGORA_*).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	agoraerrors "github.com/mleroy/agora/internal/errors"
)

// Config is the complete Agora configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" json:"data"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Reload  ReloadConfig  `yaml:"reload" json:"reload"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DataConfig locates the exported corpus on disk.
type DataConfig struct {
	// Path is the corpus root: _export.yml, category directories, topic files.
	Path string `yaml:"path" json:"path"`
	// ImagesPath is the exported image asset directory, served verbatim.
	// Empty defaults to <path>/images.
	ImagesPath string `yaml:"images_path" json:"images_path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// CacheConfig sizes the rendered-HTML memoization cache.
type CacheConfig struct {
	// RenderedTopics is the LRU capacity for rendered topic bodies.
	RenderedTopics int `yaml:"rendered_topics" json:"rendered_topics"`
}

// ReloadConfig controls the data-directory watcher.
type ReloadConfig struct {
	// Enabled turns on hot reload of the corpus on file changes.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Debounce is the quiet window before a reload is triggered.
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// FilePath is the log file; empty logs to stderr only.
	FilePath  string `yaml:"file_path" json:"file_path"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Data: DataConfig{
			Path: "./data",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ShutdownTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			RenderedTopics: 512,
		},
		Reload: ReloadConfig{
			Enabled:  false,
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// Load builds the effective configuration. path may name an explicit
// config file; when empty, agora.yaml / agora.yml in dir are tried and
// absence is not an error.
func Load(dir, path string) (*Config, error) {
	cfg := New()

	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	} else if err := cfg.loadFromDir(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromDir attempts agora.yaml then agora.yml in dir.
func (c *Config) loadFromDir(dir string) error {
	for _, name := range []string{"agora.yaml", "agora.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return c.loadYAML(p)
		}
	}
	// No config file is fine, defaults apply.
	return nil
}

// loadYAML merges configuration from a YAML file over the current values.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return agoraerrors.New(agoraerrors.ErrCodeConfigNotFound,
			fmt.Sprintf("cannot read config file %s", path), err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return agoraerrors.New(agoraerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("cannot parse config file %s", path), err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Data.Path != "" {
		c.Data.Path = other.Data.Path
	}
	if other.Data.ImagesPath != "" {
		c.Data.ImagesPath = other.Data.ImagesPath
	}
	if other.Server.Host != "" {
		c.Server.Host = other.Server.Host
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
	if other.Cache.RenderedTopics != 0 {
		c.Cache.RenderedTopics = other.Cache.RenderedTopics
	}
	if other.Reload.Enabled {
		c.Reload.Enabled = true
	}
	if other.Reload.Debounce != 0 {
		c.Reload.Debounce = other.Reload.Debounce
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.FilePath != "" {
		c.Logging.FilePath = other.Logging.FilePath
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxFiles != 0 {
		c.Logging.MaxFiles = other.Logging.MaxFiles
	}
}

// applyEnvOverrides applies AGORA_* environment variables, the highest
// precedence configuration source.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AGORA_DATA_PATH"); v != "" {
		c.Data.Path = v
	}
	if v := os.Getenv("AGORA_IMAGES_PATH"); v != "" {
		c.Data.ImagesPath = v
	}
	if v := os.Getenv("AGORA_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("AGORA_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("AGORA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("AGORA_RELOAD"); v != "" {
		c.Reload.Enabled = strings.ToLower(v) == "true" || v == "1"
	}
}

// ImagesDir returns the effective images directory.
func (c *Config) ImagesDir() string {
	if c.Data.ImagesPath != "" {
		return c.Data.ImagesPath
	}
	return filepath.Join(c.Data.Path, "images")
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks the final configuration for consistency.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return agoraerrors.ConfigError("data.path must not be empty", nil)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return agoraerrors.ConfigError(
			fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port), nil)
	}
	if c.Cache.RenderedTopics < 0 {
		return agoraerrors.ConfigError(
			fmt.Sprintf("cache.rendered_topics must be non-negative, got %d", c.Cache.RenderedTopics), nil)
	}
	if c.Reload.Debounce < 0 {
		return agoraerrors.ConfigError(
			fmt.Sprintf("reload.debounce must be non-negative, got %s", c.Reload.Debounce), nil)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return agoraerrors.ConfigError(
			fmt.Sprintf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level), nil)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return agoraerrors.ConfigError("cannot marshal config", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return agoraerrors.ConfigError(fmt.Sprintf("cannot write config file %s", path), err)
	}

	return nil
}
