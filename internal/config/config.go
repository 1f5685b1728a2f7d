// ABOUTME: Configuration loading and parsing for assist-console
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/2389/assist-console/internal/session"
)

// EnvConfigPath names the environment variable holding the config path.
const EnvConfigPath = "ASSIST_CONFIG"

// Session drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config represents the complete assist-console configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Backend  BackendConfig  `yaml:"backend" toml:"backend"`
	Session  SessionConfig  `yaml:"session" toml:"session"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Chat     ChatConfig     `yaml:"chat" toml:"chat"`
	Auth     AuthConfig     `yaml:"auth" toml:"auth"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// ServerConfig holds the web admin listener configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
}

// BackendConfig points at the assistant backend
type BackendConfig struct {
	// BaseURL is where the dashboard endpoints live (the backend mounts them under /debug)
	BaseURL string `yaml:"base_url" toml:"base_url"`
	// ChatURL is where /chat/generate-reply lives
	ChatURL string `yaml:"chat_url" toml:"chat_url"`

	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout"`
}

// SessionConfig selects where the CLI keeps its credential
type SessionConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	Dir    string `yaml:"dir" toml:"dir"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// ChatConfig holds chat widget configuration
type ChatConfig struct {
	UserID       string `yaml:"user_id" toml:"user_id"`
	AutoReply    bool   `yaml:"auto_reply" toml:"auto_reply"`
	HistoryLimit int    `yaml:"history_limit" toml:"history_limit"`
}

// AuthConfig holds gate configuration
type AuthConfig struct {
	// CheckExpiry treats a stored token with a past exp claim as absent
	CheckExpiry bool `yaml:"check_expiry" toml:"check_expiry"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	// File, when set, receives logs through a rotating writer
	File string `yaml:"file" toml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	dir := session.DefaultDir()
	return &Config{
		Server: ServerConfig{HTTPAddr: "127.0.0.1:8090"},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000/debug",
			ChatURL: "http://localhost:8000",
		},
		Session:  SessionConfig{Driver: DriverFile, Dir: dir},
		Database: DatabaseConfig{Path: filepath.Join(dir, "console.db")},
		Chat: ChatConfig{
			UserID:       "local_user",
			AutoReply:    true,
			HistoryLimit: 50,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/assist-console/config.yaml.
func DefaultPath() string {
	return filepath.Join(session.DefaultDir(), "config.yaml")
}

// ResolvePath picks the config path: flag, then ASSIST_CONFIG, then DefaultPath.
// explicit is false only for DefaultPath.
func ResolvePath(flag string) (path string, explicit bool) {
	if flag != "" {
		return flag, true
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true
	}
	return DefaultPath(), false
}

// LoadOrDefault loads path, falling back to defaults when an implicit path
// does not exist. A missing explicit path is an error.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are parsed as TOML, anything else as YAML. Keys absent
// from the file keep their defaults. Environment variables in the format
// ${VAR_NAME} are expanded. Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expandedData, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Session.Dir = expandHome(cfg.Session.Dir)
	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	// Parse duration fields
	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if err := validateURL("backend.base_url", c.Backend.BaseURL); err != nil {
		return err
	}
	if err := validateURL("backend.chat_url", c.Backend.ChatURL); err != nil {
		return err
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}

	switch c.Session.Driver {
	case DriverFile:
		if c.Session.Dir == "" {
			return fmt.Errorf("session.dir is required for the file driver")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("session.driver must be one of file, sqlite, memory (got %q)", c.Session.Driver)
	}

	if c.Chat.UserID == "" {
		return fmt.Errorf("chat.user_id is required")
	}
	if c.Chat.HistoryLimit < 0 {
		return fmt.Errorf("chat.history_limit must not be negative")
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json (got %q)", c.Logging.Format)
	}

	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme", field)
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Backend.TimeoutRaw != "" {
		cfg.Backend.Timeout, err = time.ParseDuration(cfg.Backend.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.Backend.TimeoutRaw, err)
		}
	}

	return nil
}
