// Package config handles configuration parsing for media-login.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/acolita/media-login/internal/mediaserver"
	"github.com/acolita/media-login/internal/ports"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default config file path:
// $XDG_CONFIG_HOME/media-login/config.yaml or ~/.config/media-login/config.yaml
func DefaultConfigPath(fsys ...ports.FileSystem) string {
	getenv, home := os.Getenv, os.UserHomeDir
	if len(fsys) > 0 && fsys[0] != nil {
		getenv, home = fsys[0].Getenv, fsys[0].UserHomeDir
	}

	dir := getenv("XDG_CONFIG_HOME")
	if dir == "" {
		h, err := home()
		if err != nil {
			return ""
		}
		dir = filepath.Join(h, ".config")
	}
	return filepath.Join(dir, "media-login", "config.yaml")
}

// Config represents the top-level configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	MediaServer   MediaServerConfig   `yaml:"media_server"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
	MCP           MCPConfig           `yaml:"mcp"`
}

// ServerConfig locates the application whose auth API the form talks to.
type ServerConfig struct {
	URL            string        `yaml:"url"`             // base URL, e.g. http://localhost:5055
	RequestTimeout time.Duration `yaml:"request_timeout"` // per-request HTTP timeout
}

// MediaServerConfig is the configured media server. An unset type means
// the initial setup has not happened yet.
type MediaServerConfig struct {
	Type              mediaserver.ServerType `yaml:"type"` // "jellyfin" or "emby"
	Host              string                 `yaml:"host"`
	ExternalHost      string                 `yaml:"external_host"`
	ForgotPasswordURL string                 `yaml:"forgot_password_url"`
}

// NotificationsConfig defines toast behavior.
type NotificationsConfig struct {
	DismissAfter time.Duration `yaml:"dismiss_after"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // "debug", "info", "warn", "error"
	Sanitize bool   `yaml:"sanitize"` // sanitize sensitive data from logs
}

// MCPConfig limits what an agent may do through the MCP tools.
type MCPConfig struct {
	MaxAuthFailures int           `yaml:"max_auth_failures"` // rejected sign-ins before lockout
	AuthLockout     time.Duration `yaml:"auth_lockout"`      // lockout duration
}

// Defaults applied by DefaultConfig and Validate.
const (
	DefaultServerURL       = "http://localhost:5055"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultDismissAfter    = 5 * time.Second
	DefaultMaxAuthFailures = 5
	DefaultAuthLockout     = 5 * time.Minute
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            DefaultServerURL,
			RequestTimeout: DefaultRequestTimeout,
		},
		Notifications: NotificationsConfig{
			DismissAfter: DefaultDismissAfter,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Sanitize: true,
		},
		MCP: MCPConfig{
			MaxAuthFailures: DefaultMaxAuthFailures,
			AuthLockout:     DefaultAuthLockout,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Load(path string, fsys ...ports.FileSystem) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	var data []byte
	var err error
	if len(fsys) > 0 && fsys[0] != nil {
		data, err = fsys[0].ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and fills zero durations with defaults.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server.url: missing host")
	}

	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}
	if c.Notifications.DismissAfter <= 0 {
		c.Notifications.DismissAfter = DefaultDismissAfter
	}
	if c.MCP.MaxAuthFailures < 0 {
		return fmt.Errorf("mcp.max_auth_failures must not be negative")
	}
	if c.MCP.MaxAuthFailures == 0 {
		c.MCP.MaxAuthFailures = DefaultMaxAuthFailures
	}
	if c.MCP.AuthLockout <= 0 {
		c.MCP.AuthLockout = DefaultAuthLockout
	}
	return nil
}

// NeedsSetup reports whether no media server has been configured yet.
func (c *Config) NeedsSetup() bool {
	return !c.MediaServer.Type.Valid()
}

// Settings returns the settings view consumed by the login form.
func (c *Config) Settings() ports.Settings {
	return ports.Settings{
		JellyfinExternalHost:      c.MediaServer.ExternalHost,
		JellyfinHost:              c.MediaServer.Host,
		JellyfinForgotPasswordURL: c.MediaServer.ForgotPasswordURL,
		MediaServerType:           c.MediaServer.Type,
	}
}

// Static is a SettingsProvider over a fixed configuration.
type Static struct {
	cfg *Config
}

// NewStatic wraps cfg.
func NewStatic(cfg *Config) *Static {
	return &Static{cfg: cfg}
}

// CurrentSettings implements ports.SettingsProvider.
func (s *Static) CurrentSettings() ports.Settings {
	return s.cfg.Settings()
}
