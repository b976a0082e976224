// Package config loads the TOML configuration of the client and the server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment overrides.
const (
	EnvInsightsAPIKey = "FINKEEPER_INSIGHTS_API_KEY"
	EnvServerURL      = "FINKEEPER_SERVER_URL"
	EnvDSN            = "FINKEEPER_DSN"
	EnvUser           = "FINKEEPER_USER"
)

const appName = "finkeeper"

// Client holds the CLI configuration.
type Client struct {
	Server   ServerEndpoint `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Insights InsightsConfig `toml:"insights"`
	Display  DisplayConfig  `toml:"display"`
}

// ServerEndpoint describes how the client reaches the backend.
type ServerEndpoint struct {
	URL  string `toml:"url"`
	User string `toml:"user"` // sent as X-User-ID
}

// StorageConfig holds the local cache location.
type StorageConfig struct {
	DBPath string `toml:"db_path,omitempty"`
}

// InsightsConfig holds the LLM endpoint settings.
type InsightsConfig struct {
	APIKey         string `toml:"api_key,omitempty"`
	BaseURL        string `toml:"base_url,omitempty"`
	Model          string `toml:"model,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (c InsightsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DisplayConfig holds output preferences.
type DisplayConfig struct {
	Currency string `toml:"currency"`
	PageSize int    `toml:"page_size"`
}

// DefaultClient returns the default client configuration.
func DefaultClient() Client {
	return Client{
		Server: ServerEndpoint{
			URL:  "http://localhost:8080",
			User: "local",
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(Dir(), "cache.db"),
		},
		Insights: InsightsConfig{
			TimeoutSeconds: 30,
		},
		Display: DisplayConfig{
			Currency: "USD",
			PageSize: 20,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ClientPath returns the default client config file path.
func ClientPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// ReadClient reads the client config at path without environment overrides.
// Use it before SaveClient so overrides don't end up in the file.
func ReadClient(path string) (Client, error) {
	cfg := DefaultClient()
	err := decodeFile(path, &cfg)
	return cfg, err
}

// LoadClient reads the client config at path, returning defaults if the file
// doesn't exist. Environment overrides are applied on top.
func LoadClient(path string) (Client, error) {
	cfg, err := ReadClient(path)
	if err != nil {
		return cfg, err
	}

	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv(EnvUser); v != "" {
		cfg.Server.User = v
	}
	if v := os.Getenv(EnvInsightsAPIKey); v != "" {
		cfg.Insights.APIKey = v
	}

	return cfg, nil
}

// SaveClient writes cfg to path, creating the directory if needed.
func SaveClient(path string, cfg Client) error {
	return encodeFile(path, cfg)
}

// Server holds the backend configuration.
type Server struct {
	HTTP      HTTPConfig      `toml:"http"`
	Database  DatabaseConfig  `toml:"database"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Log       LogConfig       `toml:"log"`
}

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// DatabaseConfig holds the DSN. A postgres:// or postgresql:// DSN selects
// PostgreSQL, anything else is a SQLite file path.
type DatabaseConfig struct {
	DSN string `toml:"dsn"`
}

// RateLimitConfig configures the per-IP token bucket.
type RateLimitConfig struct {
	Requests int `toml:"requests"` // tokens per window
	WindowS  int `toml:"window_seconds"`
}

// Window returns the refill window.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowS) * time.Second
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// DefaultServer returns the default server configuration.
func DefaultServer() Server {
	return Server{
		HTTP:      HTTPConfig{Addr: ":8080"},
		Database:  DatabaseConfig{DSN: "finkeeper.db"},
		RateLimit: RateLimitConfig{Requests: 100, WindowS: 60},
		Log:       LogConfig{Level: "info"},
	}
}

// LoadServer reads the server config. An empty path means defaults only.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv(EnvDSN); v != "" {
		cfg.Database.DSN = v
	}

	return cfg, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func encodeFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := toml.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
