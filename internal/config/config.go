// Package config loads the client configuration from a JSON file with
// environment-variable overrides for deployment-specific values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variables that override file values
const (
	EnvWSURL       = "FRAUDLENS_WS_URL"
	EnvAPIEndpoint = "FRAUDLENS_API_ENDPOINT"
	EnvDataDir     = "FRAUDLENS_DATA_DIR"

	// DefaultTokenEnv is where the bearer token is read from unless the
	// config points elsewhere. The token itself never lives in the file.
	DefaultTokenEnv = "FRAUDLENS_TOKEN"
)

// Config represents the client configuration
type Config struct {
	// WebSocketURL is the streaming endpoint, e.g. wss://host/prod
	WebSocketURL string `json:"websocket_url"`

	// ChatEndpoint is the non-streaming HTTP fallback base URL
	ChatEndpoint string `json:"chat_endpoint,omitempty"`

	// TokenEnv names the environment variable holding the bearer token
	TokenEnv string `json:"token_env,omitempty"`

	DataDir     string          `json:"data_dir,omitempty"`
	ActionsFile string          `json:"actions_file,omitempty"`
	Transport   TransportConfig `json:"transport,omitempty"`
	Debug       DebugConfig     `json:"debug,omitempty"`
}

// TransportConfig tunes the streaming transport. Zero values mean the
// transport defaults (30s list deadline, 5 reconnect attempts, 1s base).
type TransportConfig struct {
	ListTimeoutSeconds   int `json:"list_timeout_seconds,omitempty"`
	MaxReconnectAttempts int `json:"max_reconnect_attempts,omitempty"`
	ReconnectBaseMS      int `json:"reconnect_base_ms,omitempty"`
}

// DebugConfig contains debugging and logging settings
type DebugConfig struct {
	VerboseLogging bool `json:"verbose_logging,omitempty"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		TokenEnv: DefaultTokenEnv,
	}
}

// Load reads the config file at path and applies environment overrides.
// A missing file is not an error; defaults plus environment carry a fully
// env-configured deployment.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	cfg.expandTilde()

	if cfg.TokenEnv == "" {
		cfg.TokenEnv = DefaultTokenEnv
	}
	return cfg, nil
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvWSURL); v != "" {
		c.WebSocketURL = v
	}
	if v := os.Getenv(EnvAPIEndpoint); v != "" {
		c.ChatEndpoint = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
}

func (c *Config) expandTilde() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	for _, p := range []*string{&c.DataDir, &c.ActionsFile} {
		if strings.HasPrefix(*p, "~/") {
			*p = filepath.Join(home, (*p)[2:])
		}
	}
}

// Token returns the bearer token from the configured environment variable,
// or "" when none is set.
func (c *Config) Token() string {
	env := c.TokenEnv
	if env == "" {
		env = DefaultTokenEnv
	}
	return os.Getenv(env)
}

// ListTimeout returns the configured list deadline, or 0 for the transport
// default.
func (c *Config) ListTimeout() time.Duration {
	return time.Duration(c.Transport.ListTimeoutSeconds) * time.Second
}

// ReconnectBase returns the configured backoff base, or 0 for the transport
// default.
func (c *Config) ReconnectBase() time.Duration {
	return time.Duration(c.Transport.ReconnectBaseMS) * time.Millisecond
}
