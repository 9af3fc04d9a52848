package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all viewer host configuration.
type Config struct {
	DeepLink  DeepLinkConfig  `toml:"deep_link"`
	API       APIConfig       `toml:"api"`
	Window    WindowConfig    `toml:"window"`
	Webview   WebviewConfig   `toml:"webview"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// DeepLinkConfig holds URI-scheme and redelivery configuration.
type DeepLinkConfig struct {
	// Scheme is the URI scheme (without the colon) this host claims.
	Scheme string `envconfig:"BREEZE_SCHEME" default:"breeze" toml:"scheme"`
	// RetryDelays are the fixed redundant re-emission delays after a
	// window is created or the process launches with a pending link.
	RetryShort time.Duration `envconfig:"BREEZE_RETRY_SHORT" default:"500ms" toml:"retry_short"`
	RetryLong  time.Duration `envconfig:"BREEZE_RETRY_LONG" default:"1500ms" toml:"retry_long"`
	// SingleInstanceSocket is the path of the hand-off socket. Empty
	// means a per-user path under the system temp directory.
	SingleInstanceSocket string `envconfig:"BREEZE_SINGLE_INSTANCE_SOCKET" toml:"single_instance_socket"`
}

// APIConfig holds the local frontend API server configuration.
type APIConfig struct {
	Host string `envconfig:"BREEZE_API_HOST" default:"127.0.0.1" toml:"host"`
	Port string `envconfig:"BREEZE_API_PORT" default:"17870" toml:"port"`
}

// WindowConfig holds default window metadata handed to the webview shell.
type WindowConfig struct {
	Title  string `envconfig:"BREEZE_WINDOW_TITLE" default:"Breeze Remote Desktop" toml:"title"`
	Width  int    `envconfig:"BREEZE_WINDOW_WIDTH" default:"1280" toml:"width"`
	Height int    `envconfig:"BREEZE_WINDOW_HEIGHT" default:"800" toml:"height"`
}

// WebviewConfig holds the webview shell launcher configuration.
type WebviewConfig struct {
	// Command is the executable spawned per window. Empty runs the host
	// in headless mode: windows become logical records and content is
	// expected to attach over the websocket channel.
	Command string `envconfig:"BREEZE_WEBVIEW_COMMAND" toml:"command"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"BREEZE_LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"BREEZE_LOG_DEV" default:"false" toml:"development"`
}

// RateLimitConfig holds frontend API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"BREEZE_RATE_LIMIT_RPS" default:"100" toml:"requests_per_second"`
	Burst             int  `envconfig:"BREEZE_RATE_LIMIT_BURST" default:"200" toml:"burst"`
	Enabled           bool `envconfig:"BREEZE_RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ApplyFile overlays a TOML settings file onto cfg. Values present in
// the file win over environment and defaults.
func ApplyFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		DeepLink: DeepLinkConfig{
			Scheme:     "breeze",
			RetryShort: 500 * time.Millisecond,
			RetryLong:  1500 * time.Millisecond,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: "17870",
		},
		Window: WindowConfig{
			Title:  "Breeze Remote Desktop",
			Width:  1280,
			Height: 800,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
