package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	GRPC      GRPCConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Viewport  ViewportConfig
	Registry  RegistryConfig
	Gate      GateConfig
	Storage   StorageConfig
	Settings  SettingsConfig
	Assistant AssistantConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// GRPCConfig holds the gRPC health endpoint configuration.
type GRPCConfig struct {
	Address string `envconfig:"GRPC_ADDR" default:"0.0.0.0:50051"`
	Enabled bool   `envconfig:"GRPC_ENABLED" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// ViewportConfig describes the client display used for maximized bounds.
type ViewportConfig struct {
	Width       int `envconfig:"VIEWPORT_WIDTH" default:"1920"`
	Height      int `envconfig:"VIEWPORT_HEIGHT" default:"1080"`
	DockReserve int `envconfig:"DOCK_RESERVE" default:"96"`
}

// RegistryConfig points at an optional application manifest.
type RegistryConfig struct {
	Manifest string `envconfig:"APPS_MANIFEST"`
}

// GateConfig holds the accepted session gate credentials.
type GateConfig struct {
	Passwords []string `envconfig:"GATE_PASSWORDS" default:"admin,1234"`
}

// StorageConfig holds storage tree persistence settings.
type StorageConfig struct {
	Path string `envconfig:"STORAGE_PATH"`
}

// SettingsConfig holds system settings persistence settings.
type SettingsConfig struct {
	Path string `envconfig:"SETTINGS_PATH"`
}

// AssistantConfig holds the conversational assistant client settings.
type AssistantConfig struct {
	APIKey  string        `envconfig:"ASSISTANT_API_KEY"`
	Model   string        `envconfig:"ASSISTANT_MODEL" default:"gemini-2.5-flash"`
	BaseURL string        `envconfig:"ASSISTANT_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout time.Duration `envconfig:"ASSISTANT_TIMEOUT" default:"30s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

// Validate rejects settings the desktop cannot run with.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Viewport.DockReserve < 0 || c.Viewport.DockReserve >= c.Viewport.Height {
		return fmt.Errorf("invalid dock reserve %d", c.Viewport.DockReserve)
	}
	if len(c.Gate.Passwords) == 0 {
		return fmt.Errorf("at least one gate password is required")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		GRPC: GRPCConfig{
			Address: "0.0.0.0:50051",
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Viewport: ViewportConfig{
			Width:       1920,
			Height:      1080,
			DockReserve: 96,
		},
		Gate: GateConfig{
			Passwords: []string{"admin", "1234"},
		},
		Assistant: AssistantConfig{
			Model:   "gemini-2.5-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: 30 * time.Second,
		},
	}
}
