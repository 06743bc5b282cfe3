// Package config loads npb-mcp settings from NPB_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/pfrederiksen/npb-mcp/internal/logger"
)

const envPrefix = "NPB"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BaseURL     string        `envconfig:"BASE_URL" default:"https://npb.jp"`
	UserAgent   string        `envconfig:"USER_AGENT" default:"npb-mcp/1.0"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`
	HTTPAddr    string        `envconfig:"HTTP_ADDR" default:""`
	MCPPath     string        `envconfig:"MCP_PATH" default:"/mcp"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("NPB_BASE_URL must not be empty")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("NPB_HTTP_TIMEOUT must not be negative: %s", c.HTTPTimeout)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("NPB_LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the parsed log level. Load has already validated it.
func (c *Config) Level() logger.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}
