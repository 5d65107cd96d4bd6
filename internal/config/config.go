// Package config loads adchat configuration from flags, environment
// variables and .env files, with viper mediating precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults applied when neither flags nor environment provide a value.
const (
	DefaultEndpointURL          = "ws://localhost:8000/ws/chat"
	DefaultReconnectInterval    = 5 * time.Second
	DefaultMaxReconnectAttempts = 5
)

// Config holds the resolved runtime configuration.
type Config struct {
	// EndpointURL is the WebSocket address of the assistant service.
	EndpointURL string

	// StateDir is where persisted partitions live (default ~/.adchat).
	StateDir string

	LogLevel string
	LogFile  string

	// Reconnect tuning for the connection client.
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int
}

// Load resolves configuration with precedence: flags (already bound into
// viper by the command) > environment (ADCHAT_*) > .env file > defaults.
func Load() (*Config, error) {
	// Best-effort .env load; a missing file is the normal case.
	_ = godotenv.Load()

	viper.SetEnvPrefix("ADCHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("endpoint", DefaultEndpointURL)
	viper.SetDefault("log-level", "")
	viper.SetDefault("log-file", "")
	viper.SetDefault("reconnect-interval", DefaultReconnectInterval)
	viper.SetDefault("max-reconnect-attempts", DefaultMaxReconnectAttempts)

	stateDir := viper.GetString("state-dir")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".adchat")
	}

	cfg := &Config{
		EndpointURL:          viper.GetString("endpoint"),
		StateDir:             stateDir,
		LogLevel:             viper.GetString("log-level"),
		LogFile:              viper.GetString("log-file"),
		ReconnectInterval:    viper.GetDuration("reconnect-interval"),
		MaxReconnectAttempts: viper.GetInt("max-reconnect-attempts"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the resolved configuration for values the client cannot
// operate with.
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("endpoint URL cannot be empty")
	}
	if c.ReconnectInterval <= 0 {
		return fmt.Errorf("reconnect interval must be positive")
	}
	if c.MaxReconnectAttempts < 0 {
		return fmt.Errorf("max reconnect attempts cannot be negative")
	}
	return nil
}
