// Package config holds settings for the inspector/diagserver tooling
// around the front-end. It never carries assembler-semantic options —
// how a source file lexes and parses depends on nothing here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the tool-operator configuration for the supplemental
// inspector TUI and diagserver HTTP/WebSocket server.
type Config struct {
	// Inspector settings (terminal UI, §6 supplemental tooling)
	Inspector struct {
		ColorOutput   bool   `toml:"color_output"`
		LexemesPerRow int    `toml:"lexemes_per_row"`
		StatementCtx  int    `toml:"statement_context"`
		NumberFormat  string `toml:"number_format"` // hex, dec, both
	} `toml:"inspector"`

	// Server settings (diagserver)
	Server struct {
		Addr           string `toml:"addr"`
		EnableWebsocket bool  `toml:"enable_websocket"`
		MaxClients     int    `toml:"max_clients"`
	} `toml:"server"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Inspector.ColorOutput = true
	cfg.Inspector.LexemesPerRow = 8
	cfg.Inspector.StatementCtx = 5
	cfg.Inspector.NumberFormat = "hex"

	cfg.Server.Addr = "127.0.0.1:8787"
	cfg.Server.EnableWebsocket = true
	cfg.Server.MaxClients = 16

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "x64asm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "x64asm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file
// yields defaults rather than an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
