// Package config handles configuration for bitechat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the user configuration. Values come from
// ~/.bitechat/config.json, overridden by BITECHAT_* environment variables
// (a .env file in the working directory is honored too).
type Config struct {
	// Endpoint is the chat endpoint the widget talks to.
	Endpoint string `json:"endpoint"`
	// TimeoutSeconds bounds one exchange. The transport timeout is the
	// only timeout the widget has.
	TimeoutSeconds int `json:"timeout_seconds"`
	// ListenAddr is where `bitechat serve` binds.
	ListenAddr string `json:"listen_addr"`
	// DataDir holds the responder's restaurant data files. Empty means
	// the embedded defaults.
	DataDir string `json:"data_dir,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:       "http://localhost:8000/chat",
		TimeoutSeconds: 15,
		ListenAddr:     ":8000",
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".bitechat"), nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk and applies env overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return applyEnv(DefaultConfig()), fmt.Errorf("failed to parse config file: %w", err)
	}

	return applyEnv(cfg), nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, "config.json"), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv layers BITECHAT_* variables over cfg. A missing .env file is
// fine, the variables may already be set in the environment.
func applyEnv(cfg Config) Config {
	_ = godotenv.Load()

	if v := os.Getenv("BITECHAT_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("BITECHAT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("BITECHAT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("BITECHAT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	return cfg
}
