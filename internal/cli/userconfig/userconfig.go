// Package userconfig stores the CLI's per-user defaults in
// ~/.config/folio/config.yaml.
package userconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "folio"
	configFileName = "config.yaml"
)

// Keys accepted by Set
const (
	KeyAPIURL     = "api_url"
	KeyOutput     = "output"
	KeyTokenStore = "token_store"
)

// UserConfig holds defaults that flags and environment variables override
type UserConfig struct {
	APIURL     string `yaml:"api_url,omitempty"`
	Output     string `yaml:"output,omitempty"`
	TokenStore string `yaml:"token_store,omitempty"`
}

// GetConfigPath returns the path to the user config file. FOLIO_CONFIG
// overrides the default location.
func GetConfigPath() (string, error) {
	if path := os.Getenv("FOLIO_CONFIG"); path != "" {
		return path, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	return filepath.Join(configDir, configDirName, configFileName), nil
}

// Load reads the user configuration file. A missing file is an empty config.
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to its file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// Set updates one key and saves the config
func Set(key, value string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	switch key {
	case KeyAPIURL:
		cfg.APIURL = value
	case KeyOutput:
		cfg.Output = value
	case KeyTokenStore:
		cfg.TokenStore = value
	default:
		return fmt.Errorf("unknown key %q, must be one of: %s, %s, %s", key, KeyAPIURL, KeyOutput, KeyTokenStore)
	}

	return Save(cfg)
}
