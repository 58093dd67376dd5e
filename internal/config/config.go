// Package config loads client configuration from an optional YAML file
// and LOOPSTATE_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the client needs at startup.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Identity IdentityConfig `yaml:"identity"`
	Log      LogConfig      `yaml:"log"`
	UI       UIConfig       `yaml:"ui"`
}

type BackendConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
}

// Duration lets YAML carry "10s"-style values
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// IdentityConfig describes the external auth/wallet provider. Only the
// capability surface is consumed here; the provider protocol itself is
// not part of this client.
type IdentityConfig struct {
	AppID               string   `yaml:"app_id"`
	LoginMethods        []string `yaml:"login_methods"`
	CreateWalletOnLogin bool     `yaml:"create_wallet_on_login"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type UIConfig struct {
	Theme string `yaml:"theme"`
}

// Load reads configuration with defaults, then the YAML file named by
// path (or LOOPSTATE_CONFIG_PATH when path is empty), then env overrides.
func Load(path string) (Config, error) {
	cfg := Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: Duration(30 * time.Second),
		},
		Identity: IdentityConfig{
			LoginMethods:        []string{"email", "wallet"},
			CreateWalletOnLogin: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: "loopstate",
		},
	}

	if path == "" {
		path = os.Getenv("LOOPSTATE_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if base := os.Getenv("LOOPSTATE_BASE_URL"); base != "" {
		cfg.Backend.BaseURL = base
	}
	if timeoutStr := os.Getenv("LOOPSTATE_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOOPSTATE_TIMEOUT: %w", err)
		}
		cfg.Backend.Timeout = Duration(timeout)
	}
	if level := os.Getenv("LOOPSTATE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if appID := os.Getenv("LOOPSTATE_IDENTITY_APP_ID"); appID != "" {
		cfg.Identity.AppID = appID
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
