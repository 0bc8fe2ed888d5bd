// Package config loads the notify CLI configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	AppName          string `koanf:"app_name"`           // overrides the executable-name default
	DebugNamespace   bool   `koanf:"debug_namespace"`    // talk to the debug bus name instead of the real one
	DefaultTimeoutMs int    `koanf:"default_timeout_ms"` // -1 = server default, 0 = never expire

	Serve ServeConfig `koanf:"serve"`
	Log   LogConfig   `koanf:"log"`
}

// ServeConfig configures the `notify serve` endpoint.
type ServeConfig struct {
	Name         string   `koanf:"name"`         // reported by GetServerInformation
	Vendor       string   `koanf:"vendor"`       // reported by GetServerInformation
	Capabilities []string `koanf:"capabilities"` // reported by GetCapabilities
}

// LogConfig configures the `notify serve` logger.
type LogConfig struct {
	Development bool `koanf:"development"` // human-readable output, debug level
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		DefaultTimeoutMs: -1,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func configPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/notify/config.toml
		filepath.Join(xdg.ConfigHome, "notify", "config.toml"),
		// 2. ./notify.toml (pwd, highest priority)
		"notify.toml",
	}
}

// GetServeConfig returns the serve configuration with defaults applied.
func (c *Config) GetServeConfig() ServeConfig {
	cfg := c.Serve

	if cfg.Name == "" {
		cfg.Name = "notify"
	}
	if cfg.Vendor == "" {
		cfg.Vendor = "llehouerou"
	}
	if len(cfg.Capabilities) == 0 {
		cfg.Capabilities = []string{"actions", "body", "body-markup"}
	}

	return cfg
}
