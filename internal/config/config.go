package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"connecthub/pkg/logging"
)

const (
	userConfigDir  = ".config/connecthub"
	configFileName = "config.yaml"

	// DefaultHost is where the dashboard binds. The dashboard is a
	// single-operator local tool and never listens on other interfaces by
	// default.
	DefaultHost = "localhost"
	DefaultPort = 7777
)

// Config is the top-level configuration for connecthub.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`

	// ConnectorRoot overrides where connector packages and credentials
	// live. Defaults to <config dir>/connectors.
	ConnectorRoot string `yaml:"connectorRoot,omitempty"`

	// DashboardDist points at a built static dashboard to serve for
	// non-API paths. Empty disables the SPA fallback.
	DashboardDist string `yaml:"dashboardDist,omitempty"`
}

// DashboardConfig configures the local dashboard HTTP server.
type DashboardConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// Addr returns the host:port the dashboard listens on.
func (d DashboardConfig) Addr() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// BaseURL returns the http origin the dashboard serves from.
func (d DashboardConfig) BaseURL() string {
	return fmt.Sprintf("http://%s", d.Addr())
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dashboard: DashboardConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
	}
}

// DefaultConfigPath returns the per-user configuration directory.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// GetDefaultConfigPathOrPanic is DefaultConfigPath for flag defaults, where
// there is no way to return an error.
func GetDefaultConfigPathOrPanic() string {
	path, err := DefaultConfigPath()
	if err != nil {
		panic(err)
	}
	return path
}

// Load reads config.yaml from the given directory. A missing file yields the
// defaults; a malformed file is an error, since silently ignoring an
// operator's config would be worse than failing to start.
func Load(configPath string) (Config, error) {
	cfg := Default()

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
			return cfg, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}

	if cfg.Dashboard.Host == "" {
		cfg.Dashboard.Host = DefaultHost
	}
	if cfg.Dashboard.Port == 0 {
		cfg.Dashboard.Port = DefaultPort
	}

	logging.Info("Config", "Loaded configuration from %s", configFilePath)
	return cfg, nil
}

// ResolveConnectorRoot returns the directory connector packages live in,
// honoring the config override.
func (c Config) ResolveConnectorRoot(configPath string) string {
	if c.ConnectorRoot != "" {
		return c.ConnectorRoot
	}
	return filepath.Join(configPath, "connectors")
}
