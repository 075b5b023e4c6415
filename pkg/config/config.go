package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "milkreport"
	configFile = "config.yaml"
)

// Config holds the credentials and settings needed to talk to the
// Remember The Milk API. It is loaded once at startup and passed
// explicitly into the client and normalizer; there is no package-level
// state.
type Config struct {
	APIKey       string `yaml:"api_key"`
	SharedSecret string `yaml:"shared_secret"`
	Token        string `yaml:"token"`
	Timezone     string `yaml:"timezone"`
	CacheDir     string `yaml:"cache_dir"`
	// CacheMaxAge is the freshness window for task query responses,
	// e.g. "1h" or "3m". Lists always use one hour.
	CacheMaxAge string `yaml:"cache_max_age"`
}

func DefaultConfig() *Config {
	return &Config{
		Timezone:    "UTC",
		CacheMaxAge: "1h",
	}
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, configFile), nil
}

// DefaultCacheDir is used when cache_dir is not set in the config file.
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, "cache"), nil
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.APIKey == "" || cfg.SharedSecret == "" {
		return nil, fmt.Errorf("config %s is missing api_key or shared_secret", path)
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir, err = DefaultCacheDir()
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Location resolves the configured timezone name.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// MaxAge parses the configured task cache freshness window.
func (c *Config) MaxAge() (time.Duration, error) {
	if c.CacheMaxAge == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(c.CacheMaxAge)
	if err != nil {
		return 0, fmt.Errorf("invalid cache_max_age %q: %w", c.CacheMaxAge, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("cache_max_age must not be negative: %s", c.CacheMaxAge)
	}
	return d, nil
}
