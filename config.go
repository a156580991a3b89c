package sdk

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents a tessera.yaml client configuration file.
// It carries the connection settings and defaults a deployment wants to keep
// out of code; options passed to New take precedence over its values.
type Config struct {
	// BaseURL is the backend root, e.g. "https://tessera.example.com".
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key. The key
	// itself never lives in the file.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`

	// Timeout bounds each backend request.
	// Format: Go duration string (e.g. "30s", "1m")
	// Default: 30s
	Timeout string `yaml:"timeout,omitempty"`

	// Verify is the client-wide default for post-write verification.
	// Default: true
	Verify *bool `yaml:"verify,omitempty"`

	// Cache configures the column metadata cache.
	Cache *CacheConfig `yaml:"cache,omitempty"`
}

// CacheConfig configures the metadata cache backend.
type CacheConfig struct {
	// Backend selects the store: "memory", "redis" or "none".
	// Default: "memory"
	Backend string `yaml:"backend,omitempty"`

	// URL is the Redis connection string (for the redis backend).
	URL string `yaml:"url,omitempty"`

	// TTL bounds how long cached column metadata is trusted.
	// Format: Go duration string (e.g. "5m")
	// Default: 5m
	TTL string `yaml:"ttl,omitempty"`
}

// GetTimeout parses the timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (c *Config) GetTimeout() time.Duration {
	if c == nil || c.Timeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetVerify returns the configured verification default, or true when the
// file does not say.
func (c *Config) GetVerify() bool {
	if c == nil || c.Verify == nil {
		return true
	}
	return *c.Verify
}

// GetBackend returns the configured cache backend or the default value.
func (c *CacheConfig) GetBackend() string {
	if c == nil || c.Backend == "" {
		return "memory"
	}
	return c.Backend
}

// GetTTL parses the TTL string and returns a duration.
// Returns the default value if not set or invalid.
func (c *CacheConfig) GetTTL() time.Duration {
	if c == nil || c.TTL == "" {
		return 5 * time.Minute
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// LoadConfig reads and parses a tessera.yaml file from the given path.
// If the path is a directory, it looks for tessera.yaml or tessera.yml in
// that directory.
func LoadConfig(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var configPath string
	if info.IsDir() {
		// Try tessera.yaml first, then tessera.yml
		yamlPath := filepath.Join(path, "tessera.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "tessera.yml")
			if _, err := os.Stat(ymlPath); err == nil {
				configPath = ymlPath
			} else {
				return nil, fmt.Errorf("no tessera.yaml or tessera.yml found in %s", path)
			}
		}
	} else {
		configPath = path
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}
