// Package config provides configuration management for kai.
//
// Configuration is resolved from ~/.kai/config.yaml, overridable through
// KAI_* environment variables (KAI_API_URL, KAI_TIMEOUT, ...). Cache TTLs
// are per entity type: sandboxes change status frequently and get a short
// TTL, organizations are near-static and get a long one.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	kaierrors "github.com/kaihub/kai/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
	// KaiDir is the kai configuration directory under $HOME.
	KaiDir = ".kai"
)

// CacheTTLConfig holds per-entity-type cache lifetimes.
type CacheTTLConfig struct {
	// Sandbox entries go stale quickly because container status moves.
	Sandbox time.Duration `yaml:"sandbox" mapstructure:"sandbox"`
	// Organization covers the near-static top of the hierarchy.
	Organization time.Duration `yaml:"organization" mapstructure:"organization"`
	// Default applies to workspaces, projects, and workflows.
	Default time.Duration `yaml:"default" mapstructure:"default"`
}

// Config represents the kai configuration.
type Config struct {
	// APIURL is the base URL of the remote kai API.
	APIURL string `yaml:"api_url" mapstructure:"api_url"`

	// Timeout bounds every HTTP request. Expiry surfaces as a network
	// error, not a semantic failure.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// PollInterval is the task-history refresh period for watch commands.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// CacheTTL configures the entity cache.
	CacheTTL CacheTTLConfig `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		APIURL:       "http://localhost:8080",
		Timeout:      30 * time.Second,
		PollInterval: 5 * time.Second,
		CacheTTL: CacheTTLConfig{
			Sandbox:      2 * time.Minute,
			Organization: 10 * time.Minute,
			Default:      5 * time.Minute,
		},
	}
}

// Dir returns the path to the kai configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, KaiDir), nil
}

// Load reads configuration from the given file (or the default location
// when empty) merged over defaults and KAI_* environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("poll_interval", def.PollInterval)
	v.SetDefault("cache_ttl.sandbox", def.CacheTTL.Sandbox)
	v.SetDefault("cache_ttl.organization", def.CacheTTL.Organization)
	v.SetDefault("cache_ttl.default", def.CacheTTL.Default)

	v.SetEnvPrefix("KAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, kaierrors.ErrConfigInvalid(v.ConfigFileUsed(), err.Error())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, kaierrors.ErrConfigInvalid("config", err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return kaierrors.ErrConfigMissing("api_url")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return kaierrors.ErrConfigInvalid("api_url", "must start with http:// or https://")
	}
	if c.Timeout <= 0 {
		return kaierrors.ErrConfigInvalid("timeout", "must be positive")
	}
	if c.PollInterval <= 0 {
		return kaierrors.ErrConfigInvalid("poll_interval", "must be positive")
	}
	return nil
}

// TTLFor returns the cache TTL for an entity type key.
func (c *Config) TTLFor(entityType string) time.Duration {
	switch entityType {
	case "sandboxes":
		return c.CacheTTL.Sandbox
	case "organizations":
		return c.CacheTTL.Organization
	default:
		return c.CacheTTL.Default
	}
}
