// Package config provides the plugin host's configuration loader. Config is
// loaded by merging built-in defaults, ~/.pluginhost/config.yaml, an explicit
// --config file, and PLUGINHOST_* environment variables, in that order —
// each later source overriding the last. Environment variables apply only to
// keys that a default or one of the config files already names.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Defaults contains factory-default values applied before any config file
// is loaded.
var Defaults = map[string]any{
	"plugins_dir":        "",
	"cache_dir":          "",
	"require_signatures": false,
	"host_version":       "dev",
	"log.level":          "info",
	"log.format":         "text",
}

// Config is the fully-decoded host configuration.
type Config struct {
	PluginsDir        string   `mapstructure:"plugins_dir"`
	CacheDir          string   `mapstructure:"cache_dir"`
	RegistryURL       string   `mapstructure:"registry_url"`
	RequireSignatures bool     `mapstructure:"require_signatures"`
	TrustedKeys       []string `mapstructure:"trusted_keys"`
	HostVersion       string   `mapstructure:"host_version"`
	Log               LogConfig `mapstructure:"log"`
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

// Option mutates a Config after loading — the Go equivalent of the original
// implementation's PluginConfig builder (WithRegistry, RequireSignatures,
// WithTrustedKey(s), WithHostVersion).
type Option func(*Config)

// WithRegistry sets the registry base URL.
func WithRegistry(url string) Option {
	return func(c *Config) { c.RegistryURL = url }
}

// RequireSignatures toggles mandatory signature verification on install.
func RequireSignatures(required bool) Option {
	return func(c *Config) { c.RequireSignatures = required }
}

// WithTrustedKey appends a single trusted key line.
func WithTrustedKey(key string) Option {
	return func(c *Config) { c.TrustedKeys = append(c.TrustedKeys, key) }
}

// WithTrustedKeys appends multiple trusted key lines.
func WithTrustedKeys(keys []string) Option {
	return func(c *Config) { c.TrustedKeys = append(c.TrustedKeys, keys...) }
}

// WithHostVersion overrides the advertised host version.
func WithHostVersion(version string) Option {
	return func(c *Config) { c.HostVersion = version }
}

// Load discovers and loads configuration, merging defaults, the global
// config file, environment variables, and an optional explicit file, then
// applies opts and fills in directory defaults that depend on the host
// home directory.
func Load(explicitPath string, opts ...Option) (*Config, error) {
	v := viper.New()

	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix("PLUGINHOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	globalCfg := filepath.Join(Home(), "config.yaml")
	if _, err := os.Stat(globalCfg); err == nil {
		v.SetConfigFile(globalCfg)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read global config: %w", err)
		}
	}

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", explicitPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.PluginsDir == "" {
		cfg.PluginsDir = filepath.Join(Home(), "plugins")
	}
	if cfg.CacheDir == "" {
		cacheRoot, err := os.UserCacheDir()
		if err != nil {
			cacheRoot = Home()
		}
		cfg.CacheDir = filepath.Join(cacheRoot, "pluginhost", "plugins")
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg, nil
}

// EnsureDirs creates the plugins and cache directories if they do not exist.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.PluginsDir, c.CacheDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Home returns the plugin host's home directory (~/.pluginhost).
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pluginhost"
	}
	return filepath.Join(home, ".pluginhost")
}

// DefaultConfigTemplate is the content written by `pluginhostctl init`.
const DefaultConfigTemplate = `# config.yaml — plugin host configuration
host_version: "dev"
require_signatures: false

# registry_url: https://plugins.example.com
# trusted_keys:
#   - "ssh-ed25519 AAAA... release@example.com"

log:
  level: info
  format: text
`
