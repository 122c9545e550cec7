// Package config holds the YAML configuration of lenslink, including
// first-run creation of a default file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/KirkDiggler/lenslink/internal/localstore"
	"github.com/golang/glog"
	"gopkg.in/yaml.v3"
)

const (
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"

	defaultListen   = "127.0.0.1:8080"
	defaultDataDir  = "lenslink-data"
	defaultModel    = "gemini-3-flash-preview"
	defaultPerMin   = 6
	defaultBurst    = 3
	defaultTimezone = "Local"
)

// Environment variables that override the file
const (
	EnvRemoteURL = "LENSLINK_REMOTE_URL"
	EnvRemoteKey = "LENSLINK_REMOTE_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvDiscord   = "DISCORD_TOKEN"
	EnvListen    = "LENSLINK_LISTEN"
	EnvDataDir   = "LENSLINK_DATA_DIR"
)

// RemoteConfig is the operator-provided remote store. When both fields are
// set they take precedence over credentials a user saved through the app.
type RemoteConfig struct {
	URL string `yaml:"url"`
	Key string `yaml:"key"`
}

// GeminiConfig configures concept generation
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ConceptLimitConfig bounds concept requests per client on the HTTP API
type ConceptLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// DiscordConfig configures the /colabos slash command
type DiscordConfig struct {
	Token         string `yaml:"token"`
	ApplicationID string `yaml:"application_id"`
	// GuildID registers the command in one guild only. Empty means global.
	GuildID string `yaml:"guild_id"`
}

// Config is the top-level application configuration
type Config struct {
	// DataDir is the directory of the local badger store
	DataDir string `yaml:"data_dir"`

	// Listen is the HTTP listen address of `lenslink serve`
	Listen string `yaml:"listen"`

	// Timezone is the IANA zone used to decide "today" and for the ICS feed
	Timezone string `yaml:"timezone"`

	// WeekStart is "monday" (default) or "sunday"
	WeekStart string `yaml:"week_start"`

	// AllowedOrigins are the CORS origins of the HTTP API
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Signature closes every share summary
	Signature string `yaml:"signature"`

	Remote       RemoteConfig       `yaml:"remote"`
	Gemini       GeminiConfig       `yaml:"gemini"`
	ConceptLimit ConceptLimitConfig `yaml:"concept_limit"`
	Discord      DiscordConfig      `yaml:"discord"`
}

// DefaultConfig returns an in-memory default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:        defaultDataDir,
		Listen:         defaultListen,
		Timezone:       defaultTimezone,
		WeekStart:      WeekStartMonday,
		AllowedOrigins: []string{"*"},
		Gemini:         GeminiConfig{Model: defaultModel},
		ConceptLimit:   ConceptLimitConfig{PerMinute: defaultPerMin, Burst: defaultBurst},
	}
}

// Normalize fills zero values with defaults so partial files behave
func (c *Config) Normalize() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	switch c.WeekStart {
	case WeekStartMonday, WeekStartSunday:
	default:
		c.WeekStart = WeekStartMonday
	}
	if c.AllowedOrigins == nil {
		c.AllowedOrigins = []string{"*"}
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultModel
	}
	if c.ConceptLimit.PerMinute <= 0 {
		c.ConceptLimit.PerMinute = defaultPerMin
	}
	if c.ConceptLimit.Burst <= 0 {
		c.ConceptLimit.Burst = defaultBurst
	}
}

// ApplyEnv overrides fields with any non-empty environment variables
func (c *Config) ApplyEnv() {
	override := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	override(&c.Remote.URL, EnvRemoteURL)
	override(&c.Remote.Key, EnvRemoteKey)
	override(&c.Gemini.APIKey, EnvGeminiKey)
	override(&c.Discord.Token, EnvDiscord)
	override(&c.Listen, EnvListen)
	override(&c.DataDir, EnvDataDir)
}

// Location resolves Timezone. An unknown zone falls back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == defaultTimezone {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		glog.Warningf("unknown timezone %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

// Credentials returns the operator remote pair, or nil when not fully set
func (c *Config) Credentials() *localstore.Credentials {
	if c.Remote.URL == "" || c.Remote.Key == "" {
		return nil
	}
	return &localstore.Credentials{URL: c.Remote.URL, Key: c.Remote.Key}
}

// Load reads the YAML file at path. A missing file is created with the
// defaults and the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			glog.Infof("wrote default config to %s", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".lenslink-config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save writes the config to path
func (c *Config) Save(path string) error {
	return Save(path, c)
}
