// Package config loads the server configuration from a YAML file with
// MUSEUM_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/wgaamuseum/museum/pkg/assets"
	"github.com/wgaamuseum/museum/pkg/catalog"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: MUSEUM_DATA__REPO sets data.repo.
const EnvPrefix = "MUSEUM_"

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "museum.yaml"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full server configuration.
type Config struct {
	Listen        string          `yaml:"listen" koanf:"listen"`
	Region        string          `yaml:"region" koanf:"region"`
	Locale        string          `yaml:"locale" koanf:"locale"`
	PreloadRadius int             `yaml:"preload_radius" koanf:"preload_radius"`
	Data          DataConfig      `yaml:"data" koanf:"data"`
	Assets        AssetsConfig    `yaml:"assets" koanf:"assets"`
	Versions      VersionsConfig  `yaml:"versions" koanf:"versions"`
	Log           LogConfig       `yaml:"log" koanf:"log"`
	WebSocket     WebSocketConfig `yaml:"websocket" koanf:"websocket"`
	Sessions      SessionsConfig  `yaml:"sessions" koanf:"sessions"`
}

// DataConfig locates the data repository.
type DataConfig struct {
	Repo    string        `yaml:"repo" koanf:"repo"`
	Branch  string        `yaml:"branch" koanf:"branch"`
	BaseURL string        `yaml:"base_url,omitempty" koanf:"base_url"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
	Retries int           `yaml:"retries" koanf:"retries"`
}

// AssetsConfig locates the image repository.
type AssetsConfig struct {
	Repo    string `yaml:"repo" koanf:"repo"`
	Branch  string `yaml:"branch" koanf:"branch"`
	BaseURL string `yaml:"base_url,omitempty" koanf:"base_url"`
}

// VersionsConfig locates the game version document.
type VersionsConfig struct {
	URL string        `yaml:"url" koanf:"url"`
	TTL time.Duration `yaml:"ttl" koanf:"ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

// WebSocketConfig configures origin checks of the live endpoint.
type WebSocketConfig struct {
	AllowedOrigins  []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	InsecureDevMode bool     `yaml:"insecure_dev_mode" koanf:"insecure_dev_mode"`
}

// SessionsConfig bounds live sessions. A zero Max or MaxPerIP means no
// limit.
type SessionsConfig struct {
	Max             int           `yaml:"max" koanf:"max"`
	MaxPerIP        int           `yaml:"max_per_ip" koanf:"max_per_ip"`
	MaxInactive     time.Duration `yaml:"max_inactive" koanf:"max_inactive"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" koanf:"cleanup_interval"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Listen:        ":8080",
		Region:        "en",
		Locale:        "en",
		PreloadRadius: 3,
		Data: DataConfig{
			Repo:    "myssal/PGR_Data",
			Branch:  "master",
			Timeout: 15 * time.Second,
			Retries: 3,
		},
		Assets: AssetsConfig{
			Repo:   "myssal/PGR-Assets",
			Branch: "master",
		},
		Versions: VersionsConfig{
			URL: catalog.DefaultVersionsURL,
			TTL: 10 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Sessions: SessionsConfig{
			Max:             1000,
			MaxPerIP:        20,
			MaxInactive:     10 * time.Minute,
			CleanupInterval: time.Minute,
		},
	}
}

// Load reads the YAML file at path, if it exists, over the defaults and
// then applies environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps MUSEUM_DATA__BASE_URL to data.base_url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: listen is required", ErrInvalid)
	}
	if !catalog.ValidRegion(c.Region) {
		return fmt.Errorf("%w: region %q must be one of %s", ErrInvalid, c.Region, strings.Join(catalog.Regions, ", "))
	}
	if c.Data.Repo == "" && c.Data.BaseURL == "" {
		return fmt.Errorf("%w: data.repo is required", ErrInvalid)
	}
	if c.Assets.Repo == "" && c.Assets.BaseURL == "" {
		return fmt.Errorf("%w: assets.repo is required", ErrInvalid)
	}
	if c.PreloadRadius < 0 {
		return fmt.Errorf("%w: preload_radius must be non-negative", ErrInvalid)
	}
	if c.Data.Retries < 0 {
		return fmt.Errorf("%w: data.retries must be non-negative", ErrInvalid)
	}
	if c.Sessions.Max < 0 || c.Sessions.MaxPerIP < 0 {
		return fmt.Errorf("%w: session limits must be non-negative", ErrInvalid)
	}
	if c.Data.Timeout < 0 || c.Versions.TTL < 0 || c.Sessions.MaxInactive < 0 || c.Sessions.CleanupInterval < 0 {
		return fmt.Errorf("%w: durations must be non-negative", ErrInvalid)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q must be text or json", ErrInvalid, c.Log.Format)
	}
	return nil
}

// DataBaseURL returns the data repository root.
func (c *Config) DataBaseURL() string {
	if c.Data.BaseURL != "" {
		return c.Data.BaseURL
	}
	return catalog.DataBaseURL(c.Data.Repo, c.Data.Branch)
}

// AssetBaseURL returns the image repository root.
func (c *Config) AssetBaseURL() string {
	if c.Assets.BaseURL != "" {
		return c.Assets.BaseURL
	}
	return assets.RepoBaseURL(c.Assets.Repo, c.Assets.Branch)
}
