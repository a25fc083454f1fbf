package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOAuthTimeout  = 10 * time.Second
	DefaultCacheTTL      = 5 * time.Minute
	DefaultServiceName   = "circulation-manager"
	SettingsDriverMemory = "memory"
	SettingsDriverSQLite = "sqlite3"
	SettingsDriverPG     = "postgres"
)

var (
	ErrMissingEventStoreDSN  = errors.New("event_store.dsn must be set unless event_store.in_memory is true")
	ErrUnknownSettingsDriver = errors.New("unknown settings driver")
	ErrMissingSettingsDSN    = errors.New("settings.dsn must be set for SQL settings drivers")
	ErrInvalidTimeout        = errors.New("clever.timeout must be greater than 0")
)

// Config is the root of the YAML configuration file.
type Config struct {
	Library       string        `yaml:"library"`
	EventStore    EventStore    `yaml:"event_store"`
	Settings      Settings      `yaml:"settings"`
	Clever        Clever        `yaml:"clever"`
	Holdings      Holdings      `yaml:"holdings"`
	Observability Observability `yaml:"observability"`
}

type EventStore struct {
	InMemory  bool   `yaml:"in_memory"`
	DSN       string `yaml:"dsn"`
	TableName string `yaml:"table_name"`
}

type Settings struct {
	Driver    string        `yaml:"driver"`
	DSN       string        `yaml:"dsn"`
	RedisAddr string        `yaml:"redis_addr"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// Clever holds the OAuth client of the Clever identity provider.
type Clever struct {
	ClientID          string        `yaml:"client_id"`
	ClientSecret      string        `yaml:"client_secret"`
	RedirectURI       string        `yaml:"redirect_uri"`
	Timeout           time.Duration `yaml:"timeout"`
	TitleISchoolsPath string        `yaml:"title_i_schools_path"`
	// Endpoint overrides, all three or none.
	AuthorizeURL string `yaml:"authorize_url"`
	TokenURL     string `yaml:"token_url"`
	APIBaseURL   string `yaml:"api_base_url"`
}

// HasEndpointOverrides reports whether the Clever URLs are replaced.
func (c Clever) HasEndpointOverrides() bool {
	return c.AuthorizeURL != "" && c.TokenURL != "" && c.APIBaseURL != ""
}

type Holdings struct {
	Path string `yaml:"path"`
}

type Observability struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Parse decodes a YAML configuration, rejecting unknown fields, and applies defaults.
func Parse(data []byte) (Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Default is the configuration used without a config file: everything in memory.
func Default() Config {
	cfg := Config{EventStore: EventStore{InMemory: true}}
	cfg.applyDefaults()

	return cfg
}

func (c *Config) applyDefaults() {
	if c.Settings.Driver == "" {
		c.Settings.Driver = SettingsDriverMemory
	}

	if c.Settings.CacheTTL == 0 {
		c.Settings.CacheTTL = DefaultCacheTTL
	}

	if c.Clever.Timeout == 0 {
		c.Clever.Timeout = DefaultOAuthTimeout
	}

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = DefaultServiceName
	}
}

func (c Config) validate() error {
	if !c.EventStore.InMemory && c.EventStore.DSN == "" {
		return ErrMissingEventStoreDSN
	}

	switch c.Settings.Driver {
	case SettingsDriverMemory:
	case SettingsDriverSQLite, SettingsDriverPG:
		if c.Settings.DSN == "" {
			return ErrMissingSettingsDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSettingsDriver, c.Settings.Driver)
	}

	if c.Clever.Timeout < 0 {
		return ErrInvalidTimeout
	}

	return nil
}
