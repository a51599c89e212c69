package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageType selects the IntegrationStore backend.
type StorageType string

const (
	StorageTypeMemory  StorageType = "memory"
	StorageTypeBBolt   StorageType = "bbolt"
	StorageTypeRedis   StorageType = "redis"
	StorageTypeMongoDB StorageType = "mongodb"
)

// EnvPrefix is prepended to every environment variable, e.g. PAVE_HTTP_ADDR.
const EnvPrefix = "PAVE"

// knownPlatforms lists the keys under "platforms" that get env bindings.
var knownPlatforms = []string{"quickbooks", "adp", "sap", "stripe"}

// PlatformConfig holds the OAuth client registration for one platform.
// Empty URL fields fall back to the platform's built-in defaults.
type PlatformConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
	APIBaseURL   string   `mapstructure:"api_base_url"`
	Scopes       []string `mapstructure:"scopes"`
}

// Config holds all configuration for the integration service.
type Config struct {
	HTTPAddr        string `mapstructure:"http_addr"`
	LogLevel        string `mapstructure:"log_level"`
	LogPretty       bool   `mapstructure:"log_pretty"`
	OtelServiceName string `mapstructure:"otel_service_name"`
	TracingEnabled  bool   `mapstructure:"tracing_enabled"`

	// Outbound calls to platform token and API endpoints.
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	RedirectBaseURL string        `mapstructure:"redirect_base_url"` // public URL of this service
	ConsentTTL      time.Duration `mapstructure:"consent_ttl"`

	StorageBackend StorageType `mapstructure:"storage_backend"`
	MongoURI       string      `mapstructure:"mongo_uri"`
	MongoDBName    string      `mapstructure:"mongo_db_name"`
	RedisAddr      string      `mapstructure:"redis_addr"`
	RedisPassword  string      `mapstructure:"redis_password"`
	RedisDB        int         `mapstructure:"redis_db"`
	RedisKeyPrefix string      `mapstructure:"redis_key_prefix"`
	BBoltPath      string      `mapstructure:"bbolt_path"`

	// SecretKey is the passphrase credentials are sealed with. When set, client
	// secrets and tokens are encrypted before they reach the storage backend.
	SecretKey string `mapstructure:"secret_key"`

	Platforms map[string]PlatformConfig `mapstructure:"platforms"`
}

// LoadConfig reads configuration from an optional file, environment variables and defaults.
// An empty path searches the default locations for pavemaster.yaml.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pavemaster")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/pavemaster/")
		v.AddConfigPath("$HOME/.pavemaster")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", "0.0.0.0:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("otel_service_name", "pavemaster-integrations")
	v.SetDefault("tracing_enabled", false)
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("redirect_base_url", "http://localhost:8080")
	v.SetDefault("consent_ttl", "10m")
	v.SetDefault("storage_backend", string(StorageTypeBBolt))
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db_name", "pavemaster")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_key_prefix", "pavemaster")
	v.SetDefault("bbolt_path", "data/integrations.db")
	v.SetDefault("secret_key", "")

	// Defaults make the nested keys known to viper, so that
	// PAVE_PLATFORMS_STRIPE_CLIENT_ID and friends are picked up by Unmarshal.
	for _, name := range knownPlatforms {
		prefix := "platforms." + name + "."
		v.SetDefault(prefix+"enabled", false)
		v.SetDefault(prefix+"client_id", "")
		v.SetDefault(prefix+"client_secret", "")
		v.SetDefault(prefix+"auth_url", "")
		v.SetDefault(prefix+"token_url", "")
		v.SetDefault(prefix+"api_base_url", "")
		v.SetDefault(prefix+"scopes", []string{})
	}
}

// Validate checks values viper cannot check for us.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageTypeMemory, StorageTypeBBolt, StorageTypeRedis, StorageTypeMongoDB:
	default:
		return fmt.Errorf("config: unknown storage_backend %q", c.StorageBackend)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.ConsentTTL <= 0 {
		return fmt.Errorf("config: consent_ttl must be positive, got %s", c.ConsentTTL)
	}
	for name, p := range c.Platforms {
		if p.Enabled && p.ClientID == "" {
			return fmt.Errorf("config: platform %s is enabled but has no client_id", name)
		}
	}
	return nil
}

// EnabledPlatforms returns the enabled platform entries keyed by platform name.
func (c *Config) EnabledPlatforms() map[string]PlatformConfig {
	out := make(map[string]PlatformConfig)
	for name, p := range c.Platforms {
		if p.Enabled {
			out[name] = p
		}
	}
	return out
}
