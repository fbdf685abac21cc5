package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files, environment variables and flags.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	Service            string        `mapstructure:"merchant_service"`
	Host               string        `mapstructure:"merchant_host"`
	BasePath           string        `mapstructure:"merchant_base_path"`
	APIKey             string        `mapstructure:"merchant_api_key"`
	APISecret          string        `mapstructure:"merchant_api_secret"`
	RequestLogFile     string        `mapstructure:"merchant_log_file"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"service":    "merchant_service",
	"host":       "merchant_host",
	"log-file":   "merchant_log_file",
	"log-level":  "log_level",
	"timeout":    "http_timeout_seconds",
	"publishers": "publishers_file",
	"storage":    "storage_type",
	"bbolt-path": "bbolt_path",
}

// RegisterFlags declares the flags Load understands on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("service", "", "merchant API deployment (coinqvest|whalestack)")
	fs.String("host", "", "override the API host")
	fs.String("log-file", "", "append request/response lines to this file")
	fs.String("log-level", "", "diagnostic log level (debug|info|warn|error)")
	fs.Int64("timeout", 0, "HTTP timeout in seconds")
	fs.String("publishers", "", "publishers config file (yaml/json)")
	fs.String("storage", "", "checkout storage type (none|bbolt)")
	fs.String("bbolt-path", "", "bbolt database path")
}

// Load reads configuration from environment variables, config files and, when
// non-nil, explicitly set flags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "digest-merchant-sdk")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("merchant_service", "coinqvest")
	v.SetDefault("merchant_host", "")
	v.SetDefault("merchant_base_path", "")
	v.SetDefault("merchant_api_key", "")
	v.SetDefault("merchant_api_secret", "")
	v.SetDefault("merchant_log_file", "")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("publishers_file", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/checkouts.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Service = strings.ToLower(strings.TrimSpace(cfg.Service))
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.APISecret = strings.TrimSpace(cfg.APISecret)

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// RequireCredentials reports a missing API key or secret.
func (c *Config) RequireCredentials() error {
	if c.APIKey == "" {
		return fmt.Errorf("merchant_api_key is required")
	}
	if c.APISecret == "" {
		return fmt.Errorf("merchant_api_secret is required")
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.APISecret != "" {
		c.APISecret = "***"
	}
	return c
}
