package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`

	HTTPAddr       string `mapstructure:"http_addr"`
	NewsProvider   string `mapstructure:"news_provider"`
	ProvidersFile  string `mapstructure:"providers_file"`
	PublishersFile string `mapstructure:"publishers_file"`
	UserAgent      string `mapstructure:"user_agent"`

	UpstreamTimeoutSeconds int64         `mapstructure:"upstream_timeout_seconds"`
	ShutdownTimeoutSeconds int64         `mapstructure:"shutdown_timeout_seconds"`
	UpstreamTimeout        time.Duration `mapstructure:"-"`
	ShutdownTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-news-gateway")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 64)
	v.SetDefault("log_max_backups", 3)
	v.SetDefault("log_max_age_days", 7)
	v.SetDefault("http_addr", ":5000")
	v.SetDefault("news_provider", "gnews")
	v.SetDefault("providers_file", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("user_agent", "samvad-news-gateway/1.0")
	v.SetDefault("upstream_timeout_seconds", 15)
	v.SetDefault("shutdown_timeout_seconds", 5)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and derives durations.
func (c *Config) finalize() error {
	c.NewsProvider = strings.ToLower(strings.TrimSpace(c.NewsProvider))
	if c.NewsProvider == "" {
		return fmt.Errorf("news_provider is required")
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("http_addr is required")
	}

	if c.UpstreamTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid upstream_timeout_seconds (must be positive seconds)")
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid shutdown_timeout_seconds (must be positive seconds)")
	}
	c.UpstreamTimeout = time.Duration(c.UpstreamTimeoutSeconds) * time.Second
	c.ShutdownTimeout = time.Duration(c.ShutdownTimeoutSeconds) * time.Second

	return nil
}
