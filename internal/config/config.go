package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Universalis UniversalisConfig `mapstructure:"universalis"`
	XIVAPI      XIVAPIConfig      `mapstructure:"xivapi"`
	Watchlist   WatchlistConfig   `mapstructure:"watchlist"`
	Baseline    BaselineConfig    `mapstructure:"baseline"`
	Alert       AlertConfig       `mapstructure:"alert"`
	Discord     DiscordConfig     `mapstructure:"discord"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// UniversalisConfig holds market-data service configuration
type UniversalisConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	WSURL   string        `mapstructure:"ws_url"`
	Region  string        `mapstructure:"region"`
	Worlds  []int         `mapstructure:"worlds"` // server-side feed filter; empty = whole region
	Timeout time.Duration `mapstructure:"timeout"`
}

// XIVAPIConfig holds item catalog service configuration
type XIVAPIConfig struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WatchlistConfig holds the watched item IDs
type WatchlistConfig struct {
	Items []int `mapstructure:"items"` // empty = models.DefaultWatchlist
}

// BaselineConfig holds baseline cache behavior configuration
type BaselineConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// AlertConfig holds alerting behavior configuration
type AlertConfig struct {
	ThresholdPercent float64 `mapstructure:"threshold_percent"`
}

// DiscordConfig holds Discord notification configuration
type DiscordConfig struct {
	BotToken  string `mapstructure:"bot_token"`
	ChannelID string `mapstructure:"channel_id"`
	Enabled   bool   `mapstructure:"enabled"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("MATERIAWATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Universalis defaults
	v.SetDefault("universalis.api_url", "https://universalis.app/api/v2")
	v.SetDefault("universalis.ws_url", "wss://universalis.app/api/ws")
	v.SetDefault("universalis.region", "North-America")
	v.SetDefault("universalis.timeout", "30s")

	// XIVAPI defaults
	v.SetDefault("xivapi.api_url", "https://xivapi.com")
	v.SetDefault("xivapi.timeout", "15s")

	// Baseline cache defaults
	v.SetDefault("baseline.ttl", "2m")
	v.SetDefault("baseline.max_retries", 5)
	v.SetDefault("baseline.retry_delay", "1s")

	// Alert defaults
	v.SetDefault("alert.threshold_percent", 10.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Universalis config
	if c.Universalis.APIURL == "" {
		return fmt.Errorf("universalis.api_url is required")
	}
	if c.Universalis.WSURL == "" {
		return fmt.Errorf("universalis.ws_url is required")
	}
	if c.Universalis.Region == "" {
		return fmt.Errorf("universalis.region is required")
	}
	if c.Universalis.Timeout < time.Second {
		return fmt.Errorf("universalis.timeout must be at least 1 second")
	}
	for _, w := range c.Universalis.Worlds {
		if w <= 0 {
			return fmt.Errorf("universalis.worlds entries must be positive world IDs")
		}
	}

	// Validate XIVAPI config
	if c.XIVAPI.APIURL == "" {
		return fmt.Errorf("xivapi.api_url is required")
	}
	if c.XIVAPI.Timeout < time.Second {
		return fmt.Errorf("xivapi.timeout must be at least 1 second")
	}

	// Validate Watchlist config
	for _, id := range c.Watchlist.Items {
		if id <= 0 {
			return fmt.Errorf("watchlist.items entries must be positive item IDs")
		}
	}

	// Validate Baseline config
	if c.Baseline.TTL < time.Second {
		return fmt.Errorf("baseline.ttl must be at least 1 second")
	}
	if c.Baseline.MaxRetries < 1 {
		return fmt.Errorf("baseline.max_retries must be at least 1")
	}
	if c.Baseline.RetryDelay < 0 {
		return fmt.Errorf("baseline.retry_delay must not be negative")
	}

	// Validate Alert config
	if c.Alert.ThresholdPercent <= 0.0 || c.Alert.ThresholdPercent > 100.0 {
		return fmt.Errorf("alert.threshold_percent must be between 0 and 100")
	}

	// Validate Discord config
	if c.Discord.Enabled {
		if c.Discord.BotToken == "" {
			return fmt.Errorf("discord.bot_token is required when discord is enabled")
		}
		if c.Discord.ChannelID == "" {
			return fmt.Errorf("discord.channel_id is required when discord is enabled")
		}
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
