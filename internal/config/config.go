// Package config loads the bot configuration from config/config.yaml,
// the environment and an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Ozon     OzonConfig     `mapstructure:"ozon"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Label    LabelConfig    `mapstructure:"label"`
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	LogLevel string         `mapstructure:"log_level"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	AdminID  int64  `mapstructure:"admin_id"`
}

type OzonConfig struct {
	ClientID string `mapstructure:"client_id"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
}

type MonitorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Batch    int           `mapstructure:"batch"`
}

type LabelConfig struct {
	FontPath     string  `mapstructure:"font_path"`
	QREnabled    bool    `mapstructure:"qr_enabled"`
	TextHeight   int     `mapstructure:"text_height"`
	ModuleWidth  float64 `mapstructure:"module_width"`  // mm
	ModuleHeight float64 `mapstructure:"module_height"` // mm
	QuietZone    float64 `mapstructure:"quiet_zone"`    // mm
}

type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load reads config/config.yaml, merges environment overrides and
// validates the required credentials. A missing config file is fine as
// long as the environment supplies the credentials.
func Load() (*Config, error) {
	// Side effect only; absence of .env is not an error.
	godotenv.Load()

	v := viper.New()
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("FBSBOT")
	v.AutomaticEnv()
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.admin_id", "TELEGRAM_ADMIN_ID")
	v.BindEnv("ozon.client_id", "OZON_CLIENT_ID")
	v.BindEnv("ozon.api_key", "OZON_API_KEY")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("ozon.base_url", "https://api-seller.ozon.ru")

	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval", 5*time.Minute)
	v.SetDefault("monitor.batch", 5)

	v.SetDefault("label.qr_enabled", false)
	v.SetDefault("label.text_height", 200)
	v.SetDefault("label.module_width", 0.8)
	v.SetDefault("label.module_height", 40)
	v.SetDefault("label.quiet_zone", 6)

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8090")
	v.SetDefault("server.mode", "release")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
}

func (c *Config) validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is not set")
	}
	if c.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram admin id is not set")
	}
	if c.Ozon.ClientID == "" || c.Ozon.APIKey == "" {
		return fmt.Errorf("ozon api credentials are not set")
	}
	return nil
}
