// Package config загружает конфигурацию сервиса из окружения
// (и необязательного .env) через Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config содержит настройки latency-api.
type Config struct {
	// APIPort задаёт порт HTTP сервера.
	APIPort string `mapstructure:"API_PORT"`

	// DataSource: "file" или "postgres".
	DataSource string `mapstructure:"DATA_SOURCE"`
	// DataPath указывает на JSON fixture. Относительный путь считается
	// от корня установки (родителя каталога с бинарником).
	DataPath string `mapstructure:"DATA_PATH"`
	// DatabaseURL используется при DATA_SOURCE=postgres.
	DatabaseURL string `mapstructure:"DB_URL"`

	// AMQPURL включает публикацию breach событий. Пусто = выключено.
	AMQPURL string `mapstructure:"AMQP_URL"`

	CORSAllowOrigin    string  `mapstructure:"CORS_ALLOW_ORIGIN"`
	DefaultThresholdMs float64 `mapstructure:"DEFAULT_THRESHOLD_MS"`

	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load читает .env (если есть), затем окружение. Окружение
// переопределяет .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // .env необязателен

	v.AutomaticEnv()

	// AutomaticEnv видит только ключи, известные viper, поэтому
	// default задан для каждого поля.
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("DATA_SOURCE", "file")
	v.SetDefault("DATA_PATH", "q-vercel-latency.json")
	v.SetDefault("DB_URL", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("CORS_ALLOW_ORIGIN", "*")
	v.SetDefault("DEFAULT_THRESHOLD_MS", 180.0)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("LOG_FORMAT", "json")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, которые нельзя исправить молча.
func (c *Config) Validate() error {
	if c.APIPort == "" {
		return errors.New("config: API_PORT must be set")
	}
	switch c.DataSource {
	case "file", "postgres":
	default:
		return fmt.Errorf("config: DATA_SOURCE must be file or postgres, got %q", c.DataSource)
	}
	if c.DefaultThresholdMs < 0 {
		return errors.New("config: DEFAULT_THRESHOLD_MS must not be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: SHUTDOWN_TIMEOUT must be positive")
	}
	if c.CORSAllowOrigin == "" {
		c.CORSAllowOrigin = "*"
	}
	return nil
}

// Addr возвращает адрес для http.Server.
func (c *Config) Addr() string {
	return ":" + c.APIPort
}

// NotifierEnabled сообщает, нужно ли подключаться к RabbitMQ.
func (c *Config) NotifierEnabled() bool {
	return c != nil && c.AMQPURL != ""
}
