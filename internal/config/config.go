package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Store    StoreConfig    `mapstructure:"store"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port" default:"8080"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds" default:"30"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"5432"`
	User     string `mapstructure:"user" default:"postgres"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" default:"dietec"`
	SSLMode  string `mapstructure:"sslmode" default:"disable"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" default:"redis://localhost:6379/0"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl" default:"24h"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" default:"587"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// StoreConfig configures the process-local key/value store. An empty
// path keeps the store memory-only.
type StoreConfig struct {
	FilePath string `mapstructure:"filePath"`
}

// LoadConfig reads config.yaml via viper; when no config file is found
// it falls back to environment variables (DIETEC_ prefix).
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var config Config
		if err := envconfig.Process("dietec", &config); err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
		return &config, nil
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
