package internal

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/TravisBumgarner/just-recordings-sub001/internal/session"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/storage"
	"github.com/TravisBumgarner/just-recordings-sub001/internal/user"
)

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	ExternalURL    string   `mapstructure:"external_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Version        string   `mapstructure:"version"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type Config struct {
	Server   ServerConfig          `mapstructure:"server"`
	Database DatabaseConfig        `mapstructure:"database"`
	Auth     user.Config           `mapstructure:"auth"`
	Storage  storage.BackendConfig `mapstructure:"storage"`
	Sessions session.Config        `mapstructure:"sessions"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile("files/config.yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	if config.Server.Version == "" {
		config.Server.Version = "dev"
	}
	if config.Storage.ExternalURL == "" {
		config.Storage.ExternalURL = config.Server.ExternalURL
	}

	return &config, nil
}
