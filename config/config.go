package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
type Config struct {
	ListenAddress string `mapstructure:"listen_address"`
	ModelName     string `mapstructure:"model_name"`
	DotPath       string `mapstructure:"dot_path"`
	TellmURL      string `mapstructure:"tellm_url"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: ":8080",
		ModelName:     "gpt-4o-mini",
		DotPath:       "dot",
		TellmURL:      "",
	}
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	// registering defaults makes the keys visible to AutomaticEnv
	v.SetDefault("listen_address", defaults.ListenAddress)
	v.SetDefault("model_name", defaults.ModelName)
	v.SetDefault("dot_path", defaults.DotPath)
	v.SetDefault("tellm_url", defaults.TellmURL)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".sitesmith"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no config file is fine, env and defaults carry
	}

	v.SetEnvPrefix("SITESMITH")
	v.AutomaticEnv()

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return config, nil
}
