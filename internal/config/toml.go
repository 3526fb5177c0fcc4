// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Weather  WeatherConfig  `toml:"weather"`
	Location LocationConfig `toml:"location"`
}

// WeatherConfig maps weather-provider settings.
type WeatherConfig struct {
	APIKey   *string `toml:"api-key"`
	Endpoint *string `toml:"endpoint"`
}

// LocationConfig maps location-consent and override settings.
type LocationConfig struct {
	Allow *bool    `toml:"allow"`
	Lat   *float64 `toml:"lat"`
	Lon   *float64 `toml:"lon"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
