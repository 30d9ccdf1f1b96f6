// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Rasterizer struct {
		Binary  string `mapstructure:"binary"`
		Format  string `mapstructure:"format"`
		Quality int    `mapstructure:"quality"`
		Zoom    int    `mapstructure:"zoom"`
	} `mapstructure:"rasterizer"`
	Output struct {
		Color bool `mapstructure:"color"`
	} `mapstructure:"output"`
	TempDir string `mapstructure:"temp_dir"`
}

// Load reads the configuration from ~/.sheetshot/config.yaml and environment
// variables (SHEETSHOT_*). A missing config file is not an error.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(Dir())

	// Defaults
	viper.SetDefault("rasterizer.binary", "wkhtmltoimage")
	viper.SetDefault("rasterizer.format", "png")
	viper.SetDefault("rasterizer.quality", 100)
	viper.SetDefault("rasterizer.zoom", 4)
	viper.SetDefault("output.color", true)
	viper.SetDefault("temp_dir", "")

	// Environment variable overrides
	viper.SetEnvPrefix("SHEETSHOT")
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultOptions converts the configured rasterizer settings into the
// pass-through option form used by the export pipeline.
func (c *Config) DefaultOptions() map[string]string {
	return map[string]string{
		"format":  c.Rasterizer.Format,
		"quality": strconv.Itoa(c.Rasterizer.Quality),
		"zoom":    strconv.Itoa(c.Rasterizer.Zoom),
	}
}

// Dir returns the sheetshot config directory (~/.sheetshot).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheetshot"
	}
	return filepath.Join(home, ".sheetshot")
}
