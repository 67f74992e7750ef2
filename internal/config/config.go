// Package config loads application settings from an optional config file
// and the environment.
package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	StockfishPath string `mapstructure:"STOCKFISH_PATH"`
	Difficulty    string `mapstructure:"DIFFICULTY"`
	HumanColor    string `mapstructure:"HUMAN_COLOR"`
	AIEnabled     bool   `mapstructure:"AI_ENABLED"`
	DataDir       string `mapstructure:"DATA_DIR"`
}

var keys = []string{
	"STOCKFISH_PATH",
	"DIFFICULTY",
	"HUMAN_COLOR",
	"AI_ENABLED",
	"DATA_DIR",
}

// Load reads settings from the file at path (skipped when missing) with
// environment variables taking precedence over defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("STOCKFISH_PATH", "")
	v.SetDefault("DIFFICULTY", "medium")
	v.SetDefault("HUMAN_COLOR", "white")
	v.SetDefault("AI_ENABLED", true)
	v.SetDefault("DATA_DIR", "")

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
