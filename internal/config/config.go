// Package config resolves tool settings from defaults, an optional config
// file, and RESCUER_* environment variables, in increasing precedence.
// Command-line flags override all of it at the command layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/rescuefs/rescuer/internal/env"
)

type Config struct {
	OutputDir string // directory recovered files are written to
	Prefix    string // recovered file name prefix
	BlockSize string // read block size, human-readable
	Mode      string // "all", "images" or "videos"
	LogLevel  string
	Deep      bool // run per-format decoders during validation
	Report    bool // write a DFXML carve report next to the output
}

// Load resolves the configuration. path optionally names an explicit
// config file; when empty, rescuer.yaml is looked up in the working
// directory and in ~/.config/rescuer. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("output_dir", "rescued")
	v.SetDefault("prefix", "rescued")
	v.SetDefault("block_size", "32MB")
	v.SetDefault("mode", "all")
	v.SetDefault("log_level", "info")
	v.SetDefault("deep_validation", true)
	v.SetDefault("report", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(env.AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", env.AppName))
		}
	}
	v.SetEnvPrefix("RESCUER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Config{
		OutputDir: v.GetString("output_dir"),
		Prefix:    v.GetString("prefix"),
		BlockSize: v.GetString("block_size"),
		Mode:      v.GetString("mode"),
		LogLevel:  v.GetString("log_level"),
		Deep:      v.GetBool("deep_validation"),
		Report:    v.GetBool("report"),
	}, nil
}
