// Package config loads the yaml configuration file holding the server address
// and filesystem paths. All values can be overridden by environment variables.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Paths  PathsConfig  `yaml:"paths"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// PathsConfig names the directories for QR images and rotated log files.
type PathsConfig struct {
	Images string `yaml:"images"`
	Logs   string `yaml:"logs"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Addr: "0.0.0.0:5000"},
		Paths:  PathsConfig{Images: "data/qr", Logs: "data/logs"},
	}
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist. Environment variables HTTP_ADDR, IMAGES_DIR and LOG_DIR win
// over file values.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// no file is fine; run on defaults
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("IMAGES_DIR"); v != "" {
		cfg.Paths.Images = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		cfg.Paths.Logs = v
	}
	return cfg, nil
}
