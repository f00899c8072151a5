// Package config loads and validates the tool configuration. Values
// missing from the file keep their defaults; the file is validated
// against an embedded JSON schema before unmarshalling.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/open-edge-platform/apt-preflight/internal/archive"
)

// GlobalConfig is the full tool configuration.
type GlobalConfig struct {
	Mirror         string        `yaml:"mirror" json:"mirror"`
	Arch           string        `yaml:"arch" json:"arch"`
	Series         string        `yaml:"series,omitempty" json:"series,omitempty"`
	Components     []string      `yaml:"components" json:"components"`
	Pockets        []string      `yaml:"pockets" json:"pockets"`
	Workers        int           `yaml:"workers" json:"workers"`
	TimeoutSeconds int           `yaml:"timeoutSeconds" json:"timeoutSeconds"`
	Retries        int           `yaml:"retries" json:"retries"`
	CacheDir       string        `yaml:"cacheDir" json:"cacheDir"`
	Reports        ReportsConfig `yaml:"reports" json:"reports"`
	Logging        LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// ReportsConfig controls where report files are written.
type ReportsConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// Default returns the built-in configuration: the primary Ubuntu
// mirror, amd64, all standard components and pockets.
func Default() *GlobalConfig {
	return &GlobalConfig{
		Mirror:         "http://archive.ubuntu.com/ubuntu",
		Arch:           "amd64",
		Components:     append([]string(nil), archive.DefaultComponents...),
		Pockets:        append([]string(nil), archive.DefaultPockets...),
		Workers:        4,
		TimeoutSeconds: 30,
		Retries:        3,
		CacheDir:       "cache",
		Reports:        ReportsConfig{Dir: "reports"},
		Logging:        LoggingConfig{Level: "info"},
	}
}

// Load reads a configuration file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*GlobalConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
