package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ConfigHelpers provides convenient access to global configuration
type ConfigHelpers struct {
	config *GlobalConfig
}

// NewConfigHelpers creates a new config helpers instance
func NewConfigHelpers(config *GlobalConfig) *ConfigHelpers {
	return &ConfigHelpers{config: config}
}

// Workers returns the number of concurrent fetch workers
func (c *ConfigHelpers) Workers() int {
	return c.config.Workers
}

// Timeout returns the per-request HTTP timeout
func (c *ConfigHelpers) Timeout() time.Duration {
	return time.Duration(c.config.TimeoutSeconds) * time.Second
}

// CacheDir returns the absolute path to the metadata cache directory
func (c *ConfigHelpers) CacheDir() (string, error) {
	return filepath.Abs(c.config.CacheDir)
}

// ReportsDir returns the absolute path to the reports directory
func (c *ConfigHelpers) ReportsDir() (string, error) {
	return filepath.Abs(c.config.Reports.Dir)
}

// LogLevel returns the configured log level
func (c *ConfigHelpers) LogLevel() string {
	return c.config.Logging.Level
}

// IsDebugMode returns true if debug logging is enabled
func (c *ConfigHelpers) IsDebugMode() bool {
	return c.config.Logging.Level == "debug"
}

// GetConfig returns the underlying global config (for advanced usage)
func (c *ConfigHelpers) GetConfig() *GlobalConfig {
	return c.config
}

// CreateCacheDir ensures the cache directory exists
func (c *ConfigHelpers) CreateCacheDir() error {
	cacheDir, err := c.CacheDir()
	if err != nil {
		return fmt.Errorf("resolving cache directory: %w", err)
	}
	return createDirIfNotExists(cacheDir)
}

// CreateReportsDir ensures the reports directory exists
func (c *ConfigHelpers) CreateReportsDir() error {
	reportsDir, err := c.ReportsDir()
	if err != nil {
		return fmt.Errorf("resolving reports directory: %w", err)
	}
	return createDirIfNotExists(reportsDir)
}

// Helper function to create directories
func createDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
