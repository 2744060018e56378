/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/w3stat/pkg/bytebuf"
)

// Config represents the w3stat configuration
type Config struct {
	HostName  string   `yaml:"host_name"`
	MapFile   string   `yaml:"map_file,omitempty"`
	ByteOrder string   `yaml:"byte_order"`
	MapDir    string   `yaml:"map_dir"`
	CacheDir  string   `yaml:"cache_dir,omitempty"`
	Port      int      `yaml:"port"`
	Bind      string   `yaml:"bind"`
	Security  Security `yaml:"security"`
	Logging   Logging  `yaml:"logging"`
	Batch     Batch    `yaml:"batch"`
}

// Security contains security-related configuration
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Batch controls multi-file fingerprinting
type Batch struct {
	Concurrency int `yaml:"concurrency"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		HostName:  "w3stat",
		ByteOrder: "little",
		MapDir:    ".",
		Port:      8080,
		Bind:      "127.0.0.1",
		Security: Security{
			APIKey: "auto",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Batch: Batch{
			Concurrency: runtime.NumCPU(),
		},
	}
}

// Validate checks field values that cannot be caught by the YAML decoder
func (c *Config) Validate() error {
	if _, err := c.Order(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("batch concurrency must not be negative")
	}
	return nil
}

// Order returns the configured integer byte order. An empty value means
// little-endian.
func (c *Config) Order() (binary.ByteOrder, error) {
	if c.ByteOrder == "" {
		return binary.LittleEndian, nil
	}
	return bytebuf.ParseByteOrder(c.ByteOrder)
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file carries the API key.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated API key
func BootstrapConfig(configPath string, cacheDir string) (*Config, error) {
	config := DefaultConfig()
	if cacheDir != "" {
		config.CacheDir = cacheDir
	}

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Security.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./w3stat.yaml"
	}

	// For Linux/macOS, use ~/.config/w3stat/config.yaml
	configDir := filepath.Join(homeDir, ".config", "w3stat")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
