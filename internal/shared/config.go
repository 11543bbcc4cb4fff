package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Upload   UploadConfig   `toml:"upload"`
	Connect  ConnectConfig  `toml:"connect"`
}

// APIConfig contains settings for the publishing service API.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RequestsPerSec float64 `toml:"requests_per_sec"`
}

// Timeout returns the request timeout as a [time.Duration].
//
// Defaults to five minutes, sized for large video uploads.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// UploadConfig contains limits applied before an upload leaves the machine.
type UploadConfig struct {
	MaxFileSizeMB int `toml:"max_file_size_mb"`
	MaxRetries    int `toml:"max_retries"`
}

// ConnectConfig contains settings for platform connect flows.
type ConnectConfig struct {
	CallbackHost string `toml:"callback_host"`
	CallbackPort int    `toml:"callback_port"`
}

// CallbackAddr returns the listen address for the local connect callback server.
func (c ConnectConfig) CallbackAddr() string {
	host := c.CallbackHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.CallbackPort
	if port == 0 {
		port = 8642
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
