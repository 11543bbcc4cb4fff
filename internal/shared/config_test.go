package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:8000" {
			t.Errorf("expected base URL http://localhost:8000, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "./pushcast.db" {
			t.Errorf("expected database path ./pushcast.db, got %s", config.Database.Path)
		}

		if config.Upload.MaxFileSizeMB != 500 {
			t.Errorf("expected max file size 500, got %d", config.Upload.MaxFileSizeMB)
		}

		if config.API.Timeout() != 5*time.Minute {
			t.Errorf("expected 5 minute timeout, got %v", config.API.Timeout())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://publish.example.com"
timeout_seconds = 60
requests_per_sec = 2.0

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[upload]
max_file_size_mb = 100
max_retries = 5

[connect]
callback_host = "localhost"
callback_port = 9000
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://publish.example.com" {
			t.Errorf("expected base URL https://publish.example.com, got %s", config.API.BaseURL)
		}

		if config.API.Timeout() != time.Minute {
			t.Errorf("expected 60s timeout, got %v", config.API.Timeout())
		}

		if config.Upload.MaxFileSizeMB != 100 {
			t.Errorf("expected max file size 100, got %d", config.Upload.MaxFileSizeMB)
		}

		if config.Connect.CallbackAddr() != "localhost:9000" {
			t.Errorf("expected callback addr localhost:9000, got %s", config.Connect.CallbackAddr())
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/does/not/exist.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
