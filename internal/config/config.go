package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Remote content service configuration
	Content ContentConfig `toml:"content"`

	// Local persistence configuration
	Storage StorageConfig `toml:"storage"`

	// Local API server configuration
	Server ServerConfig `toml:"server"`

	// Pack simulation configuration
	Packs PacksConfig `toml:"packs"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ContentConfig contains settings for the remote content API.
type ContentConfig struct {
	BaseURL        string `toml:"base_url" env:"RIFTBOUND_API_BASE_URL"`
	APIKey         string `toml:"api_key" env:"RIFTBOUND_API_KEY"`
	Locale         string `toml:"locale" env:"RIFTBOUND_LOCALE"`
	RequestTimeout string `toml:"request_timeout"` // e.g. "30s"
	CatalogCache   string `toml:"catalog_cache"`   // Path to the cached catalog JSON
	WatchCache     bool   `toml:"watch_cache"`     // Reload the catalog when the cache file changes
}

// StorageConfig contains persistence settings.
type StorageConfig struct {
	DBPath     string `toml:"db_path" env:"RIFTBOUND_DB_PATH"`
	Ephemeral  bool   `toml:"ephemeral"` // Keep stores in memory only
	BackupDir  string `toml:"backup_dir"`
	KDFMemoryK uint32 `toml:"kdf_memory_kb"` // Argon2 memory for encrypted backups
}

// ServerConfig contains local API server settings.
type ServerConfig struct {
	Port int `toml:"port" env:"RIFTBOUND_PORT"`
}

// PacksConfig contains pack simulation settings.
type PacksConfig struct {
	Seed int64 `toml:"seed"` // 0 = random seed per process
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode" env:"RIFTBOUND_DEBUG"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dir := defaultDir()
	return &Config{
		Content: ContentConfig{
			BaseURL:        "https://americas.api.riotgames.com",
			Locale:         "en",
			RequestTimeout: "30s",
			CatalogCache:   filepath.Join(dir, "catalog.json"),
			WatchCache:     false,
		},
		Storage: StorageConfig{
			DBPath:     filepath.Join(dir, "data.db"),
			BackupDir:  filepath.Join(dir, "backups"),
			KDFMemoryK: 64 * 1024,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

func defaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".riftbound-companion"
	}
	return filepath.Join(homeDir, ".riftbound-companion")
}

// Path returns the path to the configuration file, creating its directory.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".riftbound-companion")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from the default location and applies
// environment overrides.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the configuration from path. Returns the default config
// (with environment overrides) if the file doesn't exist.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		// Unmarshal over defaults so missing keys keep their default value
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides config values from RIFTBOUND_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save saves the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Content.BaseURL == "" {
		return fmt.Errorf("content base URL is required")
	}

	if c.Content.Locale == "" {
		return fmt.Errorf("content locale is required")
	}

	if _, err := time.ParseDuration(c.Content.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", c.Content.RequestTimeout, err)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}

	if !c.Storage.Ephemeral && c.Storage.DBPath == "" {
		return fmt.Errorf("storage db path is required unless ephemeral")
	}

	return nil
}

// GetRequestTimeout returns the content request timeout as a duration.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Content.RequestTimeout)
}
