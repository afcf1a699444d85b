package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultServerURL is where the indexing server listens out of the box
const DefaultServerURL = "http://localhost:8000"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Ingest  IngestConfig  `mapstructure:"ingest"`
	History HistoryConfig `mapstructure:"history"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`

	// Source is the config file that was read, empty when running on defaults
	Source string `mapstructure:"-"`
}

// IsConfigured returns true if settings came from a config file
func (c *Config) IsConfigured() bool {
	return c.Source != ""
}

// ServerConfig holds indexing server configuration
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // Per-request limit; uploads can be slow
}

// IngestConfig holds upload configuration
type IngestConfig struct {
	Extensions []string      `mapstructure:"extensions"` // Accepted file extensions
	WatchDir   string        `mapstructure:"watch_dir"`  // Inbox directory, empty to disable
	Debounce   time.Duration `mapstructure:"debounce"`   // Quiet period before a watched batch is sent
}

// HistoryConfig holds query history configuration
type HistoryConfig struct {
	Dir        string `mapstructure:"dir"` // Empty keeps history in memory
	MaxEntries int    `mapstructure:"max_entries"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     DefaultServerURL,
			Timeout: 2 * time.Minute,
		},
		Ingest: IngestConfig{
			Extensions: []string{".pdf"},
			Debounce:   2 * time.Second,
		},
		History: HistoryConfig{
			Dir:        defaultDataPath(),
			MaxEntries: 200,
		},
		UI: UIConfig{
			Theme: "default",
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "docsift.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "docsift")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "docsift")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "docsift")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "docsift")
	}
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(cfg *Config) {
	viper.SetDefault("server.url", cfg.Server.URL)
	viper.SetDefault("server.timeout", cfg.Server.Timeout)
	viper.SetDefault("ingest.extensions", cfg.Ingest.Extensions)
	viper.SetDefault("ingest.watch_dir", cfg.Ingest.WatchDir)
	viper.SetDefault("ingest.debounce", cfg.Ingest.Debounce)
	viper.SetDefault("history.dir", cfg.History.Dir)
	viper.SetDefault("history.max_entries", cfg.History.MaxEntries)
	viper.SetDefault("ui.theme", cfg.UI.Theme)
	viper.SetDefault("logging.file", cfg.Logging.File)
	viper.SetDefault("logging.level", cfg.Logging.Level)
}

// LoadConfig loads configuration from a .env file, the config file and
// the environment. configFile overrides the search path when set.
func LoadConfig(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	cfg := DefaultConfig()
	setDefaults(cfg)

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(defaultConfigPath())
		viper.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. DOCSIFT_SERVER_URL
	viper.SetEnvPrefix("DOCSIFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}
	cfg.Source = viper.ConfigFileUsed()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Server.URL = strings.TrimRight(strings.TrimSpace(cfg.Server.URL), "/")
	if cfg.Server.URL == "" {
		cfg.Server.URL = DefaultServerURL
	}
	return cfg, nil
}

// SaveConfig saves the current configuration to the default config file
func SaveConfig(cfg *Config) error {
	return SaveConfigAs(cfg, filepath.Join(defaultConfigPath(), "config.yaml"))
}

// SaveConfigAs saves the configuration to configFile
func SaveConfigAs(cfg *Config, configFile string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.timeout", cfg.Server.Timeout.String())

	viper.Set("ingest.extensions", cfg.Ingest.Extensions)
	viper.Set("ingest.watch_dir", cfg.Ingest.WatchDir)
	viper.Set("ingest.debounce", cfg.Ingest.Debounce.String())

	viper.Set("history.dir", cfg.History.Dir)
	viper.Set("history.max_entries", cfg.History.MaxEntries)

	viper.Set("ui.theme", cfg.UI.Theme)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
