package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const AppName = "mangatrack"

type LoggerConfig struct {
	Level string `yaml:"level"` // none, normal or debug
}

type LoggingConfig struct {
	ConsoleLogger LoggerConfig `yaml:"console"`
}

type Config struct {
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	Language   string        `yaml:"language"`
	Store      string        `yaml:"store"`
	DataFile   string        `yaml:"data_file"`
	Database   string        `yaml:"database"`
	TempDir    string        `yaml:"temp_dir"`
	MaxPages   int           `yaml:"max_pages"`
	Display    string        `yaml:"display"`
	ASCIIWidth int           `yaml:"ascii_width"`
	ExportDir  string        `yaml:"export_dir"`

	Logging LoggingConfig `yaml:"logging"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.mangadex.org",
		Timeout:    10 * time.Second,
		Language:   "en",
		Store:      "json",
		DataFile:   "manga_data.json",
		Database:   "mangas.db",
		TempDir:    filepath.Join(os.TempDir(), AppName),
		MaxPages:   5,
		ASCIIWidth: 120,
		ExportDir:  ".",
		Logging: LoggingConfig{
			ConsoleLogger: LoggerConfig{Level: "normal"},
		},
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	normalize(cfg)
	return cfg, cfg.Validate()
}

func normalize(cfg *Config) {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.Store == "" {
		cfg.Store = def.Store
	}
	if cfg.DataFile == "" {
		cfg.DataFile = def.DataFile
	}
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	if cfg.TempDir == "" {
		cfg.TempDir = def.TempDir
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	if cfg.ASCIIWidth <= 0 {
		cfg.ASCIIWidth = def.ASCIIWidth
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = def.ExportDir
	}
	if cfg.Logging.ConsoleLogger.Level == "" {
		cfg.Logging.ConsoleLogger.Level = def.Logging.ConsoleLogger.Level
	}
}

func (c *Config) Validate() error {
	switch c.Store {
	case "json", "duckdb":
	default:
		return fmt.Errorf("store must be json or duckdb, got %q", c.Store)
	}
	switch c.Logging.ConsoleLogger.Level {
	case "none", "normal", "debug":
	default:
		return fmt.Errorf("logging.console.level must be none, normal or debug, got %q", c.Logging.ConsoleLogger.Level)
	}
	return nil
}

// StorePath is the file backing the selected progress store.
func (c *Config) StorePath() string {
	if c.Store == "duckdb" {
		return c.Database
	}
	return c.DataFile
}
