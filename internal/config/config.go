// Package config defines the agent-story configuration, loaded through
// viper from config.yaml, environment variables, and defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete agent-story configuration.
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	Provider ProviderConfig `mapstructure:"provider"`
	Puzzles  PuzzlesConfig  `mapstructure:"puzzles"`
	Records  RecordsConfig  `mapstructure:"records"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// GameConfig controls how a single game is played.
type GameConfig struct {
	// MaxRounds is the round budget shared by all players (must be positive).
	MaxRounds int `mapstructure:"max_rounds"`
	// Players is the turn order. Names must be unique and non-empty.
	Players []PlayerConfig `mapstructure:"players"`
}

// PlayerConfig describes one participant.
type PlayerConfig struct {
	Name string `mapstructure:"name"`
	// Strategy selects the questioning style: "systematic" or "creative".
	// Unrecognized values fall back to systematic at runtime.
	Strategy string `mapstructure:"strategy"`
}

// ProviderConfig selects and configures the text generation backend.
type ProviderConfig struct {
	// Name is the provider: "openai", "anthropic", "mock", or "smart-mock".
	Name      string          `mapstructure:"name"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

// OpenAIConfig configures the OpenAI provider.
type OpenAIConfig struct {
	// APIKey falls back to the OPENAI_API_KEY environment variable.
	APIKey string `mapstructure:"api_key"`
	// Model defaults to gpt-4.
	Model string `mapstructure:"model"`
	// BaseURL overrides the API endpoint, mainly for tests and proxies.
	BaseURL string `mapstructure:"base_url"`
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	// APIKey falls back to the ANTHROPIC_API_KEY environment variable.
	APIKey string `mapstructure:"api_key"`
	// Model defaults to claude-3-5-sonnet-20241022.
	Model string `mapstructure:"model"`
	// BaseURL overrides the API endpoint, mainly for tests and proxies.
	BaseURL string `mapstructure:"base_url"`
}

// PuzzlesConfig selects the puzzle set and the default puzzle.
type PuzzlesConfig struct {
	// File is a path to a puzzle JSON file. Empty uses the built-in set.
	File string `mapstructure:"file"`
	// Index is the default puzzle to play (zero-based).
	Index int `mapstructure:"index"`
}

// RecordsConfig controls where game records are written.
type RecordsConfig struct {
	// Dir is the directory for game record JSON files.
	Dir string `mapstructure:"dir"`
}

// ArchiveConfig controls the optional redis mirror of saved records.
type ArchiveConfig struct {
	// Enabled turns the archive on. Archive failures never fail a game.
	Enabled bool `mapstructure:"enabled"`
	// Addr is the redis host:port.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// TTLHours expires archived records after this many hours (0 = keep).
	TTLHours int `mapstructure:"ttl_hours"`
}

// TTL returns the archive expiry as a time.Duration (0 means keep forever).
func (c *ArchiveConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// LoggingConfig controls debug logging behavior.
type LoggingConfig struct {
	// Enabled controls whether debug logging is on (default: true).
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Dir is where debug.log is written. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			MaxRounds: 20,
			Players: []PlayerConfig{
				{Name: "Player1", Strategy: "systematic"},
				{Name: "Player2", Strategy: "creative"},
			},
		},
		Provider: ProviderConfig{
			Name: "mock",
			OpenAI: OpenAIConfig{
				Model: "gpt-4",
			},
			Anthropic: AnthropicConfig{
				Model: "claude-3-5-sonnet-20241022",
			},
		},
		Puzzles: PuzzlesConfig{
			File:  "",
			Index: 0,
		},
		Records: RecordsConfig{
			Dir: "game_logs",
		},
		Archive: ArchiveConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTLHours: 0,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "logs",
		},
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	defaults := Default()

	// Game defaults
	viper.SetDefault("game.max_rounds", defaults.Game.MaxRounds)
	viper.SetDefault("game.players", defaults.Game.Players)

	// Provider defaults
	viper.SetDefault("provider.name", defaults.Provider.Name)
	viper.SetDefault("provider.openai.api_key", defaults.Provider.OpenAI.APIKey)
	viper.SetDefault("provider.openai.model", defaults.Provider.OpenAI.Model)
	viper.SetDefault("provider.openai.base_url", defaults.Provider.OpenAI.BaseURL)
	viper.SetDefault("provider.anthropic.api_key", defaults.Provider.Anthropic.APIKey)
	viper.SetDefault("provider.anthropic.model", defaults.Provider.Anthropic.Model)
	viper.SetDefault("provider.anthropic.base_url", defaults.Provider.Anthropic.BaseURL)

	// Puzzle defaults
	viper.SetDefault("puzzles.file", defaults.Puzzles.File)
	viper.SetDefault("puzzles.index", defaults.Puzzles.Index)

	// Record defaults
	viper.SetDefault("records.dir", defaults.Records.Dir)

	// Archive defaults
	viper.SetDefault("archive.enabled", defaults.Archive.Enabled)
	viper.SetDefault("archive.addr", defaults.Archive.Addr)
	viper.SetDefault("archive.password", defaults.Archive.Password)
	viper.SetDefault("archive.db", defaults.Archive.DB)
	viper.SetDefault("archive.ttl_hours", defaults.Archive.TTLHours)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and
// validates it. Invalid configuration fails here, before any game starts.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "agent-story")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agent-story"
	}
	return filepath.Join(home, ".config", "agent-story")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
