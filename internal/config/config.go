// Package config provides Viper-based configuration loading for Hero's Dawn.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the save store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig holds the directories game content is loaded from.
type ContentConfig struct {
	// ItemsDir is the directory of item template YAML files.
	ItemsDir string `mapstructure:"items_dir"`
	// MonstersDir is the directory of monster definition YAML files.
	MonstersDir string `mapstructure:"monsters_dir"`
	// QuestsDir is the directory of quest definition YAML files.
	QuestsDir string `mapstructure:"quests_dir"`
}

// GameConfig holds gameplay tuning knobs.
type GameConfig struct {
	// MaxSlots is the inventory slot capacity.
	MaxSlots int `mapstructure:"max_slots"`
	// StartingGold is the gold balance of a fresh inventory.
	StartingGold int `mapstructure:"starting_gold"`
	// LootRollMode selects the rarity roll algorithm: "weighted" or "threshold".
	LootRollMode string `mapstructure:"loot_roll_mode"`
	// SaveBackend selects the save store: "file" or "postgres".
	SaveBackend string `mapstructure:"save_backend"`
	// SaveSlot names the save snapshot used by the game server.
	SaveSlot string `mapstructure:"save_slot"`
	// SavePath is the directory for file-backed saves.
	SavePath string `mapstructure:"save_path"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Content  ContentConfig  `mapstructure:"content"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.ItemsDir == "" {
		errs = append(errs, "content.items_dir must not be empty")
	}
	if c.MonstersDir == "" {
		errs = append(errs, "content.monsters_dir must not be empty")
	}
	if c.QuestsDir == "" {
		errs = append(errs, "content.quests_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.MaxSlots < 1 {
		errs = append(errs, fmt.Sprintf("game.max_slots must be >= 1, got %d", g.MaxSlots))
	}
	if g.StartingGold < 0 {
		errs = append(errs, fmt.Sprintf("game.starting_gold must be >= 0, got %d", g.StartingGold))
	}
	validModes := map[string]bool{"weighted": true, "threshold": true}
	if !validModes[g.LootRollMode] {
		errs = append(errs, fmt.Sprintf("game.loot_roll_mode must be one of [weighted, threshold], got %q", g.LootRollMode))
	}
	validBackends := map[string]bool{"file": true, "postgres": true}
	if !validBackends[g.SaveBackend] {
		errs = append(errs, fmt.Sprintf("game.save_backend must be one of [file, postgres], got %q", g.SaveBackend))
	}
	if g.SaveSlot == "" {
		errs = append(errs, "game.save_slot must not be empty")
	}
	if g.SaveBackend == "file" && g.SavePath == "" {
		errs = append(errs, "game.save_path is required when game.save_backend is file")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with HEROSDAWN_ prefix
	v.SetEnvPrefix("HEROSDAWN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "herosdawn")
	v.SetDefault("database.password", "herosdawn")
	v.SetDefault("database.name", "herosdawn")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.monsters_dir", "content/monsters")
	v.SetDefault("content.quests_dir", "content/quests")

	v.SetDefault("game.max_slots", 30)
	v.SetDefault("game.starting_gold", 100)
	v.SetDefault("game.loot_roll_mode", "weighted")
	v.SetDefault("game.save_backend", "file")
	v.SetDefault("game.save_slot", "default")
	v.SetDefault("game.save_path", "saves")
}
