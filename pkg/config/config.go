package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/unowned-ai/recipebox/pkg/db"
	"github.com/unowned-ai/recipebox/pkg/utils"
)

const (
	defaultDriver       = db.DriverCGO
	defaultSyncMode     = "FULL"
	defaultLogLevel     = "info"
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 5
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

type DatabaseConfig struct {
	// Path is the SQLite file. Empty means the per-OS default from utils.
	Path   string `yaml:"path" toml:"path"`
	Driver string `yaml:"driver" toml:"driver"`
	WAL    bool   `yaml:"wal" toml:"wal"`
	Sync   string `yaml:"sync" toml:"sync"`
}

type LoggingConfig struct {
	Level     string `yaml:"level" toml:"level"`
	File      string `yaml:"file" toml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" toml:"max_files"`
	JSON      bool   `yaml:"json" toml:"json"`
}

type LoadOptions struct {
	ConfigPath string
	Env        map[string]string
	Flags      FlagOverrides
}

// FlagOverrides holds command line values. Nil fields were not set by the user.
type FlagOverrides struct {
	DBPath   *string
	Driver   *string
	WAL      *bool
	Sync     *string
	LogLevel *string
}

func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Path:   "",
			Driver: defaultDriver,
			WAL:    false,
			Sync:   defaultSyncMode,
		},
		Logging: LoggingConfig{
			Level:     defaultLogLevel,
			File:      "",
			MaxSizeMB: defaultLogMaxSizeMB,
			MaxFiles:  defaultLogMaxFiles,
			JSON:      false,
		},
	}
}

// Load applies, in order, defaults, the config file, RECIPEBOX_* environment
// variables and flag overrides, then validates the result. A file ending in
// .toml is read as TOML, anything else as YAML.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	configPath := resolveConfigPath(opts)
	if err := loadAndApplyFile(configPath, &cfg); err != nil {
		return Config{}, err
	}

	if err := applyEnvOverrides(&cfg, opts); err != nil {
		return Config{}, err
	}
	applyFlagOverrides(&cfg, opts.Flags)

	if err := validate(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

type rawConfig struct {
	Database *rawDatabase `yaml:"database" toml:"database"`
	Logging  *rawLogging  `yaml:"logging" toml:"logging"`
}

type rawDatabase struct {
	Path   *string `yaml:"path" toml:"path"`
	Driver *string `yaml:"driver" toml:"driver"`
	WAL    *bool   `yaml:"wal" toml:"wal"`
	Sync   *string `yaml:"sync" toml:"sync"`
}

type rawLogging struct {
	Level     *string `yaml:"level" toml:"level"`
	File      *string `yaml:"file" toml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files" toml:"max_files"`
	JSON      *bool   `yaml:"json" toml:"json"`
}

func loadAndApplyFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	var raw rawConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: parse TOML file %q: %v", ErrInvalidConfig, path, err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse YAML file %q: %v", ErrInvalidConfig, path, err)
	}

	applyRawConfig(cfg, raw)
	return nil
}

func applyRawConfig(cfg *Config, raw rawConfig) {
	if raw.Database != nil {
		setString(raw.Database.Path, &cfg.Database.Path)
		setString(raw.Database.Driver, &cfg.Database.Driver)
		setBool(raw.Database.WAL, &cfg.Database.WAL)
		setString(raw.Database.Sync, &cfg.Database.Sync)
	}

	if raw.Logging != nil {
		setString(raw.Logging.Level, &cfg.Logging.Level)
		setString(raw.Logging.File, &cfg.Logging.File)
		setInt(raw.Logging.MaxSizeMB, &cfg.Logging.MaxSizeMB)
		setInt(raw.Logging.MaxFiles, &cfg.Logging.MaxFiles)
		setBool(raw.Logging.JSON, &cfg.Logging.JSON)
	}
}

func applyEnvOverrides(cfg *Config, opts LoadOptions) error {
	if value, ok := lookupEnv(opts, "RECIPEBOX_DB"); ok {
		cfg.Database.Path = value
	}
	if value, ok := lookupEnv(opts, "RECIPEBOX_DB_DRIVER"); ok {
		cfg.Database.Driver = value
	}
	if value, ok := lookupEnv(opts, "RECIPEBOX_DB_WAL"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: parse RECIPEBOX_DB_WAL: %v", ErrInvalidConfig, err)
		}
		cfg.Database.WAL = parsed
	}
	if value, ok := lookupEnv(opts, "RECIPEBOX_DB_SYNC"); ok {
		cfg.Database.Sync = value
	}

	if value, ok := lookupEnv(opts, "RECIPEBOX_LOG_LEVEL"); ok {
		cfg.Logging.Level = value
	}
	if value, ok := lookupEnv(opts, "RECIPEBOX_LOG_FILE"); ok {
		cfg.Logging.File = value
	}
	if value, ok := lookupEnv(opts, "RECIPEBOX_LOG_JSON"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: parse RECIPEBOX_LOG_JSON: %v", ErrInvalidConfig, err)
		}
		cfg.Logging.JSON = parsed
	}

	return nil
}

func applyFlagOverrides(cfg *Config, flags FlagOverrides) {
	setString(flags.DBPath, &cfg.Database.Path)
	setString(flags.Driver, &cfg.Database.Driver)
	setBool(flags.WAL, &cfg.Database.WAL)
	setString(flags.Sync, &cfg.Database.Sync)
	setString(flags.LogLevel, &cfg.Logging.Level)
}

// validate normalizes case-insensitive values in place.
func validate(cfg *Config) error {
	if !db.ValidDriver(cfg.Database.Driver) {
		return fmt.Errorf("%w: database.driver must be %q or %q, got %q", ErrInvalidConfig, db.DriverCGO, db.DriverPureGo, cfg.Database.Driver)
	}

	cfg.Database.Sync = strings.ToUpper(cfg.Database.Sync)
	if !db.ValidSyncMode(cfg.Database.Sync) {
		return fmt.Errorf("%w: database.sync must be one of OFF, NORMAL, FULL, EXTRA, got %q", ErrInvalidConfig, cfg.Database.Sync)
	}

	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level must be one of debug, info, warn, error, got %q", ErrInvalidConfig, cfg.Logging.Level)
	}

	if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxFiles < 0 {
		return fmt.Errorf("%w: logging.max_size_mb and logging.max_files must not be negative", ErrInvalidConfig)
	}

	return nil
}

func setString(raw *string, target *string) {
	if raw != nil {
		*target = *raw
	}
}

func setBool(raw *bool, target *bool) {
	if raw != nil {
		*target = *raw
	}
}

func setInt(raw *int, target *int) {
	if raw != nil {
		*target = *raw
	}
}

func resolveConfigPath(opts LoadOptions) string {
	if opts.ConfigPath != "" {
		return opts.ConfigPath
	}
	if value, ok := lookupEnv(opts, "RECIPEBOX_CONFIG"); ok {
		return value
	}
	return utils.GetDefaultConfigPath()
}

func lookupEnv(opts LoadOptions, key string) (string, bool) {
	if opts.Env != nil {
		if value, ok := opts.Env[key]; ok {
			return value, true
		}
	}
	return os.LookupEnv(key)
}
