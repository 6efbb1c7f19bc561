package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither the environment nor config.yaml set a value
const (
	DefaultLogLevel     = "warn"
	DefaultDays         = 7
	DefaultHeatmapWeeks = 12
	DefaultFuzzyFinder  = "auto"
)

const (
	// CurrentConfigVersion is the current version of the config file format
	CurrentConfigVersion = "1"
)

// Environment variables that override config.yaml
const (
	EnvDBPath      = "DEVFLOW_DB_PATH"
	EnvLogLevel    = "DEVFLOW_LOG_LEVEL"
	EnvFuzzyFinder = "DEVFLOW_FUZZY_FINDER"
)

// Config holds the application configuration with every setting resolved
type Config struct {
	DBPath       string
	LogLevel     string
	DefaultDays  int
	HeatmapWeeks int
	VCSStats     bool   // Collect git change stats when a session stops
	FuzzyFinder  string // "auto", "fzf", "peco", "none"
}

// configFile represents the YAML config file structure
type configFile struct {
	Version      string `yaml:"version"`
	DBPath       string `yaml:"db_path,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`
	DefaultDays  int    `yaml:"default_days,omitempty"`
	HeatmapWeeks int    `yaml:"heatmap_weeks,omitempty"`
	VCSStats     *bool  `yaml:"vcs_stats,omitempty"`
	FuzzyFinder  string `yaml:"fuzzy_finder,omitempty"`
}

// GetConfigDir returns the OS-specific config directory for devflow
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", eris.Wrap(err, "failed to get user home directory")
		}
		baseDir = filepath.Join(home, "Library", "Application Support")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", eris.New("APPDATA environment variable not set")
		}
		baseDir = appData
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			baseDir = xdg
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", eris.Wrap(err, "failed to get user home directory")
			}
			baseDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(baseDir, "devflow"), nil
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get config directory")
	}

	return filepath.Join(configDir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return eris.Wrap(err, "failed to get config directory")
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return eris.Wrapf(err, "failed to create config directory: %s", configDir)
	}

	return nil
}

// GetDBPath returns the SQLite database path with configuration hierarchy
func GetDBPath() (string, error) {
	// 1. Environment variable (highest priority)
	if envPath := os.Getenv(EnvDBPath); envPath != "" {
		return expandHome(envPath)
	}

	// 2. Config file
	cf, err := loadConfigFile()
	if err == nil && cf.DBPath != "" {
		return expandHome(cf.DBPath)
	}

	// 3. Default
	configDir, err := GetConfigDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get config directory")
	}

	return filepath.Join(configDir, "devflow.db"), nil
}

// EnsureDBDir creates the directory that holds the database file
func EnsureDBDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "failed to create database directory: %s", dir)
	}
	return nil
}

// GetLogLevel returns the log level with configuration hierarchy
func GetLogLevel() string {
	if envLevel := os.Getenv(EnvLogLevel); envLevel != "" {
		return envLevel
	}

	cf, err := loadConfigFile()
	if err == nil && cf.LogLevel != "" {
		return cf.LogLevel
	}

	return DefaultLogLevel
}

// GetFuzzyFinder returns the fuzzy finder with configuration hierarchy
func GetFuzzyFinder() string {
	if envFinder := os.Getenv(EnvFuzzyFinder); envFinder != "" {
		return envFinder
	}

	cf, err := loadConfigFile()
	if err == nil && cf.FuzzyFinder != "" {
		return cf.FuzzyFinder
	}

	return DefaultFuzzyFinder
}

// LoadConfig loads the full configuration with all settings resolved
func LoadConfig() (*Config, error) {
	dbPath, err := GetDBPath()
	if err != nil {
		return nil, eris.Wrap(err, "failed to get database path")
	}

	cf, err := loadConfigFile()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:       dbPath,
		LogLevel:     GetLogLevel(),
		DefaultDays:  DefaultDays,
		HeatmapWeeks: DefaultHeatmapWeeks,
		VCSStats:     true,
		FuzzyFinder:  GetFuzzyFinder(),
	}
	if cf.DefaultDays > 0 {
		cfg.DefaultDays = cf.DefaultDays
	}
	if cf.HeatmapWeeks > 0 {
		cfg.HeatmapWeeks = cf.HeatmapWeeks
	}
	if cf.VCSStats != nil {
		cfg.VCSStats = *cf.VCSStats
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return eris.Wrap(err, "failed to get config path")
	}

	if err := EnsureConfigDir(); err != nil {
		return eris.Wrap(err, "failed to ensure config directory")
	}

	vcs := config.VCSStats
	cf := configFile{
		Version:      CurrentConfigVersion,
		DBPath:       config.DBPath,
		LogLevel:     config.LogLevel,
		DefaultDays:  config.DefaultDays,
		HeatmapWeeks: config.HeatmapWeeks,
		VCSStats:     &vcs,
		FuzzyFinder:  config.FuzzyFinder,
	}

	data, err := yaml.Marshal(&cf)
	if err != nil {
		return eris.Wrap(err, "failed to marshal config to YAML")
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return eris.Wrapf(err, "failed to write config file: %s", configPath)
	}

	return nil
}

// Keys lists the settings accepted by Set, in config.yaml order
var Keys = []string{"db_path", "log_level", "default_days", "heatmap_weeks", "vcs_stats", "fuzzy_finder"}

// Set parses value for key and stores it in config, rejecting values config.yaml would reject
func Set(config *Config, key, value string) error {
	cf := configFile{}
	switch key {
	case "db_path":
		cf.DBPath = value
	case "log_level":
		cf.LogLevel = strings.ToLower(value)
	case "fuzzy_finder":
		cf.FuzzyFinder = strings.ToLower(value)
	case "default_days", "heatmap_weeks":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return eris.Errorf("invalid %s: %q (must be a positive number)", key, value)
		}
		if key == "default_days" {
			cf.DefaultDays = n
		} else {
			cf.HeatmapWeeks = n
		}
	case "vcs_stats":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return eris.Errorf("invalid vcs_stats: %q (must be true or false)", value)
		}
		cf.VCSStats = &b
	default:
		return eris.Errorf("unknown config key: %s (must be one of: %s)", key, strings.Join(Keys, ", "))
	}

	if err := ValidateConfig(&cf); err != nil {
		return err
	}

	switch key {
	case "db_path":
		config.DBPath = cf.DBPath
	case "log_level":
		config.LogLevel = cf.LogLevel
	case "fuzzy_finder":
		config.FuzzyFinder = cf.FuzzyFinder
	case "default_days":
		config.DefaultDays = cf.DefaultDays
	case "heatmap_weeks":
		config.HeatmapWeeks = cf.HeatmapWeeks
	case "vcs_stats":
		config.VCSStats = *cf.VCSStats
	}
	return nil
}

// loadConfigFile loads the config file from disk; a missing file is an empty config
func loadConfigFile() (*configFile, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return readConfigFile(configPath)
}

func readConfigFile(configPath string) (*configFile, error) {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return &configFile{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read config file: %s", configPath)
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, eris.Wrapf(err, "failed to parse config file: %s", configPath)
	}

	return &cf, nil
}

// expandHome expands ~ to the user's home directory in a path
func expandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "failed to get user home directory")
	}

	if len(path) == 1 {
		return home, nil
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}

var (
	validLogLevels    = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	validFuzzyFinders = []string{"auto", "fzf", "peco", "none"}
)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

// ValidateConfig validates the configuration settings
func ValidateConfig(cf *configFile) error {
	if cf.LogLevel != "" && !oneOf(cf.LogLevel, validLogLevels) {
		return eris.Errorf("invalid log_level: %s (must be one of: %s)", cf.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if cf.FuzzyFinder != "" && !oneOf(cf.FuzzyFinder, validFuzzyFinders) {
		return eris.Errorf("invalid fuzzy_finder: %s (must be one of: %s)", cf.FuzzyFinder, strings.Join(validFuzzyFinders, ", "))
	}

	if cf.DefaultDays < 0 {
		return eris.Errorf("invalid default_days: %d (must be positive)", cf.DefaultDays)
	}

	if cf.HeatmapWeeks < 0 || cf.HeatmapWeeks > 52 {
		return eris.Errorf("invalid heatmap_weeks: %d (must be between 1 and 52)", cf.HeatmapWeeks)
	}

	if cf.DBPath != "" {
		if _, err := expandHome(cf.DBPath); err != nil {
			return eris.Wrap(err, "invalid db_path")
		}
	}

	return nil
}

// ValidateConfigFile validates a config file at the given path
func ValidateConfigFile(configPath string) error {
	if _, err := os.Stat(configPath); err != nil {
		return eris.Wrapf(err, "failed to read config file: %s", configPath)
	}

	cf, err := readConfigFile(configPath)
	if err != nil {
		return err
	}

	if cf.Version != "" && cf.Version != CurrentConfigVersion {
		return eris.Errorf("unsupported config version: %s", cf.Version)
	}

	return ValidateConfig(cf)
}
