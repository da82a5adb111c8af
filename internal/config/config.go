package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/cvmatch/internal/domain/search/algorithm"
)

// Config holds the cvmatch configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Extract  ExtractConfig  `yaml:"extract"`
	Cache    CacheConfig    `yaml:"cache"`
	Search   SearchConfig   `yaml:"search"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Database drivers.
const (
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverSQLite = "sqlite"
)

// DatabaseConfig holds record store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis, sqlite (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	SQLitePath       string   `yaml:"sqlite_path"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ExtractConfig holds document extraction limits.
type ExtractConfig struct {
	BaseDir    string `yaml:"base_dir"`
	MaxPages   int    `yaml:"max_pages"`
	MaxBytes   int64  `yaml:"max_bytes"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// CacheConfig holds text cache settings.
type CacheConfig struct {
	MaxEntryBytes int `yaml:"max_entry_bytes"` // 0 = no truncation
}

// SearchConfig holds query defaults.
type SearchConfig struct {
	DefaultTopN      int    `yaml:"default_top_n"`
	MaxTopN          int    `yaml:"max_top_n"`
	Workers          int    `yaml:"workers"`
	DefaultAlgorithm string `yaml:"default_algorithm"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod),
// or from the file named by CVMATCH_CONFIG.
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverValkey
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Extract.MaxPages <= 0 {
		c.Extract.MaxPages = 10
	}
	if c.Extract.MaxBytes <= 0 {
		c.Extract.MaxBytes = 10 << 20
	}
	if c.Extract.TimeoutSec <= 0 {
		c.Extract.TimeoutSec = 15
	}
	if c.Search.DefaultTopN <= 0 {
		c.Search.DefaultTopN = 10
	}
	if c.Search.MaxTopN <= 0 {
		c.Search.MaxTopN = 100
	}
	if c.Search.Workers <= 0 {
		c.Search.Workers = 1
	}
	if c.Search.DefaultAlgorithm == "" {
		c.Search.DefaultAlgorithm = string(algorithm.KMP)
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be redis, valkey or sqlite, got %q", c.Database.Driver)
	}
	if _, ok := algorithm.Parse(c.Search.DefaultAlgorithm); !ok {
		return fmt.Errorf("search.default_algorithm %q is not supported", c.Search.DefaultAlgorithm)
	}
	if c.Search.DefaultTopN > c.Search.MaxTopN {
		return fmt.Errorf("search.default_top_n (%d) exceeds search.max_top_n (%d)",
			c.Search.DefaultTopN, c.Search.MaxTopN)
	}
	if c.Cache.MaxEntryBytes < 0 {
		return fmt.Errorf("cache.max_entry_bytes must not be negative, got %d", c.Cache.MaxEntryBytes)
	}
	return nil
}

// PathEnvVar names a config file that overrides the per-environment lookup.
const PathEnvVar = "CVMATCH_CONFIG"

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
