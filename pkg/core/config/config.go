// Package config loads the underwriting service configuration from a YAML file
// with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// DefaultPath is where binaries look for the config file.
const DefaultPath = "config/underwriting.yaml"

// StorageConfig selects and configures the scenario persistence backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // memory | file | postgres | redis | sqlite
	KeyPrefix   string `yaml:"key_prefix"`
	DataDir     string `yaml:"data_dir"`     // file backend
	DatabaseURL string `yaml:"database_url"` // postgres backend
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	RedisPass   string `yaml:"redis_password"`
	SQLitePath  string `yaml:"sqlite_path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

type APIConfig struct {
	Addr string `yaml:"addr"`
}

// AnalysisConfig carries caller-level policy for the projection runner.
type AnalysisConfig struct {
	DSCRBasis string  `yaml:"dscr_basis"` // noi | cash-flow
	IRRGuess  float64 `yaml:"irr_guess"`  // fraction
}

type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	API      APIConfig      `yaml:"api"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    "file",
			KeyPrefix:  "underwriting:",
			DataDir:    ".cache/underwriting",
			RedisAddr:  "localhost:6379",
			SQLitePath: ".cache/underwriting/scenarios.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		API: APIConfig{
			Addr: ":8080",
		},
		Analysis: AnalysisConfig{
			DSCRBasis: "noi",
			IRRGuess:  0.10,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Storage.Backend = getEnv("UNDERWRITING_BACKEND", c.Storage.Backend)
	c.Storage.KeyPrefix = getEnv("UNDERWRITING_KEY_PREFIX", c.Storage.KeyPrefix)
	c.Storage.DataDir = getEnv("DATA_DIR", c.Storage.DataDir)
	c.Storage.DatabaseURL = getEnv("DATABASE_URL", c.Storage.DatabaseURL)
	c.Storage.RedisAddr = getEnv("REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.RedisPass = getEnv("REDIS_PASSWORD", c.Storage.RedisPass)
	c.Storage.SQLitePath = getEnv("SQLITE_PATH", c.Storage.SQLitePath)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.API.Addr = getEnv("API_ADDR", c.API.Addr)
	c.Analysis.DSCRBasis = getEnv("DSCR_BASIS", c.Analysis.DSCRBasis)

	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.Storage.RedisDB = db
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
