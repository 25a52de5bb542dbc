package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig carries process-level settings resolved from flags.
type AppConfig struct {
	ConfigPath string // Path to the YAML config file.
}

// Config is the on-disk YAML configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Listen string `yaml:"listen"` // Listen address, e.g. ":8317".
}

// DatabaseConfig holds the data store DSN.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // PostgreSQL or SQLite DSN.
}

// JWTConfig holds the identity provider's token verification settings.
// Tokens are issued by the external identity provider; this service only
// verifies them with the shared secret.
type JWTConfig struct {
	Secret string        `yaml:"secret"` // HS256 shared secret.
	Leeway time.Duration `yaml:"leeway"` // Clock skew tolerance.
}

// RedisConfig holds the optional cache invalidation broker address.
type RedisConfig struct {
	Addr     string `yaml:"addr"`     // Redis address, empty disables the broker.
	Password string `yaml:"password"` // Optional password.
	DB       int    `yaml:"db"`       // Database index.
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"` // logrus level name, default "info".
	File  string `yaml:"file"`  // Log file path, empty logs to stderr.
}

// ResolveConfigPath resolves the config path from the flag value, the
// PORTAL_CONFIG environment variable, or the default config.yaml.
func ResolveConfigPath(flagValue string) string {
	if trimmed := strings.TrimSpace(flagValue); trimmed != "" {
		return filepath.Clean(trimmed)
	}
	if env := strings.TrimSpace(os.Getenv("PORTAL_CONFIG")); env != "" {
		return filepath.Clean(env)
	}
	return "config.yaml"
}

// Load reads and parses the YAML config file.
func Load(configPath string) (*Config, error) {
	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		return nil, fmt.Errorf("config: read %s: %w", configPath, errRead)
	}
	var cfg Config
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return nil, fmt.Errorf("config: parse %s: %w", configPath, errUnmarshal)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills zero values with usable defaults.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":8317"
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	if cfg.JWT.Leeway <= 0 {
		cfg.JWT.Leeway = 30 * time.Second
	}
}

// LoadDatabaseDSN loads only the database DSN from the config file. The
// PORTAL_DB_DSN environment variable takes precedence when set.
func LoadDatabaseDSN(configPath string) (string, error) {
	if env := strings.TrimSpace(os.Getenv("PORTAL_DB_DSN")); env != "" {
		return env, nil
	}
	cfg, err := Load(configPath)
	if err != nil {
		return "", err
	}
	dsn := strings.TrimSpace(cfg.Database.DSN)
	if dsn == "" {
		return "", fmt.Errorf("config: database.dsn is required")
	}
	return dsn, nil
}

// LoadJWTConfig loads the JWT verification settings from the config file.
func LoadJWTConfig(configPath string) (JWTConfig, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return JWTConfig{}, err
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return JWTConfig{}, fmt.Errorf("config: jwt.secret is required")
	}
	return cfg.JWT, nil
}
