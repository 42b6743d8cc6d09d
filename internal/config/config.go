// Package config loads service settings from an optional YAML file and UNO_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds every setting of the server and the historian.
type Config struct {
	Port            int           `yaml:"port"`
	LogLevel        string        `yaml:"logLevel" split_words:"true"`
	AccessLog       bool          `yaml:"accessLog" split_words:"true"`
	Store           string        `yaml:"store"`
	DatabaseURL     string        `yaml:"databaseUrl" envconfig:"database_url"`
	ActionLog       bool          `yaml:"actionLog" split_words:"true"`
	CORSOrigins     []string      `yaml:"corsOrigins" envconfig:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" split_words:"true"`
	StateTTL        time.Duration `yaml:"stateTtl" envconfig:"state_ttl"`

	Redis struct {
		Addr string `yaml:"addr"`
		DB   int    `yaml:"db"`
	} `yaml:"redis"`

	Historian struct {
		Queue      string        `yaml:"queue"`
		BatchSize  int           `yaml:"batchSize" split_words:"true"`
		Flush      time.Duration `yaml:"flush"`
		Inactivity time.Duration `yaml:"inactivity"`
	} `yaml:"historian"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	var c Config
	c.Port = 8080
	c.LogLevel = "info"
	c.Store = StoreMemory
	c.CORSOrigins = []string{"*"}
	c.ShutdownTimeout = 10 * time.Second
	c.StateTTL = 24 * time.Hour
	c.Redis.Addr = "localhost:6379"
	c.Historian.Queue = "uno_actions"
	c.Historian.BatchSize = 100
	c.Historian.Flush = 2 * time.Second
	c.Historian.Inactivity = 30 * time.Minute
	return c
}

// Load starts from Default, applies UNO_CONFIG_FILE if set, then the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("UNO_CONFIG_FILE"); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := envconfig.Process("uno", &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store %q needs UNO_DATABASE_URL", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Historian.BatchSize <= 0 {
		return fmt.Errorf("historian batch size must be positive")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
