// Package config loads the service configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mazta/hr-master/internal/hr/db"
)

// Config is the flat YAML configuration for the service.
type Config struct {
	HTTPPort int `yaml:"HTTP_PORT"`

	DBHost     string `yaml:"DB_HOST"`
	DBPort     int    `yaml:"DB_PORT"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	DumpDBHost     string `yaml:"DUMP_DB_HOST"`
	DumpDBPort     int    `yaml:"DUMP_DB_PORT"`
	DumpDBUser     string `yaml:"DUMP_DB_USER"`
	DumpDBPassword string `yaml:"DUMP_DB_PASSWORD"`
	DumpDBName     string `yaml:"DUMP_DB_NAME"`
	DumpDBSSLMode  string `yaml:"DUMP_DB_SSLMODE"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`

	AuthService string `yaml:"AUTH_SERVICE_URL"`
	JWTSecret   string `yaml:"JWT_SECRET"`

	PageSize     int `yaml:"PAGE_SIZE"`
	MaxPageSize  int `yaml:"MAX_PAGE_SIZE"`
	MaxTreeDepth int `yaml:"MAX_TREE_DEPTH"`
}

// Load reads the YAML file at path. An empty path falls back to the
// HR_CONFIG env var, then to config.yaml.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("HR_CONFIG")
	}
	if path == "" {
		path = "config.yaml"
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTPPort == 0 {
		c.HTTPPort = 8000
	}
	if c.PageSize == 0 {
		c.PageSize = 10
	}
	if c.MaxPageSize == 0 {
		c.MaxPageSize = 100
	}
	if c.MaxTreeDepth == 0 {
		c.MaxTreeDepth = 10
	}
	if c.DBSSLMode == "" {
		c.DBSSLMode = "disable"
	}
	if c.DumpDBSSLMode == "" {
		c.DumpDBSSLMode = c.DBSSLMode
	}
}

// Master returns the primary database settings.
func (c *Config) Master() *db.Config {
	return &db.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// Dump returns the audit database settings.
func (c *Config) Dump() *db.Config {
	return &db.Config{
		Host:     c.DumpDBHost,
		Port:     c.DumpDBPort,
		User:     c.DumpDBUser,
		Password: c.DumpDBPassword,
		DBName:   c.DumpDBName,
		SSLMode:  c.DumpDBSSLMode,
	}
}
