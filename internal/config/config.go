package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saddleworks/rccemu/internal/constants"
)

// Server holds all configuration for the emulator.
type Server struct {
	// Network
	Host       string `yaml:"host"`
	HTTPPort   int    `yaml:"http_port"`
	TCPPort    int    `yaml:"tcp_port"`
	PolicyPort int    `yaml:"policy_port"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Debug logging
	Debug DebugConfig `yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DebugConfig toggles the per-category rotating debug logs.
type DebugConfig struct {
	TCP    bool   `yaml:"tcp"`
	HTTP   bool   `yaml:"http"`
	Binary bool   `yaml:"binary"`
	Dir    string `yaml:"dir"`
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		Host:       "0.0.0.0",
		HTTPPort:   constants.DefaultHTTPPort,
		TCPPort:    constants.DefaultTCPPort,
		PolicyPort: constants.DefaultPolicyPort,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "rccemu",
			Password: "rccemu",
			DBName:   "rccemu",
			SSLMode:  "disable",
		},
		Debug: DebugConfig{
			Dir: "logs",
		},
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
