package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type TrackingConfig struct {
	// MaxProjects caps the number of projects a non-admin user may own.
	MaxProjects int `yaml:"max_projects"`
}

type MCPConfig struct {
	AuthEnabled bool `yaml:"auth_enabled"`
	// APIKey identifies the caller when the transport carries no headers
	// (stdio mode, or HTTP with auth disabled).
	APIKey string `yaml:"api_key"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "sitt.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Tracking: TrackingConfig{
			MaxProjects: 15,
		},
		MCP: MCPConfig{
			AuthEnabled: true,
		},
	}

	if path := os.Getenv("SITT_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("SITT_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("SITT_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SITT_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("SITT_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("SITT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("SITT_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if maxStr := os.Getenv("SITT_MAX_PROJECTS"); maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SITT_MAX_PROJECTS: %w", err)
		}
		cfg.Tracking.MaxProjects = max
	}
	if key := os.Getenv("SITT_MCP_API_KEY"); key != "" {
		cfg.MCP.APIKey = key
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
