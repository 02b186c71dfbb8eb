package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 8080
	DefaultDataFile     = "data/tasks.json"
	DefaultMaxBodyBytes = 10 << 20
)

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type CORSConfig struct {
	AllowOrigin string `yaml:"allowOrigin"`
}

type BoardConfig struct {
	RecentSaves int `yaml:"recentSaves"`
}

type Config struct {
	Listen    string        `yaml:"listen"` // host:port, overrides Port when set
	Port      int           `yaml:"port"`
	Workspace string        `yaml:"workspace"`
	DataFile  string        `yaml:"dataFile"` // relative to Workspace unless absolute
	Logging   LoggingConfig `yaml:"logging"`
	Server    ServerConfig  `yaml:"server"`
	CORS      CORSConfig    `yaml:"cors"`
	Board     BoardConfig   `yaml:"board"`
}

func Default() *Config {
	return &Config{
		Port:      DefaultPort,
		Workspace: ".",
		DataFile:  DefaultDataFile,
		Logging:   LoggingConfig{Level: "info"},
		Server: ServerConfig{
			MaxBodyBytes:    DefaultMaxBodyBytes,
			ShutdownTimeout: 5 * time.Second,
		},
		CORS:  CORSConfig{AllowOrigin: "*"},
		Board: BoardConfig{RecentSaves: 20},
	}
}

// Load reads a YAML file. With an empty path ./config.yaml is tried and the
// defaults are used when it is absent; an explicit path must exist. Env
// overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()
	optional := path == ""
	if optional {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MC_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("MC_PORT"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("MC_WORKSPACE"); v != "" {
		cfg.Workspace = v
	}
	if v := os.Getenv("MC_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("MC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MC_MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = n
		}
	}
	if v := os.Getenv("MC_CORS_ORIGIN"); v != "" {
		cfg.CORS.AllowOrigin = v
	}
	if v := os.Getenv("MC_RECENT_SAVES"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Board.RecentSaves = n
		}
	}
}

func (c *Config) Validate() error {
	if c.Listen == "" && (c.Port < 1 || c.Port > 65535) {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if strings.TrimSpace(c.Workspace) == "" {
		return errors.New("workspace is empty")
	}
	if strings.TrimSpace(c.DataFile) == "" {
		return errors.New("dataFile is empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.maxBodyBytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

// Addr is the listen address. Without an explicit Listen value the port is
// bound on all interfaces.
func (c *Config) Addr() string {
	if c.Listen != "" {
		return c.Listen
	}
	return ":" + strconv.Itoa(c.Port)
}

// DataPath resolves DataFile against the workspace root.
func (c *Config) DataPath() string {
	if filepath.IsAbs(c.DataFile) {
		return filepath.Clean(c.DataFile)
	}
	return filepath.Join(c.Workspace, filepath.FromSlash(c.DataFile))
}
