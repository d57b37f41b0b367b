// Package config loads the signup command configuration from YAML and
// applies defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-signup/pkg/store"
	"github.com/goliatone/go-signup/pkg/submit"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Endpoint EndpointConfig `yaml:"endpoint"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Theme    ThemeConfig    `yaml:"theme"`
	Log      LogConfig      `yaml:"log"`
}

type EndpointConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
}

type StorageConfig struct {
	Backend string      `yaml:"backend"`
	Key     string      `yaml:"key"`
	File    string      `yaml:"file"`
	SQLite  string      `yaml:"sqlite"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
}

type ThemeConfig struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	Tokens  map[string]string `yaml:"tokens"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint: EndpointConfig{
			URL: submit.DefaultEndpoint,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     store.DefaultRecordKey,
			File:    "signup-data.json",
			SQLite:  "signup.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "signup:",
			},
		},
		Server: ServerConfig{
			Addr:     ":8080",
			BasePath: "/",
		},
		Theme: ThemeConfig{
			Name:    "signup",
			Variant: "light",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		c.Storage.Key = store.DefaultRecordKey
	}
	if strings.TrimSpace(c.Endpoint.URL) == "" {
		c.Endpoint.URL = submit.DefaultEndpoint
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Storage.File == "" {
			errs = append(errs, errors.New("storage.file is required for the file backend"))
		}
	case BackendSQLite:
		if c.Storage.SQLite == "" {
			errs = append(errs, errors.New("storage.sqlite is required for the sqlite backend"))
		}
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is not supported", c.Storage.Backend))
	}
	if c.Endpoint.Timeout < 0 {
		errs = append(errs, errors.New("endpoint.timeout must not be negative"))
	}
	if c.Endpoint.RateLimit < 0 {
		errs = append(errs, errors.New("endpoint.rate_limit must not be negative"))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not supported", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
