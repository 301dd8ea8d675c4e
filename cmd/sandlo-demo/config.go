// File: cmd/sandlo-demo/config.go

package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	sandlodb "github.com/AndreaPrestia/sandlo-db"
)

// Config is the demo configuration. Defaults are overlaid by the yaml file
// when one is given, then by SANDLO_* environment variables (a .env file is
// honored too).
type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	Store struct {
		EntityTTLMinutes         int     `yaml:"entity_ttl_minutes"`
		MaxMemoryAllocationBytes float64 `yaml:"max_memory_allocation_bytes"`
	} `yaml:"store"`

	Maintenance struct {
		TTLIntervalSeconds    int `yaml:"ttl_interval_seconds"`
		MemoryIntervalSeconds int `yaml:"memory_interval_seconds"`
	} `yaml:"maintenance"`

	Workload struct {
		Enabled    bool `yaml:"enabled"`
		IntervalMS int  `yaml:"interval_ms"`
	} `yaml:"workload"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.HTTPAddr = ":8080"
	cfg.Store.EntityTTLMinutes = sandlodb.DefaultEntityTTLMinutes
	cfg.Store.MaxMemoryAllocationBytes = sandlodb.DefaultMaxMemoryAllocationBytes
	cfg.Maintenance.TTLIntervalSeconds = 30
	cfg.Maintenance.MemoryIntervalSeconds = 10
	cfg.Workload.Enabled = true
	cfg.Workload.IntervalMS = 250
	return cfg
}

// loadConfig builds the effective configuration: defaults, then the yaml
// file at path when given, then environment overrides, then validation.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddr = getenv("SANDLO_HTTP_ADDR", cfg.HTTPAddr)
	cfg.Store.EntityTTLMinutes = getenvInt("SANDLO_ENTITY_TTL_MINUTES", cfg.Store.EntityTTLMinutes)
	cfg.Store.MaxMemoryAllocationBytes = getenvFloat("SANDLO_MAX_MEMORY_BYTES", cfg.Store.MaxMemoryAllocationBytes)
	cfg.Maintenance.TTLIntervalSeconds = getenvInt("SANDLO_TTL_INTERVAL_SECONDS", cfg.Maintenance.TTLIntervalSeconds)
	cfg.Maintenance.MemoryIntervalSeconds = getenvInt("SANDLO_MEMORY_INTERVAL_SECONDS", cfg.Maintenance.MemoryIntervalSeconds)
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr must not be empty")
	}
	if c.Maintenance.TTLIntervalSeconds <= 0 {
		return fmt.Errorf("ttl_interval_seconds must be positive, got %d", c.Maintenance.TTLIntervalSeconds)
	}
	if c.Maintenance.MemoryIntervalSeconds <= 0 {
		return fmt.Errorf("memory_interval_seconds must be positive, got %d", c.Maintenance.MemoryIntervalSeconds)
	}
	if c.Workload.Enabled && c.Workload.IntervalMS <= 0 {
		return fmt.Errorf("workload interval_ms must be positive, got %d", c.Workload.IntervalMS)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
