// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/rdfmcp/pkg/rdfstore"
)

// Backend types.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config represents the rdfmcp configuration file.
type Config struct {
	Backend string       `yaml:"backend"` // local, remote
	Remote  RemoteConfig `yaml:"remote"`
	Local   LocalConfig  `yaml:"local"`
	Query   QueryConfig  `yaml:"query"`
}

// RemoteConfig configures the RDF4J-protocol backend.
type RemoteConfig struct {
	ServerURL  string `yaml:"server_url"`
	Repository string `yaml:"repository"`
}

// LocalConfig configures the embedded backend.
type LocalConfig struct {
	StorePath   string `yaml:"store_path"`
	StoreFormat string `yaml:"store_format"` // turtle, xml, n3, nt, jsonld, nquads, trig
}

// QueryConfig bounds query execution.
type QueryConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	DefaultLimit   int `yaml:"default_limit"`
	MaxLimit       int `yaml:"max_limit"`
}

// DefaultConfig returns a config with the compiled defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendRemote,
		Remote: RemoteConfig{
			ServerURL: "http://localhost:8080/rdf4j-server",
		},
		Local: LocalConfig{
			StoreFormat: "turtle",
		},
		Query: QueryConfig{
			TimeoutSeconds: 30,
			DefaultLimit:   100,
			MaxLimit:       10000,
		},
	}
}

// LoadConfig loads configuration from the given path, falling back to
// defaults when no path is given. Environment variables override file values;
// flags are applied on top by the caller.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config format in %s: %w", configPath, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies RDF4J_MCP_* environment variables to the
// configuration. A variable that is set but not parseable is an error.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("RDF4J_MCP_BACKEND_TYPE"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("RDF4J_MCP_RDF4J_SERVER_URL"); v != "" {
		c.Remote.ServerURL = v
	}
	if v := os.Getenv("RDF4J_MCP_DEFAULT_REPOSITORY"); v != "" {
		c.Remote.Repository = v
	}
	if v := os.Getenv("RDF4J_MCP_LOCAL_STORE_PATH"); v != "" {
		c.Local.StorePath = v
	}
	if v := os.Getenv("RDF4J_MCP_LOCAL_STORE_FORMAT"); v != "" {
		c.Local.StoreFormat = v
	}
	for _, e := range []struct {
		name string
		dst  *int
	}{
		{"RDF4J_MCP_QUERY_TIMEOUT", &c.Query.TimeoutSeconds},
		{"RDF4J_MCP_DEFAULT_LIMIT", &c.Query.DefaultLimit},
		{"RDF4J_MCP_MAX_LIMIT", &c.Query.MaxLimit},
	} {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", e.name, v, err)
		}
		*e.dst = n
	}
	return nil
}

// ValidateConfig checks that the configuration values are valid. Called after
// flag overrides so the server fails fast on a bad effective configuration.
func ValidateConfig(cfg *Config) error {
	switch cfg.Backend {
	case BackendLocal:
		if cfg.Local.StorePath == "" {
			return fmt.Errorf("local backend requires a store path (--store-path or RDF4J_MCP_LOCAL_STORE_PATH)")
		}
		if _, err := os.Stat(cfg.Local.StorePath); err != nil {
			return fmt.Errorf("cannot access store file %s: %w", cfg.Local.StorePath, err)
		}
		if _, err := rdfstore.ParseStoreFormat(cfg.Local.StoreFormat); err != nil {
			return err
		}
	case BackendRemote:
		if cfg.Remote.ServerURL == "" {
			return fmt.Errorf("remote backend requires a server URL (--server-url or RDF4J_MCP_RDF4J_SERVER_URL)")
		}
	default:
		return fmt.Errorf("unsupported backend %q (supported: local, remote)", cfg.Backend)
	}

	if cfg.Query.TimeoutSeconds <= 0 {
		return fmt.Errorf("query timeout must be positive, got %d", cfg.Query.TimeoutSeconds)
	}
	if cfg.Query.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be positive, got %d", cfg.Query.DefaultLimit)
	}
	if cfg.Query.MaxLimit <= 0 {
		return fmt.Errorf("max limit must be positive, got %d", cfg.Query.MaxLimit)
	}
	if cfg.Query.DefaultLimit > cfg.Query.MaxLimit {
		return fmt.Errorf("default limit %d exceeds max limit %d", cfg.Query.DefaultLimit, cfg.Query.MaxLimit)
	}
	return nil
}
