// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStoreFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.ttl")
	require.NoError(t, os.WriteFile(path, []byte("<http://example.org/a> <http://example.org/b> <http://example.org/c> .\n"), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, BackendRemote, cfg.Backend)
	assert.Equal(t, "http://localhost:8080/rdf4j-server", cfg.Remote.ServerURL)
	assert.Equal(t, 30, cfg.Query.TimeoutSeconds)
	assert.Equal(t, 100, cfg.Query.DefaultLimit)
	assert.Equal(t, 10000, cfg.Query.MaxLimit)
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: remote
remote:
  server_url: http://rdf4j.internal:8080/rdf4j-server
  repository: kb
query:
  timeout_seconds: 10
  default_limit: 50
  max_limit: 500
`), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://rdf4j.internal:8080/rdf4j-server", cfg.Remote.ServerURL)
	assert.Equal(t, "kb", cfg.Remote.Repository)
	assert.Equal(t, 10, cfg.Query.TimeoutSeconds)
	assert.Equal(t, 50, cfg.Query.DefaultLimit)
	assert.Equal(t, 500, cfg.Query.MaxLimit)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: remote\nremote:\n  repository: from-file\n"), 0600))

	t.Setenv("RDF4J_MCP_DEFAULT_REPOSITORY", "from-env")
	t.Setenv("RDF4J_MCP_QUERY_TIMEOUT", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Remote.Repository)
	assert.Equal(t, 5, cfg.Query.TimeoutSeconds)
}

func TestEnvRejectsMalformedNumbers(t *testing.T) {
	for _, name := range []string{
		"RDF4J_MCP_QUERY_TIMEOUT",
		"RDF4J_MCP_DEFAULT_LIMIT",
		"RDF4J_MCP_MAX_LIMIT",
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, "abc")
			_, err := LoadConfig("")
			assert.ErrorContains(t, err, name)
			assert.ErrorContains(t, err, `"abc"`)
		})
	}
}

func TestEnvSelectsLocalBackend(t *testing.T) {
	store := writeStoreFile(t)
	t.Setenv("RDF4J_MCP_BACKEND_TYPE", "local")
	t.Setenv("RDF4J_MCP_LOCAL_STORE_PATH", store)
	t.Setenv("RDF4J_MCP_LOCAL_STORE_FORMAT", "turtle")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, cfg.Backend)
	require.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigRejectsUnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "graphdb"
	assert.ErrorContains(t, ValidateConfig(cfg), "unsupported backend")
}

func TestValidateConfigLocalRequiresStorePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendLocal
	assert.ErrorContains(t, ValidateConfig(cfg), "store path")

	cfg.Local.StorePath = filepath.Join(t.TempDir(), "missing.ttl")
	assert.ErrorContains(t, ValidateConfig(cfg), "cannot access")
}

func TestValidateConfigRejectsUnknownFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendLocal
	cfg.Local.StorePath = writeStoreFile(t)
	cfg.Local.StoreFormat = "csv"
	assert.ErrorContains(t, ValidateConfig(cfg), "unknown store format")
}

func TestValidateConfigAcceptsN3AsTurtle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendLocal
	cfg.Local.StorePath = writeStoreFile(t)
	cfg.Local.StoreFormat = "n3"
	require.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigRemoteRequiresURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Remote.ServerURL = ""
	assert.ErrorContains(t, ValidateConfig(cfg), "server URL")
}

func TestValidateConfigLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Query.TimeoutSeconds = 0
	assert.ErrorContains(t, ValidateConfig(cfg), "timeout")

	cfg = DefaultConfig()
	cfg.Query.DefaultLimit = -1
	assert.ErrorContains(t, ValidateConfig(cfg), "default limit")

	cfg = DefaultConfig()
	cfg.Query.DefaultLimit = 2000
	cfg.Query.MaxLimit = 1000
	assert.ErrorContains(t, ValidateConfig(cfg), "exceeds max limit")
}
