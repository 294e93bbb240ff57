// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package main implements the rdfmcp CLI, an MCP adapter for RDF/SPARQL
// knowledge graphs.
//
// Usage:
//
//	rdfmcp                        Start as MCP server (JSON-RPC over stdio)
//	rdfmcp query <sparql>         Execute a SPARQL query and print the result
//	rdfmcp stats                  Show repository statistics
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Exit codes for the rdfmcp CLI.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitConfig  = 2
	ExitBackend = 3
	ExitQuery   = 4
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		configPath  = flag.StringP("config", "c", "", "Path to config file")
		backendType = flag.String("backend", "", "Backend type: local or remote")
		serverURL   = flag.String("server-url", "", "RDF4J server URL (remote backend)")
		repository  = flag.String("repository", "", "Default repository id (remote backend)")
		storePath   = flag.String("store-path", "", "RDF file to load (local backend)")
		storeFormat = flag.String("store-format", "", "RDF file format (local backend)")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)

	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `rdfmcp - MCP adapter for RDF/SPARQL knowledge graphs

rdfmcp exposes SPARQL queries, schema discovery, and resource description
over the Model Context Protocol, backed by either an embedded in-memory
triple store or a remote RDF4J-protocol server.

Usage:
  rdfmcp [options]              Start as MCP server (JSON-RPC over stdio)
  rdfmcp [options] <command>

Commands:
  query <sparql>    Execute a SPARQL query and print the result
  stats             Show repository statistics

Options:
  --backend         Backend type: local or remote
  --server-url      RDF4J server URL (remote backend)
  --repository      Default repository id (remote backend)
  --store-path      RDF file to load (local backend)
  --store-format    RDF file format: turtle, xml, n3, nt, jsonld, nquads, trig
  --debug           Enable debug logging
  -c, --config      Path to config file (YAML)
  -V, --version     Show version and exit

Examples:
  rdfmcp --backend local --store-path ontology.ttl
  rdfmcp --backend remote --server-url http://localhost:8080/rdf4j-server --repository kb
  rdfmcp --backend local --store-path data.ttl query "SELECT ?s WHERE { ?s ?p ?o } LIMIT 5"
  rdfmcp --backend remote --repository kb stats

Environment Variables:
  RDF4J_MCP_BACKEND_TYPE        Backend type (local, remote)
  RDF4J_MCP_RDF4J_SERVER_URL    RDF4J server URL
  RDF4J_MCP_DEFAULT_REPOSITORY  Default repository id
  RDF4J_MCP_LOCAL_STORE_PATH    RDF file for the local backend
  RDF4J_MCP_LOCAL_STORE_FORMAT  RDF file format
  RDF4J_MCP_QUERY_TIMEOUT       Query timeout in seconds (default 30)
  RDF4J_MCP_DEFAULT_LIMIT       Default result limit (default 100)
  RDF4J_MCP_MAX_LIMIT           Maximum result limit (default 10000)

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("rdfmcp version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(ExitSuccess)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfig)
	}

	// Flags take precedence over environment and file values.
	if *backendType != "" {
		cfg.Backend = *backendType
	}
	if *serverURL != "" {
		cfg.Remote.ServerURL = *serverURL
	}
	if *repository != "" {
		cfg.Remote.Repository = *repository
	}
	if *storePath != "" {
		cfg.Local.StorePath = *storePath
	}
	if *storeFormat != "" {
		cfg.Local.StoreFormat = *storeFormat
	}

	if err := ValidateConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfig)
	}

	args := flag.Args()
	if len(args) == 0 {
		os.Exit(runServe(cfg, *debug))
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "query":
		os.Exit(runQuery(cfg, cmdArgs))
	case "stats":
		os.Exit(runStats(cfg))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(ExitGeneral)
	}
}
