// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kraklabs/rdfmcp/pkg/sparql"
	"github.com/kraklabs/rdfmcp/pkg/tools"
)

// runQuery executes a single SPARQL query against the configured backend and
// prints the tool-formatted result. Convenience for debugging a store or
// server without an MCP client.
func runQuery(cfg *Config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: rdfmcp query <sparql>\n")
		return ExitGeneral
	}
	query := args[0]

	form, err := sparql.DetectForm(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitQuery
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Query.TimeoutSeconds)*time.Second)
	defer cancel()

	be, err := newBackend(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitBackend
	}
	defer be.Close()

	limits := tools.Limits{Default: cfg.Query.DefaultLimit, Max: cfg.Query.MaxLimit}
	toolArgs := map[string]any{"query": query}

	var result *tools.ToolResult
	switch form {
	case sparql.FormSelect:
		result, err = tools.SparqlSelect(ctx, be, toolArgs, limits)
	case sparql.FormAsk:
		result, err = tools.SparqlAsk(ctx, be, toolArgs)
	default:
		result, err = tools.SparqlConstruct(ctx, be, toolArgs, limits)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitQuery
	}
	if result.IsError {
		fmt.Fprintf(os.Stderr, "Error: %s\n", result.Text)
		return ExitQuery
	}

	fmt.Println(result.Text)
	return ExitSuccess
}
