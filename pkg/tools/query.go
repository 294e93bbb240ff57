// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"

	"github.com/kraklabs/rdfmcp/pkg/sparql"
)

// SparqlSelect executes a SELECT query and returns the bindings as JSON.
// A LIMIT is appended when the query has none; requested limits clamp to the
// configured maximum.
func SparqlSelect(ctx context.Context, store Store, args map[string]any, limits Limits) (*ToolResult, error) {
	query := GetStringArg(args, "query", "")
	if query == "" {
		return NewError("Missing required parameter: query"), nil
	}
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()

	limit := sparql.ClampLimit(GetIntArg(args, "limit", 0), limits.Default, limits.Max)
	query = sparql.EnsureLimit(query, limit)

	result, err := store.Select(ctx, query)
	if err != nil {
		return NewError(fmt.Sprintf("Query failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"variables": result.Variables,
		"bindings":  result.Bindings,
		"count":     len(result.Bindings),
	})
}

// SparqlConstruct executes a CONSTRUCT or DESCRIBE query and returns Turtle.
func SparqlConstruct(ctx context.Context, store Store, args map[string]any, limits Limits) (*ToolResult, error) {
	query := GetStringArg(args, "query", "")
	if query == "" {
		return NewError("Missing required parameter: query"), nil
	}
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()

	limit := sparql.ClampLimit(GetIntArg(args, "limit", 0), limits.Default, limits.Max)
	query = sparql.EnsureLimit(query, limit)

	result, err := store.Graph(ctx, query)
	if err != nil {
		return NewError(fmt.Sprintf("Query failed: %v", err)), nil
	}
	if result.Turtle == "" {
		return NewResult("# No triples returned\n"), nil
	}
	return NewResult(fmt.Sprintf("# %d characters of Turtle\n%s", len(result.Turtle), result.Turtle)), nil
}

// SparqlAsk executes an ASK query and returns the boolean as JSON.
func SparqlAsk(ctx context.Context, store Store, args map[string]any) (*ToolResult, error) {
	query := GetStringArg(args, "query", "")
	if query == "" {
		return NewError("Missing required parameter: query"), nil
	}
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()

	result, err := store.Ask(ctx, query)
	if err != nil {
		return NewError(fmt.Sprintf("Query failed: %v", err)), nil
	}
	return jsonResult(map[string]any{"boolean": result.Boolean})
}

// DescribeResource returns every triple about an IRI, including the triples
// that point at it unless include_incoming is false.
func DescribeResource(ctx context.Context, store Store, args map[string]any) (*ToolResult, error) {
	iri := GetStringArg(args, "iri", "")
	if iri == "" {
		return NewError("Missing required parameter: iri"), nil
	}
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()
	includeIncoming := GetBoolArg(args, "include_incoming", true)

	desc, err := store.DescribeResource(ctx, iri, includeIncoming)
	if err != nil {
		return NewError(fmt.Sprintf("Describe failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"iri":            desc.IRI,
		"triples":        desc.Outgoing,
		"incoming":       desc.Incoming,
		"triple_count":   len(desc.Outgoing),
		"incoming_count": len(desc.Incoming),
	})
}

// switchRepository honors an optional repository_id argument by selecting the
// repository for the duration of the call. The returned restore func puts the
// previous selection back: a one-off repository_id never changes the current
// repository. Only select_repository mutates it durably.
func switchRepository(ctx context.Context, store Store, args map[string]any) (func(), *ToolResult) {
	id := GetStringArg(args, "repository_id", "")
	prev := store.CurrentRepository()
	if id == "" || id == prev {
		return func() {}, nil
	}
	if err := store.SelectRepository(ctx, id); err != nil {
		return nil, NewError(fmt.Sprintf("Cannot select repository %q: %v", id, err))
	}
	return func() {
		_ = store.SelectRepository(context.WithoutCancel(ctx), prev)
	}, nil
}
