// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"

	"github.com/kraklabs/rdfmcp/pkg/sparql"
)

// SearchClasses finds classes whose IRI or label matches a pattern.
func SearchClasses(ctx context.Context, store Store, args map[string]any, limits Limits) (*ToolResult, error) {
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()
	pattern := GetStringArg(args, "pattern", "")
	limit := sparql.ClampLimit(GetIntArg(args, "limit", 0), limits.Default, limits.Max)

	classes, err := store.SearchClasses(ctx, pattern, limit)
	if err != nil {
		return NewError(fmt.Sprintf("Class search failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"classes": classes,
		"count":   len(classes),
	})
}

// SearchProperties finds properties matching a pattern, optionally filtered
// by exact domain and range IRIs.
func SearchProperties(ctx context.Context, store Store, args map[string]any, limits Limits) (*ToolResult, error) {
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()
	pattern := GetStringArg(args, "pattern", "")
	domain := GetStringArg(args, "domain", "")
	rng := GetStringArg(args, "range", "")
	limit := sparql.ClampLimit(GetIntArg(args, "limit", 0), limits.Default, limits.Max)

	properties, err := store.SearchProperties(ctx, pattern, domain, rng, limit)
	if err != nil {
		return NewError(fmt.Sprintf("Property search failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"properties": properties,
		"count":      len(properties),
	})
}

// FindInstances lists instances of a class, sorted by IRI.
func FindInstances(ctx context.Context, store Store, args map[string]any, limits Limits) (*ToolResult, error) {
	classIRI := GetStringArg(args, "class_iri", "")
	if classIRI == "" {
		return NewError("Missing required parameter: class_iri"), nil
	}
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()
	limit := sparql.ClampLimit(GetIntArg(args, "limit", 0), limits.Default, limits.Max)

	instances, err := store.FindInstances(ctx, classIRI, limit)
	if err != nil {
		return NewError(fmt.Sprintf("Instance search failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"class":     classIRI,
		"instances": instances,
		"count":     len(instances),
	})
}

// GetSchemaSummary returns statistics, classes, properties, and namespaces in
// one shot.
func GetSchemaSummary(ctx context.Context, store Store, args map[string]any) (*ToolResult, error) {
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()
	summary, err := store.SchemaSummary(ctx)
	if err != nil {
		return NewError(fmt.Sprintf("Schema summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}
