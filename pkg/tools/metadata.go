// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
)

// ListRepositories returns the repositories the backend serves.
func ListRepositories(ctx context.Context, store Store, args map[string]any) (*ToolResult, error) {
	repos, err := store.ListRepositories(ctx)
	if err != nil {
		return NewError(fmt.Sprintf("Cannot list repositories: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"repositories": repos,
		"count":        len(repos),
	})
}

// GetNamespaces returns the prefix to namespace bindings.
func GetNamespaces(ctx context.Context, store Store, args map[string]any) (*ToolResult, error) {
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()
	namespaces, err := store.Namespaces(ctx)
	if err != nil {
		return NewError(fmt.Sprintf("Cannot fetch namespaces: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"namespaces": namespaces,
		"count":      len(namespaces),
	})
}

// GetStatistics returns statement and term counts for the repository.
func GetStatistics(ctx context.Context, store Store, args map[string]any) (*ToolResult, error) {
	restore, res := switchRepository(ctx, store, args)
	if res != nil {
		return res, nil
	}
	defer restore()
	stats, err := store.Statistics(ctx)
	if err != nil {
		return NewError(fmt.Sprintf("Cannot fetch statistics: %v", err)), nil
	}
	return jsonResult(stats)
}

// SelectRepository switches the active repository for subsequent operations.
func SelectRepository(ctx context.Context, store Store, args map[string]any) (*ToolResult, error) {
	id := GetStringArg(args, "repository_id", "")
	if id == "" {
		return NewError("Missing required parameter: repository_id"), nil
	}
	if err := store.SelectRepository(ctx, id); err != nil {
		return NewError(fmt.Sprintf("Cannot select repository %q: %v", id, err)), nil
	}
	return jsonResult(map[string]any{
		"selected": id,
	})
}

// GetCurrentRepository reports the active repository id.
func GetCurrentRepository(ctx context.Context, store Store, args map[string]any) (*ToolResult, error) {
	id := store.CurrentRepository()
	if id == "" {
		return NewResult(`{"repository": null}`), nil
	}
	return jsonResult(map[string]any{"repository": id})
}
