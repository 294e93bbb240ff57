// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"

	"github.com/kraklabs/rdfmcp/pkg/backend"
)

// Store is the backend surface the tool handlers run against. Both backend
// variants satisfy it; tests substitute a mock.
type Store interface {
	Select(ctx context.Context, query string) (*backend.QueryResult, error)
	Graph(ctx context.Context, query string) (*backend.QueryResult, error)
	Ask(ctx context.Context, query string) (*backend.QueryResult, error)
	DescribeResource(ctx context.Context, iri string, includeIncoming bool) (*backend.ResourceDescription, error)
	SearchClasses(ctx context.Context, pattern string, limit int) ([]backend.Class, error)
	SearchProperties(ctx context.Context, pattern, domainIRI, rangeIRI string, limit int) ([]backend.Property, error)
	FindInstances(ctx context.Context, classIRI string, limit int) ([]backend.Instance, error)
	SchemaSummary(ctx context.Context) (*backend.SchemaSummary, error)
	ListRepositories(ctx context.Context) ([]backend.RepositoryInfo, error)
	SelectRepository(ctx context.Context, id string) error
	CurrentRepository() string
	Namespaces(ctx context.Context) (map[string]string, error)
	Statistics(ctx context.Context) (*backend.Stats, error)
}

// Limits carries the configured result-size bounds into the query tools.
// Requested limits above Max clamp to Max.
type Limits struct {
	Default int
	Max     int
}

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	Text    string
	IsError bool
}

// NewResult creates a successful tool result.
func NewResult(text string) *ToolResult {
	return &ToolResult{Text: text}
}

// NewError creates an error tool result.
func NewError(text string) *ToolResult {
	return &ToolResult{Text: text, IsError: true}
}
