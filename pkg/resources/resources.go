// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package resources builds the JSON content served under the rdf4j:// URI
// scheme: the repository list plus per-repository schema, namespaces, and
// statistics documents.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kraklabs/rdfmcp/pkg/backend"
)

// RepositoryListURI is the URI of the repository catalog resource.
const RepositoryListURI = "rdf4j://repositories"

// Resource kinds available per repository.
const (
	KindSchema     = "schema"
	KindNamespaces = "namespaces"
	KindStatistics = "statistics"
)

// Store is the backend surface the resource builders need.
type Store interface {
	ListRepositories(ctx context.Context) ([]backend.RepositoryInfo, error)
	SchemaSummary(ctx context.Context) (*backend.SchemaSummary, error)
	Namespaces(ctx context.Context) (map[string]string, error)
	Statistics(ctx context.Context) (*backend.Stats, error)
	SelectRepository(ctx context.Context, id string) error
	CurrentRepository() string
}

// RepositoryURI returns the URI of a per-repository resource.
func RepositoryURI(id, kind string) string {
	return fmt.Sprintf("rdf4j://repository/%s/%s", id, kind)
}

// ParseRepositoryURI splits a per-repository URI into id and kind.
func ParseRepositoryURI(uri string) (id, kind string, err error) {
	rest, ok := strings.CutPrefix(uri, "rdf4j://repository/")
	if !ok {
		return "", "", fmt.Errorf("not a repository resource URI: %q", uri)
	}
	id, kind, ok = strings.Cut(rest, "/")
	if !ok || id == "" || kind == "" {
		return "", "", fmt.Errorf("malformed repository resource URI: %q", uri)
	}
	return id, kind, nil
}

// RepositoryList returns the repository catalog as JSON.
func RepositoryList(ctx context.Context, store Store) (string, error) {
	repos, err := store.ListRepositories(ctx)
	if err != nil {
		return "", err
	}
	return marshal(map[string]any{
		"repositories": repos,
		"count":        len(repos),
	})
}

// Repository returns the content of one per-repository resource kind. When
// the URI names a repository other than the current one, it is selected for
// the duration of the read and the previous selection is restored.
func Repository(ctx context.Context, store Store, id, kind string) (string, error) {
	if prev := store.CurrentRepository(); id != prev {
		if err := store.SelectRepository(ctx, id); err != nil {
			return "", err
		}
		defer func() { _ = store.SelectRepository(context.WithoutCancel(ctx), prev) }()
	}

	switch kind {
	case KindSchema:
		summary, err := store.SchemaSummary(ctx)
		if err != nil {
			return "", err
		}
		return marshal(summary)
	case KindNamespaces:
		namespaces, err := store.Namespaces(ctx)
		if err != nil {
			return "", err
		}
		return marshal(map[string]any{"namespaces": namespaces})
	case KindStatistics:
		stats, err := store.Statistics(ctx)
		if err != nil {
			return "", err
		}
		return marshal(stats)
	default:
		return "", fmt.Errorf("unknown resource kind %q", kind)
	}
}

func marshal(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting resource: %w", err)
	}
	return string(data), nil
}
