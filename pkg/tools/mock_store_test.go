// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"

	"github.com/kraklabs/rdfmcp/pkg/backend"
	"github.com/kraklabs/rdfmcp/pkg/sparql"
)

// MockStore is a mock implementation of the Store interface for unit testing.
type MockStore struct {
	SelectFunc            func(ctx context.Context, query string) (*backend.QueryResult, error)
	GraphFunc             func(ctx context.Context, query string) (*backend.QueryResult, error)
	AskFunc               func(ctx context.Context, query string) (*backend.QueryResult, error)
	DescribeResourceFunc  func(ctx context.Context, iri string, includeIncoming bool) (*backend.ResourceDescription, error)
	SearchClassesFunc     func(ctx context.Context, pattern string, limit int) ([]backend.Class, error)
	SearchPropertiesFunc  func(ctx context.Context, pattern, domainIRI, rangeIRI string, limit int) ([]backend.Property, error)
	FindInstancesFunc     func(ctx context.Context, classIRI string, limit int) ([]backend.Instance, error)
	SchemaSummaryFunc     func(ctx context.Context) (*backend.SchemaSummary, error)
	ListRepositoriesFunc  func(ctx context.Context) ([]backend.RepositoryInfo, error)
	SelectRepositoryFunc  func(ctx context.Context, id string) error
	CurrentRepositoryFunc func() string
	NamespacesFunc        func(ctx context.Context) (map[string]string, error)
	StatisticsFunc        func(ctx context.Context) (*backend.Stats, error)
}

func (m *MockStore) Select(ctx context.Context, query string) (*backend.QueryResult, error) {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, query)
	}
	return &backend.QueryResult{Form: sparql.FormSelect}, nil
}

func (m *MockStore) Graph(ctx context.Context, query string) (*backend.QueryResult, error) {
	if m.GraphFunc != nil {
		return m.GraphFunc(ctx, query)
	}
	return &backend.QueryResult{Form: sparql.FormConstruct}, nil
}

func (m *MockStore) Ask(ctx context.Context, query string) (*backend.QueryResult, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, query)
	}
	return &backend.QueryResult{Form: sparql.FormAsk}, nil
}

func (m *MockStore) DescribeResource(ctx context.Context, iri string, includeIncoming bool) (*backend.ResourceDescription, error) {
	if m.DescribeResourceFunc != nil {
		return m.DescribeResourceFunc(ctx, iri, includeIncoming)
	}
	return &backend.ResourceDescription{IRI: iri}, nil
}

func (m *MockStore) SearchClasses(ctx context.Context, pattern string, limit int) ([]backend.Class, error) {
	if m.SearchClassesFunc != nil {
		return m.SearchClassesFunc(ctx, pattern, limit)
	}
	return []backend.Class{}, nil
}

func (m *MockStore) SearchProperties(ctx context.Context, pattern, domainIRI, rangeIRI string, limit int) ([]backend.Property, error) {
	if m.SearchPropertiesFunc != nil {
		return m.SearchPropertiesFunc(ctx, pattern, domainIRI, rangeIRI, limit)
	}
	return []backend.Property{}, nil
}

func (m *MockStore) FindInstances(ctx context.Context, classIRI string, limit int) ([]backend.Instance, error) {
	if m.FindInstancesFunc != nil {
		return m.FindInstancesFunc(ctx, classIRI, limit)
	}
	return []backend.Instance{}, nil
}

func (m *MockStore) SchemaSummary(ctx context.Context) (*backend.SchemaSummary, error) {
	if m.SchemaSummaryFunc != nil {
		return m.SchemaSummaryFunc(ctx)
	}
	return &backend.SchemaSummary{Namespaces: map[string]string{}}, nil
}

func (m *MockStore) ListRepositories(ctx context.Context) ([]backend.RepositoryInfo, error) {
	if m.ListRepositoriesFunc != nil {
		return m.ListRepositoriesFunc(ctx)
	}
	return []backend.RepositoryInfo{{ID: "mock", Readable: true}}, nil
}

func (m *MockStore) SelectRepository(ctx context.Context, id string) error {
	if m.SelectRepositoryFunc != nil {
		return m.SelectRepositoryFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) CurrentRepository() string {
	if m.CurrentRepositoryFunc != nil {
		return m.CurrentRepositoryFunc()
	}
	return "mock"
}

func (m *MockStore) Namespaces(ctx context.Context) (map[string]string, error) {
	if m.NamespacesFunc != nil {
		return m.NamespacesFunc(ctx)
	}
	return map[string]string{}, nil
}

func (m *MockStore) Statistics(ctx context.Context) (*backend.Stats, error) {
	if m.StatisticsFunc != nil {
		return m.StatisticsFunc(ctx)
	}
	return &backend.Stats{}, nil
}
