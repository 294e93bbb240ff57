// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/kraklabs/rdfmcp/pkg/backend"
)

func TestListRepositories(t *testing.T) {
	mock := &MockStore{
		ListRepositoriesFunc: func(ctx context.Context) ([]backend.RepositoryInfo, error) {
			return []backend.RepositoryInfo{
				{ID: "test", Title: "Test repository", Readable: true},
				{ID: "kb", Title: "Knowledge base", Readable: true, Writable: true},
			}, nil
		},
	}

	result, err := ListRepositories(context.Background(), mock, map[string]any{})
	if err != nil {
		t.Fatalf("ListRepositories() error = %v", err)
	}
	for _, check := range []string{"test", "kb", `"count": 2`} {
		if !strings.Contains(result.Text, check) {
			t.Errorf("ListRepositories() output missing %q", check)
		}
	}
}

func TestGetNamespaces(t *testing.T) {
	mock := &MockStore{
		NamespacesFunc: func(ctx context.Context) (map[string]string, error) {
			return map[string]string{"ex": "http://example.org/"}, nil
		},
	}

	result, err := GetNamespaces(context.Background(), mock, map[string]any{})
	if err != nil {
		t.Fatalf("GetNamespaces() error = %v", err)
	}
	if !strings.Contains(result.Text, "http://example.org/") {
		t.Errorf("GetNamespaces() output missing namespace, got %s", result.Text)
	}
}

func TestGetStatistics(t *testing.T) {
	mock := &MockStore{
		StatisticsFunc: func(ctx context.Context) (*backend.Stats, error) {
			return &backend.Stats{Statements: 42, Classes: 3, Properties: 5, Subjects: 7, Objects: 11}, nil
		},
	}

	result, err := GetStatistics(context.Background(), mock, map[string]any{})
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}
	for _, check := range []string{`"statements": 42`, `"subjects": 7`, `"objects": 11`} {
		if !strings.Contains(result.Text, check) {
			t.Errorf("GetStatistics() output missing %q", check)
		}
	}
}

func TestSelectRepository(t *testing.T) {
	var selected string
	mock := &MockStore{
		SelectRepositoryFunc: func(ctx context.Context, id string) error {
			selected = id
			return nil
		},
	}

	result, err := SelectRepository(context.Background(), mock, map[string]any{
		"repository_id": "kb",
	})
	if err != nil {
		t.Fatalf("SelectRepository() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("SelectRepository() returned error: %s", result.Text)
	}
	if selected != "kb" {
		t.Errorf("SelectRepository() selected %q, want %q", selected, "kb")
	}
}

func TestSelectRepository_NotFound(t *testing.T) {
	mock := &MockStore{
		SelectRepositoryFunc: func(ctx context.Context, id string) error {
			return backend.ErrRepositoryNotFound
		},
	}

	result, _ := SelectRepository(context.Background(), mock, map[string]any{
		"repository_id": "missing",
	})
	if !result.IsError {
		t.Error("SelectRepository() should fail for an unknown repository")
	}
}

func TestSelectRepository_MissingID(t *testing.T) {
	result, _ := SelectRepository(context.Background(), &MockStore{}, map[string]any{})
	if !result.IsError {
		t.Error("SelectRepository() should fail without repository_id")
	}
}

func TestGetCurrentRepository(t *testing.T) {
	mock := &MockStore{
		CurrentRepositoryFunc: func() string { return "kb" },
	}

	result, err := GetCurrentRepository(context.Background(), mock, map[string]any{})
	if err != nil {
		t.Fatalf("GetCurrentRepository() error = %v", err)
	}
	if !strings.Contains(result.Text, `"repository": "kb"`) {
		t.Errorf("GetCurrentRepository() output missing id, got %s", result.Text)
	}
}

func TestGetCurrentRepository_None(t *testing.T) {
	mock := &MockStore{
		CurrentRepositoryFunc: func() string { return "" },
	}

	result, _ := GetCurrentRepository(context.Background(), mock, map[string]any{})
	if !strings.Contains(result.Text, "null") {
		t.Errorf("GetCurrentRepository() should report null, got %s", result.Text)
	}
}
