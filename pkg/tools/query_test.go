// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/kraklabs/rdfmcp/pkg/backend"
	"github.com/kraklabs/rdfmcp/pkg/sparql"
)

var testLimits = Limits{Default: 100, Max: 1000}

func TestSparqlSelect(t *testing.T) {
	var captured string
	mock := &MockStore{
		SelectFunc: func(ctx context.Context, query string) (*backend.QueryResult, error) {
			captured = query
			return &backend.QueryResult{
				Form:      sparql.FormSelect,
				Variables: []string{"s"},
				Bindings: []map[string]backend.Value{
					{"s": {Type: "uri", Value: "http://example.org/alice"}},
				},
			}, nil
		},
	}

	result, err := SparqlSelect(context.Background(), mock, map[string]any{
		"query": "SELECT ?s WHERE { ?s ?p ?o }",
	}, testLimits)
	if err != nil {
		t.Fatalf("SparqlSelect() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("SparqlSelect() returned error: %s", result.Text)
	}
	if !strings.Contains(captured, "LIMIT 100") {
		t.Errorf("SparqlSelect() should append the default limit, got query %q", captured)
	}
	for _, check := range []string{"alice", `"count": 1`, "variables"} {
		if !strings.Contains(result.Text, check) {
			t.Errorf("SparqlSelect() output missing %q", check)
		}
	}
}

func TestSparqlSelect_ClampsLimit(t *testing.T) {
	var captured string
	mock := &MockStore{
		SelectFunc: func(ctx context.Context, query string) (*backend.QueryResult, error) {
			captured = query
			return &backend.QueryResult{Form: sparql.FormSelect}, nil
		},
	}

	_, err := SparqlSelect(context.Background(), mock, map[string]any{
		"query": "SELECT ?s WHERE { ?s ?p ?o }",
		"limit": float64(999999),
	}, testLimits)
	if err != nil {
		t.Fatalf("SparqlSelect() error = %v", err)
	}
	if !strings.Contains(captured, "LIMIT 1000") {
		t.Errorf("SparqlSelect() should clamp the limit to 1000, got query %q", captured)
	}
}

func TestSparqlSelect_KeepsExistingLimit(t *testing.T) {
	var captured string
	mock := &MockStore{
		SelectFunc: func(ctx context.Context, query string) (*backend.QueryResult, error) {
			captured = query
			return &backend.QueryResult{Form: sparql.FormSelect}, nil
		},
	}

	_, err := SparqlSelect(context.Background(), mock, map[string]any{
		"query": "SELECT ?s WHERE { ?s ?p ?o } LIMIT 5",
	}, testLimits)
	if err != nil {
		t.Fatalf("SparqlSelect() error = %v", err)
	}
	if strings.Count(captured, "LIMIT") != 1 {
		t.Errorf("SparqlSelect() must not add a second LIMIT, got query %q", captured)
	}
}

func TestSparqlSelect_MissingQuery(t *testing.T) {
	result, _ := SparqlSelect(context.Background(), &MockStore{}, map[string]any{}, testLimits)
	if !result.IsError {
		t.Error("SparqlSelect() should fail without a query")
	}
}

func TestSparqlSelect_BackendError(t *testing.T) {
	mock := &MockStore{
		SelectFunc: func(ctx context.Context, query string) (*backend.QueryResult, error) {
			return nil, &backend.QueryError{Msg: "boom"}
		},
	}

	result, err := SparqlSelect(context.Background(), mock, map[string]any{
		"query": "SELECT ?s WHERE { ?s ?p ?o }",
	}, testLimits)
	if err != nil {
		t.Fatalf("SparqlSelect() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("SparqlSelect() should surface backend errors as tool errors")
	}
	if !strings.Contains(result.Text, "boom") {
		t.Errorf("SparqlSelect() error text missing cause: %s", result.Text)
	}
}

// switchingStore tracks the selected repository like a real backend.
type switchingStore struct {
	MockStore
	current string
}

func newSwitchingStore(initial string) *switchingStore {
	s := &switchingStore{current: initial}
	s.SelectRepositoryFunc = func(ctx context.Context, id string) error {
		s.current = id
		return nil
	}
	s.CurrentRepositoryFunc = func() string { return s.current }
	return s
}

func TestSparqlSelect_RepositoryOverrideIsScoped(t *testing.T) {
	mock := newSwitchingStore("kb")
	var duringQuery string
	mock.SelectFunc = func(ctx context.Context, query string) (*backend.QueryResult, error) {
		duringQuery = mock.current
		return &backend.QueryResult{Form: sparql.FormSelect}, nil
	}

	_, err := SparqlSelect(context.Background(), mock, map[string]any{
		"query":         "SELECT ?s WHERE { ?s ?p ?o }",
		"repository_id": "other",
	}, testLimits)
	if err != nil {
		t.Fatalf("SparqlSelect() error = %v", err)
	}
	if duringQuery != "other" {
		t.Errorf("query should run against repository %q, ran against %q", "other", duringQuery)
	}
	if mock.current != "kb" {
		t.Errorf("one-off repository_id must not change the current repository, got %q", mock.current)
	}
}

func TestSparqlConstruct(t *testing.T) {
	mock := &MockStore{
		GraphFunc: func(ctx context.Context, query string) (*backend.QueryResult, error) {
			return &backend.QueryResult{
				Form:   sparql.FormConstruct,
				Turtle: "<http://example.org/alice> a <http://example.org/Person> .\n",
			}, nil
		},
	}

	result, err := SparqlConstruct(context.Background(), mock, map[string]any{
		"query": "CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }",
	}, testLimits)
	if err != nil {
		t.Fatalf("SparqlConstruct() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("SparqlConstruct() returned error: %s", result.Text)
	}
	if !strings.HasPrefix(result.Text, "#") {
		t.Error("SparqlConstruct() output should start with a comment header")
	}
	if !strings.Contains(result.Text, "alice") {
		t.Error("SparqlConstruct() output missing Turtle payload")
	}
}

func TestSparqlConstruct_Empty(t *testing.T) {
	mock := &MockStore{
		GraphFunc: func(ctx context.Context, query string) (*backend.QueryResult, error) {
			return &backend.QueryResult{Form: sparql.FormConstruct}, nil
		},
	}

	result, _ := SparqlConstruct(context.Background(), mock, map[string]any{
		"query": "CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }",
	}, testLimits)
	if result.IsError {
		t.Fatalf("SparqlConstruct() returned error: %s", result.Text)
	}
	if !strings.Contains(result.Text, "No triples") {
		t.Errorf("SparqlConstruct() should report an empty result, got %s", result.Text)
	}
}

func TestSparqlAsk(t *testing.T) {
	mock := &MockStore{
		AskFunc: func(ctx context.Context, query string) (*backend.QueryResult, error) {
			return &backend.QueryResult{Form: sparql.FormAsk, Boolean: true}, nil
		},
	}

	result, err := SparqlAsk(context.Background(), mock, map[string]any{
		"query": "ASK { ?s ?p ?o }",
	})
	if err != nil {
		t.Fatalf("SparqlAsk() error = %v", err)
	}
	if !strings.Contains(result.Text, `"boolean": true`) {
		t.Errorf("SparqlAsk() output missing boolean, got %s", result.Text)
	}
}

func TestDescribeResource(t *testing.T) {
	obj := backend.Value{Type: "uri", Value: "http://example.org/Person"}
	mock := &MockStore{
		DescribeResourceFunc: func(ctx context.Context, iri string, includeIncoming bool) (*backend.ResourceDescription, error) {
			if !includeIncoming {
				t.Error("DescribeResource() should default include_incoming to true")
			}
			return &backend.ResourceDescription{
				IRI: iri,
				Outgoing: []backend.Statement{
					{Predicate: "http://www.w3.org/1999/02/22-rdf-syntax-ns#type", Object: &obj},
				},
				Incoming: []backend.Statement{
					{Subject: "http://example.org/acme", Predicate: "http://example.org/employs"},
				},
			}, nil
		},
	}

	result, err := DescribeResource(context.Background(), mock, map[string]any{
		"iri": "http://example.org/alice",
	})
	if err != nil {
		t.Fatalf("DescribeResource() error = %v", err)
	}
	for _, check := range []string{"alice", `"triple_count": 1`, `"incoming_count": 1`, "employs"} {
		if !strings.Contains(result.Text, check) {
			t.Errorf("DescribeResource() output missing %q", check)
		}
	}
}

func TestDescribeResource_MissingIRI(t *testing.T) {
	result, _ := DescribeResource(context.Background(), &MockStore{}, map[string]any{})
	if !result.IsError {
		t.Error("DescribeResource() should fail without an iri")
	}
}
