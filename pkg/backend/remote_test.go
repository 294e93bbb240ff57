// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/rdfmcp/pkg/sparql"
)

const repositoryListJSON = `{
  "head": {"vars": ["id", "title", "readable", "writable"]},
  "results": {"bindings": [
    {"id": {"type": "literal", "value": "test"},
     "title": {"type": "literal", "value": "Test repository"},
     "readable": {"type": "literal", "value": "true"},
     "writable": {"type": "literal", "value": "false"}},
    {"id": {"type": "literal", "value": "kb"},
     "title": {"type": "literal", "value": "Knowledge base"},
     "readable": {"type": "literal", "value": "true"},
     "writable": {"type": "literal", "value": "true"}}
  ]}
}`

// newTestServer speaks enough of the RDF4J REST protocol for the client.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /repositories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, repositoryListJSON)
	})
	mux.HandleFunc("GET /repositories/test/namespaces", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, `{"head":{"vars":["prefix","namespace"]},"results":{"bindings":[
		  {"prefix":{"type":"literal","value":"ex"},"namespace":{"type":"uri","value":"http://example.org/"}}
		]}}`)
	})
	mux.HandleFunc("GET /repositories/test/size", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "42")
	})
	mux.HandleFunc("POST /repositories/test", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		query := r.PostFormValue("query")
		require.NotEmpty(t, query)

		if strings.Contains(query, "NOT-SPARQL") {
			http.Error(w, "MALFORMED QUERY", http.StatusBadRequest)
			return
		}
		if r.Header.Get("Accept") == "text/turtle" {
			w.Header().Set("Content-Type", "text/turtle")
			fmt.Fprint(w, "<http://example.org/alice> a <http://example.org/Person> .\n")
			return
		}

		w.Header().Set("Content-Type", "application/sparql-results+json")
		switch {
		case strings.HasPrefix(strings.TrimSpace(query), "ASK"):
			fmt.Fprint(w, `{"head":{},"boolean":true}`)
		case strings.Contains(query, "COUNT"):
			fmt.Fprint(w, `{"head":{"vars":["count"]},"results":{"bindings":[
			  {"count":{"type":"literal","value":"7","datatype":"http://www.w3.org/2001/XMLSchema#integer"}}
			]}}`)
		default:
			fmt.Fprint(w, `{"head":{"vars":["s"]},"results":{"bindings":[
			  {"s":{"type":"uri","value":"http://example.org/alice"}},
			  {"s":{"type":"uri","value":"http://example.org/bob"}}
			]}}`)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteListRepositories(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "")

	repos, err := r.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "test", repos[0].ID)
	assert.Equal(t, "Test repository", repos[0].Title)
	assert.True(t, repos[0].Readable)
	assert.False(t, repos[0].Writable)
}

func TestRemoteSelect(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "test")

	res, err := r.Select(context.Background(), "SELECT ?s WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, res.Variables)
	require.Len(t, res.Bindings, 2)
	assert.Equal(t, Value{Type: "uri", Value: "http://example.org/alice"}, res.Bindings[0]["s"])
}

func TestRemoteAsk(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "test")

	res, err := r.Ask(context.Background(), "ASK { ?s ?p ?o }")
	require.NoError(t, err)
	assert.True(t, res.Boolean)
}

func TestRemoteGraph(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "test")

	res, err := r.Graph(context.Background(), "CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	assert.Equal(t, sparql.FormConstruct, res.Form)
	assert.Contains(t, res.Turtle, "alice")
}

func TestRemoteQueryErrorOn4xx(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "test")

	_, err := r.Select(context.Background(), "SELECT ?s WHERE { NOT-SPARQL }")
	require.Error(t, err)
	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Contains(t, qerr.Msg, "MALFORMED QUERY")
}

func TestRemoteRepositoryNotFound(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "missing")

	_, err := r.Select(context.Background(), "SELECT ?s WHERE { ?s ?p ?o }")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRepositoryNotFound)
}

func TestRemoteNoRepositorySelected(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "")

	_, err := r.Select(context.Background(), "SELECT ?s WHERE { ?s ?p ?o }")
	assert.ErrorIs(t, err, ErrNoRepository)
}

func TestRemoteSelectRepository(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "")

	require.NoError(t, r.SelectRepository(context.Background(), "kb"))
	assert.Equal(t, "kb", r.CurrentRepository())

	err := r.SelectRepository(context.Background(), "unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRepositoryNotFound)
	assert.Equal(t, "kb", r.CurrentRepository())

	// Empty id clears the selection without a server round trip.
	require.NoError(t, r.SelectRepository(context.Background(), ""))
	assert.Equal(t, "", r.CurrentRepository())
}

func TestRemoteNamespaces(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "test")

	ns, err := r.Namespaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ex": "http://example.org/"}, ns)
}

func TestRemoteStatistics(t *testing.T) {
	srv := newTestServer(t)
	r := NewRemote(srv.URL, "test")

	stats, err := r.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.Statements)
	assert.Equal(t, 7, stats.Classes)
	assert.Equal(t, 7, stats.Properties)
}

func TestRemoteTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()
	r := NewRemote(slow.URL, "test")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Select(ctx, "SELECT ?s WHERE { ?s ?p ?o }")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRemoteConnectionError(t *testing.T) {
	// A closed server yields a refused connection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	r := NewRemote(srv.URL, "test")

	_, err := r.Select(context.Background(), "SELECT ?s WHERE { ?s ?p ?o }")
	require.Error(t, err)
	var cerr *ConnectionError
	assert.ErrorAs(t, err, &cerr)
}
