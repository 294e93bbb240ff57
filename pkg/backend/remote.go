// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/kraklabs/rdfmcp/pkg/sparql"
)

const (
	acceptSPARQLJSON = "application/sparql-results+json"
	acceptTurtle     = "text/turtle"
)

// Remote is the HTTP backend: a client for an RDF4J-protocol server. It holds
// no connection state beyond the shared http.Client and the selected
// repository id; it is safe for concurrent use.
type Remote struct {
	serverURL string
	client    *http.Client

	mu         sync.Mutex
	repository string
}

// NewRemote creates a client for the server. The repository id may be empty;
// operations that need one then fail with ErrNoRepository until
// SelectRepository succeeds. Deadlines come from the caller's context, not
// from the client.
func NewRemote(serverURL, repository string) *Remote {
	return &Remote{
		serverURL:  strings.TrimRight(serverURL, "/"),
		client:     &http.Client{},
		repository: repository,
	}
}

// sparqlResults is the SPARQL 1.1 JSON results document.
type sparqlResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]Value `json:"bindings"`
	} `json:"results"`
	Boolean *bool `json:"boolean"`
}

func (r *Remote) Select(ctx context.Context, query string) (*QueryResult, error) {
	res, err := r.query(ctx, query, acceptSPARQLJSON)
	if err != nil {
		return nil, err
	}
	return &QueryResult{
		Form:      sparql.FormSelect,
		Variables: res.Head.Vars,
		Bindings:  res.Results.Bindings,
	}, nil
}

func (r *Remote) Graph(ctx context.Context, query string) (*QueryResult, error) {
	form, err := sparql.DetectForm(query)
	if err != nil {
		return nil, &QueryError{Msg: err.Error()}
	}
	if form != sparql.FormConstruct && form != sparql.FormDescribe {
		return nil, &QueryError{Msg: fmt.Sprintf("expected CONSTRUCT or DESCRIBE, got %s", form)}
	}

	repo, err := r.repositoryID()
	if err != nil {
		return nil, err
	}
	body, err := r.postQuery(ctx, repo, query, acceptTurtle)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Form: form, Turtle: string(body)}, nil
}

func (r *Remote) Ask(ctx context.Context, query string) (*QueryResult, error) {
	res, err := r.query(ctx, query, acceptSPARQLJSON)
	if err != nil {
		return nil, err
	}
	if res.Boolean == nil {
		return nil, &QueryError{Msg: "server returned no boolean result for ASK"}
	}
	return &QueryResult{Form: sparql.FormAsk, Boolean: *res.Boolean}, nil
}

func (r *Remote) DescribeResource(ctx context.Context, iri string, includeIncoming bool) (*ResourceDescription, error) {
	desc := &ResourceDescription{IRI: iri}

	out, err := r.query(ctx, fmt.Sprintf(
		"SELECT ?predicate ?object WHERE { <%s> ?predicate ?object } ORDER BY ?predicate", iri), acceptSPARQLJSON)
	if err != nil {
		return nil, err
	}
	for _, b := range out.Results.Bindings {
		obj := b["object"]
		desc.Outgoing = append(desc.Outgoing, Statement{
			Predicate: b["predicate"].Value,
			Object:    &obj,
		})
	}

	if includeIncoming {
		in, err := r.query(ctx, fmt.Sprintf(
			"SELECT ?subject ?predicate WHERE { ?subject ?predicate <%s> } ORDER BY ?subject", iri), acceptSPARQLJSON)
		if err != nil {
			return nil, err
		}
		for _, b := range in.Results.Bindings {
			desc.Incoming = append(desc.Incoming, Statement{
				Subject:   b["subject"].Value,
				Predicate: b["predicate"].Value,
			})
		}
	}
	return desc, nil
}

func (r *Remote) SearchClasses(ctx context.Context, pattern string, limit int) ([]Class, error) {
	var b strings.Builder
	b.WriteString(`PREFIX owl: <http://www.w3.org/2002/07/owl#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT DISTINCT ?class ?label ?comment WHERE {
  { ?class a owl:Class } UNION { ?class a rdfs:Class } UNION { ?instance a ?class }
  OPTIONAL { ?class rdfs:label ?label }
  OPTIONAL { ?class rdfs:comment ?comment }
  FILTER(isIRI(?class))
`)
	if pattern != "" {
		esc := escapeSPARQLString(pattern)
		fmt.Fprintf(&b, "  FILTER(regex(str(?class), \"%s\", \"i\") || regex(str(?label), \"%s\", \"i\"))\n", esc, esc)
	}
	b.WriteString("} ORDER BY ?class")
	if limit > 0 {
		fmt.Fprintf(&b, "\nLIMIT %d", limit)
	}

	res, err := r.query(ctx, b.String(), acceptSPARQLJSON)
	if err != nil {
		return nil, err
	}
	out := []Class{}
	for _, bind := range res.Results.Bindings {
		out = append(out, Class{
			IRI:     bind["class"].Value,
			Label:   bind["label"].Value,
			Comment: bind["comment"].Value,
		})
	}
	return out, nil
}

func (r *Remote) SearchProperties(ctx context.Context, pattern, domainIRI, rangeIRI string, limit int) ([]Property, error) {
	var b strings.Builder
	b.WriteString(`PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX owl: <http://www.w3.org/2002/07/owl#>
SELECT DISTINCT ?property ?label ?domain ?range WHERE {
  { ?property a rdf:Property } UNION { ?property a owl:ObjectProperty }
  UNION { ?property a owl:DatatypeProperty } UNION { ?s ?property ?o }
  OPTIONAL { ?property rdfs:label ?label }
  OPTIONAL { ?property rdfs:domain ?domain }
  OPTIONAL { ?property rdfs:range ?range }
  FILTER(isIRI(?property))
`)
	if pattern != "" {
		esc := escapeSPARQLString(pattern)
		fmt.Fprintf(&b, "  FILTER(regex(str(?property), \"%s\", \"i\") || regex(str(?label), \"%s\", \"i\"))\n", esc, esc)
	}
	if domainIRI != "" {
		fmt.Fprintf(&b, "  ?property rdfs:domain <%s> .\n", domainIRI)
	}
	if rangeIRI != "" {
		fmt.Fprintf(&b, "  ?property rdfs:range <%s> .\n", rangeIRI)
	}
	b.WriteString("} ORDER BY ?property")
	if limit > 0 {
		fmt.Fprintf(&b, "\nLIMIT %d", limit)
	}

	res, err := r.query(ctx, b.String(), acceptSPARQLJSON)
	if err != nil {
		return nil, err
	}
	out := []Property{}
	for _, bind := range res.Results.Bindings {
		out = append(out, Property{
			IRI:    bind["property"].Value,
			Label:  bind["label"].Value,
			Domain: bind["domain"].Value,
			Range:  bind["range"].Value,
		})
	}
	return out, nil
}

func (r *Remote) FindInstances(ctx context.Context, classIRI string, limit int) ([]Instance, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT DISTINCT ?instance ?label WHERE {
  ?instance a <%s> .
  OPTIONAL { ?instance rdfs:label ?label }
} ORDER BY ?instance`, classIRI)
	if limit > 0 {
		fmt.Fprintf(&b, "\nLIMIT %d", limit)
	}

	res, err := r.query(ctx, b.String(), acceptSPARQLJSON)
	if err != nil {
		return nil, err
	}
	out := []Instance{}
	for _, bind := range res.Results.Bindings {
		out = append(out, Instance{
			IRI:   bind["instance"].Value,
			Label: bind["label"].Value,
		})
	}
	return out, nil
}

// schemaSampleLimit bounds how many classes and properties a schema summary
// pulls from the server.
const schemaSampleLimit = 100

func (r *Remote) SchemaSummary(ctx context.Context) (*SchemaSummary, error) {
	stats, err := r.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := r.SearchClasses(ctx, "", schemaSampleLimit)
	if err != nil {
		return nil, err
	}
	properties, err := r.SearchProperties(ctx, "", "", "", schemaSampleLimit)
	if err != nil {
		return nil, err
	}
	namespaces, err := r.Namespaces(ctx)
	if err != nil {
		return nil, err
	}
	return &SchemaSummary{
		Statistics: *stats,
		Classes:    classes,
		Properties: properties,
		Namespaces: namespaces,
	}, nil
}

func (r *Remote) ListRepositories(ctx context.Context) ([]RepositoryInfo, error) {
	body, err := r.get(ctx, r.serverURL+"/repositories", acceptSPARQLJSON)
	if err != nil {
		return nil, err
	}
	var res sparqlResults
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decoding repository list: %w", err)
	}

	out := []RepositoryInfo{}
	for _, b := range res.Results.Bindings {
		out = append(out, RepositoryInfo{
			ID:       b["id"].Value,
			Title:    b["title"].Value,
			Readable: b["readable"].Value == "true",
			Writable: b["writable"].Value == "true",
		})
	}
	return out, nil
}

func (r *Remote) SelectRepository(ctx context.Context, id string) error {
	if id == "" {
		r.mu.Lock()
		r.repository = ""
		r.mu.Unlock()
		return nil
	}
	repos, err := r.ListRepositories(ctx)
	if err != nil {
		return err
	}
	for _, repo := range repos {
		if repo.ID == id {
			r.mu.Lock()
			r.repository = id
			r.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrRepositoryNotFound, id)
}

func (r *Remote) CurrentRepository() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.repository
}

func (r *Remote) Namespaces(ctx context.Context) (map[string]string, error) {
	repo, err := r.repositoryID()
	if err != nil {
		return nil, err
	}
	body, err := r.get(ctx, fmt.Sprintf("%s/repositories/%s/namespaces", r.serverURL, url.PathEscape(repo)), acceptSPARQLJSON)
	if err != nil {
		return nil, err
	}
	var res sparqlResults
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decoding namespaces: %w", err)
	}

	out := map[string]string{}
	for _, b := range res.Results.Bindings {
		out[b["prefix"].Value] = b["namespace"].Value
	}
	return out, nil
}

func (r *Remote) Statistics(ctx context.Context) (*Stats, error) {
	repo, err := r.repositoryID()
	if err != nil {
		return nil, err
	}
	body, err := r.get(ctx, fmt.Sprintf("%s/repositories/%s/size", r.serverURL, url.PathEscape(repo)), "text/plain")
	if err != nil {
		return nil, err
	}
	size, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("decoding repository size %q: %w", strings.TrimSpace(string(body)), err)
	}

	stats := &Stats{Statements: size}
	counts := []struct {
		dest  *int
		query string
	}{
		{&stats.Classes, "SELECT (COUNT(DISTINCT ?class) AS ?count) WHERE { ?s a ?class }"},
		{&stats.Properties, "SELECT (COUNT(DISTINCT ?p) AS ?count) WHERE { ?s ?p ?o }"},
		{&stats.Subjects, "SELECT (COUNT(DISTINCT ?s) AS ?count) WHERE { ?s ?p ?o }"},
		{&stats.Objects, "SELECT (COUNT(DISTINCT ?o) AS ?count) WHERE { ?s ?p ?o }"},
	}
	for _, c := range counts {
		res, err := r.query(ctx, c.query, acceptSPARQLJSON)
		if err != nil {
			return nil, err
		}
		if len(res.Results.Bindings) > 0 {
			n, _ := strconv.Atoi(res.Results.Bindings[0]["count"].Value)
			*c.dest = n
		}
	}
	return stats, nil
}

// Close drops idle connections; the client itself has no other state.
func (r *Remote) Close() error {
	r.client.CloseIdleConnections()
	return nil
}

func (r *Remote) repositoryID() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repository == "" {
		return "", ErrNoRepository
	}
	return r.repository, nil
}

// query posts a SPARQL query to the selected repository and decodes the JSON
// results document.
func (r *Remote) query(ctx context.Context, query, accept string) (*sparqlResults, error) {
	repo, err := r.repositoryID()
	if err != nil {
		return nil, err
	}
	body, err := r.postQuery(ctx, repo, query, accept)
	if err != nil {
		return nil, err
	}
	var res sparqlResults
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decoding query results: %w", err)
	}
	return &res, nil
}

func (r *Remote) postQuery(ctx context.Context, repo, query, accept string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/repositories/%s", r.serverURL, url.PathEscape(repo))
	form := url.Values{"query": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", accept)
	return r.do(req)
}

func (r *Remote) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	return r.do(req)
}

// do sends the request and maps transport and status failures onto the
// backend error taxonomy. There are no retries.
func (r *Remote) do(req *http.Request) ([]byte, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		if mapped := timeoutOr(req.Context(), err); mapped != err {
			return nil, mapped
		}
		return nil, &ConnectionError{URL: r.serverURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, timeoutOr(req.Context(), err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, req.URL.Path)
	case resp.StatusCode >= 400:
		return nil, &QueryError{Msg: fmt.Sprintf("server returned %d: %s", resp.StatusCode, snippet(body))}
	}
	return body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// escapeSPARQLString escapes a value for embedding in a double-quoted SPARQL
// string literal.
func escapeSPARQLString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
