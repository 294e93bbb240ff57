// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package backend

import (
	"context"

	"github.com/kraklabs/rdfmcp/pkg/sparql"
)

// Backend is the interface both storage variants implement. All blocking
// operations take a context; callers apply the configured query timeout as a
// deadline.
type Backend interface {
	// Select executes a SELECT query and returns tabular bindings.
	Select(ctx context.Context, query string) (*QueryResult, error)

	// Graph executes a CONSTRUCT or DESCRIBE query and returns Turtle text.
	Graph(ctx context.Context, query string) (*QueryResult, error)

	// Ask executes an ASK query and returns a boolean result.
	Ask(ctx context.Context, query string) (*QueryResult, error)

	// DescribeResource returns every triple with the IRI as subject and,
	// when requested, the triples that mention it as object.
	DescribeResource(ctx context.Context, iri string, includeIncoming bool) (*ResourceDescription, error)

	// SearchClasses returns classes whose IRI or label matches the
	// case-insensitive pattern; an empty pattern matches everything.
	SearchClasses(ctx context.Context, pattern string, limit int) ([]Class, error)

	// SearchProperties returns properties matching the pattern, optionally
	// restricted to an exact rdfs:domain or rdfs:range IRI.
	SearchProperties(ctx context.Context, pattern, domainIRI, rangeIRI string, limit int) ([]Property, error)

	// FindInstances returns instances of the class, sorted by IRI.
	FindInstances(ctx context.Context, classIRI string, limit int) ([]Instance, error)

	// SchemaSummary returns statistics, classes, properties, and namespace
	// bindings in one round.
	SchemaSummary(ctx context.Context) (*SchemaSummary, error)

	// ListRepositories returns the repositories the backend can serve.
	ListRepositories(ctx context.Context) ([]RepositoryInfo, error)

	// SelectRepository switches subsequent operations to the repository.
	// An empty id clears the selection where the backend supports it.
	SelectRepository(ctx context.Context, id string) error

	// CurrentRepository returns the active repository id, or "".
	CurrentRepository() string

	// Namespaces returns the prefix to namespace IRI bindings.
	Namespaces(ctx context.Context) (map[string]string, error)

	// Statistics returns repository-level counts.
	Statistics(ctx context.Context) (*Stats, error)

	// Close releases backend resources. Safe to call more than once.
	Close() error
}

// Value is one RDF term in the SPARQL JSON results shape.
type Value struct {
	Type     string `json:"type"` // "uri", "literal", or "bnode"
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// QueryResult is the outcome of a SPARQL query. Which fields are populated
// depends on the form: Variables and Bindings for SELECT, Turtle for
// CONSTRUCT and DESCRIBE, Boolean for ASK.
type QueryResult struct {
	Form      sparql.Form
	Variables []string
	Bindings  []map[string]Value
	Turtle    string
	Boolean   bool
}

// Statement is a triple flattened for description output. Subject is empty on
// outgoing triples, whose subject is the described resource itself.
type Statement struct {
	Subject   string `json:"subject,omitempty"`
	Predicate string `json:"predicate"`
	Object    *Value `json:"object,omitempty"`
}

// ResourceDescription is the full description of one resource.
type ResourceDescription struct {
	IRI      string      `json:"iri"`
	Outgoing []Statement `json:"triples"`
	Incoming []Statement `json:"incoming,omitempty"`
}

// Class is a discovered class with optional annotations.
type Class struct {
	IRI     string `json:"iri"`
	Label   string `json:"label,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Property is a discovered property with optional annotations.
type Property struct {
	IRI    string `json:"iri"`
	Label  string `json:"label,omitempty"`
	Domain string `json:"domain,omitempty"`
	Range  string `json:"range,omitempty"`
}

// Instance is one instance of a class.
type Instance struct {
	IRI   string `json:"iri"`
	Label string `json:"label,omitempty"`
}

// Stats holds repository-level counts.
type Stats struct {
	Statements int `json:"statements"`
	Classes    int `json:"classes"`
	Properties int `json:"properties"`
	Subjects   int `json:"subjects"`
	Objects    int `json:"objects"`
}

// SchemaSummary bundles the schema-discovery outputs.
type SchemaSummary struct {
	Statistics Stats             `json:"statistics"`
	Classes    []Class           `json:"classes"`
	Properties []Property        `json:"properties"`
	Namespaces map[string]string `json:"namespaces"`
}

// RepositoryInfo describes one repository on the backend.
type RepositoryInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Readable bool   `json:"readable"`
	Writable bool   `json:"writable"`
}
