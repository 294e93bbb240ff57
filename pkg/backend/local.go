// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"fmt"
	"strings"

	rdf "github.com/geoknoesis/rdf-go/rdf"

	"github.com/kraklabs/rdfmcp/pkg/rdfstore"
	"github.com/kraklabs/rdfmcp/pkg/sparql"
)

// LocalRepositoryID is the single repository id the embedded backend serves.
const LocalRepositoryID = "local"

// Local is the embedded backend: an in-memory triple store loaded from a file
// at startup, queried through the minimal SPARQL evaluator and direct index
// scans.
type Local struct {
	store *rdfstore.Store
	path  string
}

// NewLocal loads the file in the given format into a fresh store. The format
// name is validated before anything is read.
func NewLocal(ctx context.Context, path, format string) (*Local, error) {
	store := rdfstore.New()
	if _, err := store.LoadFile(ctx, path, format); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return &Local{store: store, path: path}, nil
}

// NewLocalFromStore wraps an already-populated store. Used by tests and the
// CLI subcommands.
func NewLocalFromStore(store *rdfstore.Store) *Local {
	return &Local{store: store, path: "(memory)"}
}

func (l *Local) Select(ctx context.Context, query string) (*QueryResult, error) {
	q, err := l.parse(query, sparql.FormSelect)
	if err != nil {
		return nil, err
	}
	res, err := q.Select(ctx, l.store)
	if err != nil {
		return nil, timeoutOr(ctx, err)
	}

	out := &QueryResult{Form: sparql.FormSelect, Variables: res.Vars}
	for _, row := range res.Rows {
		binding := make(map[string]Value, len(row))
		for name, term := range row {
			binding[name] = termValue(term)
		}
		out.Bindings = append(out.Bindings, binding)
	}
	return out, nil
}

func (l *Local) Graph(ctx context.Context, query string) (*QueryResult, error) {
	form, err := sparql.DetectForm(query)
	if err != nil {
		return nil, &QueryError{Msg: err.Error()}
	}

	var triples []rdf.Triple
	switch form {
	case sparql.FormConstruct:
		q, err := l.parse(query, sparql.FormConstruct)
		if err != nil {
			return nil, err
		}
		if triples, err = q.Construct(ctx, l.store); err != nil {
			return nil, timeoutOr(ctx, err)
		}
	case sparql.FormDescribe:
		q, err := l.parse(query, sparql.FormDescribe)
		if err != nil {
			return nil, err
		}
		if triples, err = q.DescribeTriples(ctx, l.store); err != nil {
			return nil, timeoutOr(ctx, err)
		}
	default:
		return nil, &QueryError{Msg: fmt.Sprintf("expected CONSTRUCT or DESCRIBE, got %s", form)}
	}

	turtle, err := l.store.SerializeTurtle(ctx, triples)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Form: form, Turtle: turtle}, nil
}

func (l *Local) Ask(ctx context.Context, query string) (*QueryResult, error) {
	q, err := l.parse(query, sparql.FormAsk)
	if err != nil {
		return nil, err
	}
	found, err := q.Ask(ctx, l.store)
	if err != nil {
		return nil, timeoutOr(ctx, err)
	}
	return &QueryResult{Form: sparql.FormAsk, Boolean: found}, nil
}

// parse wraps evaluator parse failures in QueryError and checks the form.
func (l *Local) parse(query string, want sparql.Form) (*sparql.Query, error) {
	q, err := sparql.Parse(query)
	if err != nil {
		return nil, &QueryError{Msg: err.Error()}
	}
	if q.Form != want {
		return nil, &QueryError{Msg: fmt.Sprintf("expected a %s query, got %s", want, q.Form)}
	}
	return q, nil
}

func (l *Local) DescribeResource(ctx context.Context, iri string, includeIncoming bool) (*ResourceDescription, error) {
	desc := &ResourceDescription{IRI: iri}
	for _, t := range l.store.DescribeSubject(iri) {
		v := termValue(t.O)
		desc.Outgoing = append(desc.Outgoing, Statement{Predicate: t.P.Value, Object: &v})
	}
	if includeIncoming {
		for _, t := range l.store.DescribeMentions(iri) {
			desc.Incoming = append(desc.Incoming, Statement{
				Subject:   termValue(t.S).Value,
				Predicate: t.P.Value,
			})
		}
	}
	return desc, nil
}

func (l *Local) SearchClasses(ctx context.Context, pattern string, limit int) ([]Class, error) {
	needle := strings.ToLower(pattern)
	out := []Class{}
	for _, c := range l.store.Classes() {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.IRI), needle) &&
			!strings.Contains(strings.ToLower(c.Label), needle) {
			continue
		}
		out = append(out, Class{IRI: c.IRI, Label: c.Label, Comment: c.Comment})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (l *Local) SearchProperties(ctx context.Context, pattern, domainIRI, rangeIRI string, limit int) ([]Property, error) {
	needle := strings.ToLower(pattern)
	out := []Property{}
	for _, p := range l.store.Properties() {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.IRI), needle) &&
			!strings.Contains(strings.ToLower(p.Label), needle) {
			continue
		}
		if domainIRI != "" && p.Domain != domainIRI {
			continue
		}
		if rangeIRI != "" && p.Range != rangeIRI {
			continue
		}
		out = append(out, Property{IRI: p.IRI, Label: p.Label, Domain: p.Domain, Range: p.Range})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (l *Local) FindInstances(ctx context.Context, classIRI string, limit int) ([]Instance, error) {
	out := []Instance{}
	for _, inst := range l.store.Instances(classIRI, limit) {
		out = append(out, Instance{IRI: inst.IRI, Label: inst.Label})
	}
	return out, nil
}

func (l *Local) SchemaSummary(ctx context.Context) (*SchemaSummary, error) {
	classes, err := l.SearchClasses(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	properties, err := l.SearchProperties(ctx, "", "", "", 0)
	if err != nil {
		return nil, err
	}
	stats, err := l.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return &SchemaSummary{
		Statistics: *stats,
		Classes:    classes,
		Properties: properties,
		Namespaces: l.store.Namespaces(),
	}, nil
}

func (l *Local) ListRepositories(ctx context.Context) ([]RepositoryInfo, error) {
	return []RepositoryInfo{{
		ID:       LocalRepositoryID,
		Title:    fmt.Sprintf("Embedded store (%s)", l.path),
		Readable: true,
		Writable: false,
	}}, nil
}

func (l *Local) SelectRepository(ctx context.Context, id string) error {
	if id != LocalRepositoryID {
		return fmt.Errorf("%w: the embedded backend serves only %q", ErrUnsupportedOperation, LocalRepositoryID)
	}
	return nil
}

func (l *Local) CurrentRepository() string { return LocalRepositoryID }

func (l *Local) Namespaces(ctx context.Context) (map[string]string, error) {
	return l.store.Namespaces(), nil
}

func (l *Local) Statistics(ctx context.Context) (*Stats, error) {
	s := l.store.Statistics()
	return &Stats{
		Statements: s.Statements,
		Classes:    s.Classes,
		Properties: s.Properties,
		Subjects:   s.Subjects,
		Objects:    s.Objects,
	}, nil
}

func (l *Local) Close() error { return nil }

// termValue converts an RDF term to the SPARQL JSON results shape.
func termValue(t rdf.Term) Value {
	switch v := t.(type) {
	case rdf.IRI:
		return Value{Type: "uri", Value: v.Value}
	case rdf.BlankNode:
		return Value{Type: "bnode", Value: v.ID}
	case rdf.Literal:
		out := Value{Type: "literal", Value: v.Lexical, Lang: v.Lang}
		if v.Datatype.Value != "" && v.Datatype.Value != rdfstore.XSDString {
			out.Datatype = v.Datatype.Value
		}
		return out
	default:
		return Value{Type: "literal", Value: t.String()}
	}
}
