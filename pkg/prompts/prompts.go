// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package prompts renders the guided-prompt texts. Each builder pulls a live
// schema summary from the backend so the prompt reflects the actual data.
package prompts

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kraklabs/rdfmcp/pkg/backend"
)

// Store is the backend surface the prompt builders need.
type Store interface {
	SchemaSummary(ctx context.Context) (*backend.SchemaSummary, error)
	Select(ctx context.Context, query string) (*backend.QueryResult, error)
	SelectRepository(ctx context.Context, id string) error
	CurrentRepository() string
}

// ExploreKnowledgeGraph builds the guided-exploration prompt.
func ExploreKnowledgeGraph(ctx context.Context, store Store, repositoryID, focusArea string) (string, error) {
	restore, err := withRepository(ctx, store, repositoryID)
	if err != nil {
		return "", err
	}
	defer restore()

	summary, err := store.SchemaSummary(ctx)
	if err != nil {
		return "", err
	}

	focusText := ""
	if focusArea != "" {
		focusText = fmt.Sprintf("\nThe user wants to focus on: %s\n", focusArea)
	}

	return fmt.Sprintf(`You are helping explore a knowledge graph. Here is the current schema context:

## Statistics
- Total statements: %d
- Total classes: %d
- Total properties: %d

## Namespaces
%s

## Main Classes
%s

## Main Properties
%s
%s
## Available Tools
You can use these tools to explore:
- `+"`sparql_select`"+` - Query for specific data
- `+"`sparql_construct`"+` - Get RDF subgraphs
- `+"`describe_resource`"+` - Get all info about a specific IRI
- `+"`search_classes`"+` - Find classes by pattern
- `+"`search_properties`"+` - Find properties by pattern
- `+"`find_instances`"+` - Find instances of a class
- `+"`get_schema_summary`"+` - Get ontology overview

## Exploration Suggestions
1. Start by understanding the main classes and their relationships
2. Use `+"`describe_resource`"+` to explore specific instances
3. Look for patterns in how classes are connected via properties
4. Check for hierarchies using rdfs:subClassOf relationships

What would you like to explore?`,
		summary.Statistics.Statements,
		summary.Statistics.Classes,
		summary.Statistics.Properties,
		namespaceLines(summary.Namespaces, 10),
		classLines(summary.Classes, 15),
		propertyLines(summary.Properties, 15),
		focusText,
	), nil
}

// WriteSparqlQuery builds the query-writing assistance prompt.
func WriteSparqlQuery(ctx context.Context, store Store, question, repositoryID string) (string, error) {
	restore, err := withRepository(ctx, store, repositoryID)
	if err != nil {
		return "", err
	}
	defer restore()

	summary, err := store.SchemaSummary(ctx)
	if err != nil {
		return "", err
	}

	var prefixes []string
	for _, prefix := range sortedPrefixes(summary.Namespaces) {
		if prefix == "" {
			continue
		}
		prefixes = append(prefixes, fmt.Sprintf("PREFIX %s: <%s>", prefix, summary.Namespaces[prefix]))
		if len(prefixes) >= 15 {
			break
		}
	}

	var classes []string
	for _, c := range capClasses(summary.Classes, 20) {
		line := fmt.Sprintf("  - <%s>", c.IRI)
		if c.Label != "" {
			line += fmt.Sprintf(" # %s", c.Label)
		}
		classes = append(classes, line)
	}

	var props []string
	for _, p := range capProperties(summary.Properties, 20) {
		line := fmt.Sprintf("  - <%s>", p.IRI)
		if p.Label != "" {
			line += fmt.Sprintf(" # %s", p.Label)
		}
		if p.Domain != "" {
			line += fmt.Sprintf(" domain: %s", p.Domain)
		}
		if p.Range != "" {
			line += fmt.Sprintf(" range: %s", p.Range)
		}
		props = append(props, line)
	}

	return fmt.Sprintf(`Help me write a SPARQL query to answer this question:

%q

## Available Prefixes
`+"```sparql\n%s\n```"+`

## Available Classes
%s

## Available Properties
%s

## Guidelines
1. Use the prefixes above when possible
2. Use OPTIONAL for non-required fields
3. Add FILTER for text searches or constraints
4. Use LIMIT to avoid overwhelming results
5. Consider using ORDER BY for sorted results

Please write a SPARQL SELECT query that answers the question.
Explain your reasoning and any assumptions made.`,
		question,
		strings.Join(prefixes, "\n"),
		strings.Join(classes, "\n"),
		strings.Join(props, "\n"),
	), nil
}

// ExplainOntology builds the ontology-explanation prompt. When a focus class
// is given, its related properties are pulled with an extra query; a failure
// there degrades to a bare focus heading rather than failing the prompt.
func ExplainOntology(ctx context.Context, store Store, repositoryID, focusClass string) (string, error) {
	restore, err := withRepository(ctx, store, repositoryID)
	if err != nil {
		return "", err
	}
	defer restore()

	summary, err := store.SchemaSummary(ctx)
	if err != nil {
		return "", err
	}

	focusText := ""
	if focusClass != "" {
		focusText = fmt.Sprintf("\n## Focus Class: %s\n", focusClass)
		if related := focusClassProperties(ctx, store, focusClass); related != "" {
			focusText = fmt.Sprintf("\n## Focus Class: %s\nProperties related to this class:\n%s\n", focusClass, related)
		}
	}

	var classes []string
	for _, c := range capClasses(summary.Classes, 25) {
		line := "  - " + c.IRI
		if c.Comment != "" {
			comment := c.Comment
			if len(comment) > 100 {
				comment = comment[:100]
			}
			line += ": " + comment
		}
		classes = append(classes, line)
	}

	var props []string
	for _, p := range capProperties(summary.Properties, 25) {
		line := "  - " + p.IRI
		if p.Domain != "" {
			line += fmt.Sprintf(" (domain: %s)", p.Domain)
		}
		if p.Range != "" {
			line += fmt.Sprintf(" -> %s", p.Range)
		}
		props = append(props, line)
	}

	return fmt.Sprintf(`Please explain this ontology/schema:

## Overview
- Total statements: %d
- Total classes: %d
- Total properties: %d

## Namespaces Used
%s

## Classes
%s

## Properties
%s
%s
Please provide:
1. A high-level summary of what this ontology represents
2. The main concepts (classes) and how they relate
3. Key properties and what they connect
4. Any patterns or design choices you notice
5. Suggestions for how to query this data effectively`,
		summary.Statistics.Statements,
		summary.Statistics.Classes,
		summary.Statistics.Properties,
		namespaceLines(summary.Namespaces, 10),
		strings.Join(classes, "\n"),
		strings.Join(props, "\n"),
		focusText,
	), nil
}

// withRepository selects the repository for the duration of a prompt build
// and restores the previous selection afterwards, so a per-prompt
// repository_id never changes the current repository durably.
func withRepository(ctx context.Context, store Store, id string) (func(), error) {
	prev := store.CurrentRepository()
	if id == "" || id == prev {
		return func() {}, nil
	}
	if err := store.SelectRepository(ctx, id); err != nil {
		return nil, err
	}
	return func() {
		_ = store.SelectRepository(context.WithoutCancel(ctx), prev)
	}, nil
}

func focusClassProperties(ctx context.Context, store Store, focusClass string) string {
	query := fmt.Sprintf(`PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?property WHERE { ?property rdfs:domain <%s> } ORDER BY ?property LIMIT 20`, focusClass)

	res, err := store.Select(ctx, query)
	if err != nil || len(res.Bindings) == 0 {
		return ""
	}
	var lines []string
	for _, b := range res.Bindings {
		lines = append(lines, "  - "+b["property"].Value)
	}
	return strings.Join(lines, "\n")
}

func namespaceLines(namespaces map[string]string, limit int) string {
	var lines []string
	for _, prefix := range sortedPrefixes(namespaces) {
		lines = append(lines, fmt.Sprintf("  - %s: <%s>", prefix, namespaces[prefix]))
		if len(lines) >= limit {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func classLines(classes []backend.Class, limit int) string {
	var lines []string
	for _, c := range capClasses(classes, limit) {
		line := "  - " + c.IRI
		if c.Label != "" {
			line += fmt.Sprintf(" (%s)", c.Label)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func propertyLines(properties []backend.Property, limit int) string {
	var lines []string
	for _, p := range capProperties(properties, limit) {
		line := "  - " + p.IRI
		if p.Label != "" {
			line += fmt.Sprintf(" (%s)", p.Label)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func capClasses(classes []backend.Class, limit int) []backend.Class {
	if len(classes) > limit {
		return classes[:limit]
	}
	return classes
}

func capProperties(properties []backend.Property, limit int) []backend.Property {
	if len(properties) > limit {
		return properties[:limit]
	}
	return properties
}

func sortedPrefixes(namespaces map[string]string) []string {
	prefixes := make([]string, 0, len(namespaces))
	for prefix := range namespaces {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	return prefixes
}
