// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package rdfstore

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	rdf "github.com/geoknoesis/rdf-go/rdf"
)

// ParseStoreFormat normalizes a user-facing store format name to the rdf-go
// format. Accepted names: turtle/ttl, xml/rdfxml/rdf, n3, nt/ntriples,
// jsonld/json-ld, nquads/nq, trig. N3 input is parsed with the Turtle parser,
// which covers the RDF subset of N3.
func ParseStoreFormat(name string) (rdf.Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "turtle", "ttl":
		return rdf.FormatTurtle, nil
	case "n3":
		return rdf.FormatTurtle, nil
	case "xml", "rdfxml", "rdf", "rdf/xml":
		return rdf.FormatRDFXML, nil
	case "nt", "ntriples", "n-triples":
		return rdf.FormatNTriples, nil
	case "jsonld", "json-ld", "json":
		return rdf.FormatJSONLD, nil
	case "nquads", "nq", "n-quads":
		return rdf.FormatNQuads, nil
	case "trig":
		return rdf.FormatTriG, nil
	default:
		return "", fmt.Errorf("unknown store format %q (supported: turtle, xml, n3, nt, jsonld, nquads, trig)", name)
	}
}

// LoadFile reads the file at path in the given user-facing format and adds
// its statements to the store. It returns the number of triples added.
func (s *Store) LoadFile(ctx context.Context, path, format string) (int, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from operator configuration
	if err != nil {
		return 0, fmt.Errorf("cannot open store file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return s.LoadReader(ctx, f, format)
}

// LoadReader parses RDF data from r and adds it to the store. Named graphs in
// quad formats are flattened into the single local graph. Prefix declarations
// found in Turtle-family input are registered as namespace bindings.
func (s *Store) LoadReader(ctx context.Context, r io.Reader, format string) (int, error) {
	name, err := ParseStoreFormat(format)
	if err != nil {
		return 0, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("cannot read store data: %w", err)
	}

	var triples []rdf.Triple
	err = rdf.Parse(ctx, bytes.NewReader(data), name, func(st rdf.Statement) error {
		triples = append(triples, rdf.Triple{S: st.S, P: st.P, O: st.O})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cannot parse %s data: %w", name, err)
	}

	prefixes := map[string]string{}
	if name == rdf.FormatTurtle || name == rdf.FormatTriG {
		prefixes = scanPrefixes(bytes.NewReader(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.triples)
	for _, t := range triples {
		s.addLocked(t)
	}
	for p, ns := range prefixes {
		s.namespaces[p] = ns
	}
	return len(s.triples) - before, nil
}

// prefixPattern matches Turtle "@prefix p: <iri> ." and SPARQL-style
// "PREFIX p: <iri>" declarations at line start.
var prefixPattern = regexp.MustCompile(`(?i)^\s*@?prefix\s+([A-Za-z][\w.-]*)?:\s*<([^>]*)>`)

// scanPrefixes collects prefix declarations from Turtle/TriG text so the
// store's namespace table reflects what the file declares, matching what a
// triple-store server reports for a loaded dataset.
func scanPrefixes(r io.Reader) map[string]string {
	out := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := prefixPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		prefix := m[1]
		if prefix == "" {
			continue // default prefix has no usable name
		}
		out[prefix] = m[2]
	}
	return out
}

// SerializeTurtle renders triples as Turtle text.
func (s *Store) SerializeTurtle(ctx context.Context, triples []rdf.Triple) (string, error) {
	return SerializeTurtle(ctx, triples)
}

// SerializeTurtle renders triples as Turtle text through the streaming
// encoder.
func SerializeTurtle(ctx context.Context, triples []rdf.Triple) (string, error) {
	var buf bytes.Buffer
	w, err := rdf.NewWriter(&buf, rdf.FormatTurtle, rdf.OptContext(ctx))
	if err != nil {
		return "", fmt.Errorf("cannot serialize turtle: %w", err)
	}
	for _, t := range triples {
		if err := w.Write(rdf.Statement{S: t.S, P: t.P, O: t.O}); err != nil {
			return "", fmt.Errorf("cannot serialize turtle: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("cannot serialize turtle: %w", err)
	}
	return buf.String(), nil
}
