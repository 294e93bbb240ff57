// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package rdfstore

import (
	"sort"
	"strings"
	"sync"

	rdf "github.com/geoknoesis/rdf-go/rdf"
)

// Store is an in-memory triple store with subject/predicate/object indexes.
// The zero value is not usable; call New.
type Store struct {
	mu         sync.RWMutex
	triples    []rdf.Triple
	bySubject  map[string][]int
	byPred     map[string][]int
	byObject   map[string][]int
	seen       map[tripleKey]struct{}
	namespaces map[string]string // prefix -> namespace IRI
}

type tripleKey struct {
	s, p, o string
}

// New creates an empty store with the common namespaces bound.
func New() *Store {
	return &Store{
		bySubject:  make(map[string][]int),
		byPred:     make(map[string][]int),
		byObject:   make(map[string][]int),
		seen:       make(map[tripleKey]struct{}),
		namespaces: defaultNamespaces(),
	}
}

// Add inserts a triple. Duplicate triples are ignored.
func (s *Store) Add(t rdf.Triple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(t)
}

func (s *Store) addLocked(t rdf.Triple) {
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return
	}
	key := tripleKey{s: termKey(t.S), p: t.P.Value, o: termKey(t.O)}
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}

	idx := len(s.triples)
	s.triples = append(s.triples, t)
	s.bySubject[key.s] = append(s.bySubject[key.s], idx)
	s.byPred[key.p] = append(s.byPred[key.p], idx)
	s.byObject[key.o] = append(s.byObject[key.o], idx)
}

// Len returns the number of stored triples.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triples)
}

// BindNamespace registers a prefix mapping, overwriting any previous binding.
func (s *Store) BindNamespace(prefix, namespace string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.namespaces[prefix] = namespace
}

// Namespaces returns a copy of the prefix bindings.
func (s *Store) Namespaces() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.namespaces))
	for p, ns := range s.namespaces {
		out[p] = ns
	}
	return out
}

// Match returns all triples matching the pattern. A nil subject or object and
// an empty predicate act as wildcards. Results preserve insertion order.
func (s *Store) Match(subject rdf.Term, predicate string, object rdf.Term) []rdf.Triple {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchLocked(subject, predicate, object)
}

func (s *Store) matchLocked(subject rdf.Term, predicate string, object rdf.Term) []rdf.Triple {
	candidates := s.candidateIndexes(subject, predicate, object)

	var out []rdf.Triple
	for _, i := range candidates {
		t := s.triples[i]
		if subject != nil && !TermEqual(t.S, subject) {
			continue
		}
		if predicate != "" && t.P.Value != predicate {
			continue
		}
		if object != nil && !TermEqual(t.O, object) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// candidateIndexes picks the narrowest index for the bound pattern parts.
func (s *Store) candidateIndexes(subject rdf.Term, predicate string, object rdf.Term) []int {
	best := -1
	var chosen []int

	consider := func(idxs []int, bound bool) {
		if !bound {
			return
		}
		if best == -1 || len(idxs) < best {
			best = len(idxs)
			chosen = idxs
		}
	}
	consider(s.bySubject[termKeyOrEmpty(subject)], subject != nil)
	consider(s.byPred[predicate], predicate != "")
	consider(s.byObject[termKeyOrEmpty(object)], object != nil)

	if best == -1 {
		all := make([]int, len(s.triples))
		for i := range all {
			all[i] = i
		}
		return all
	}
	return chosen
}

// DescribeSubject returns all triples with the given IRI as subject.
func (s *Store) DescribeSubject(iri string) []rdf.Triple {
	return s.Match(rdf.IRI{Value: iri}, "", nil)
}

// DescribeMentions returns all triples with the given IRI as object.
func (s *Store) DescribeMentions(iri string) []rdf.Triple {
	return s.Match(nil, "", rdf.IRI{Value: iri})
}

// Label returns the rdfs:label of a resource, or "" if it has none.
// When several labels exist the lexicographically smallest wins so repeated
// calls return the same value.
func (s *Store) Label(iri string) string {
	return s.firstLiteral(iri, RDFSLabel)
}

// Comment returns the rdfs:comment of a resource, or "".
func (s *Store) Comment(iri string) string {
	return s.firstLiteral(iri, RDFSComment)
}

func (s *Store) firstLiteral(iri, predicate string) string {
	best := ""
	for _, t := range s.Match(rdf.IRI{Value: iri}, predicate, nil) {
		lit, ok := t.O.(rdf.Literal)
		if !ok {
			continue
		}
		if best == "" || lit.Lexical < best {
			best = lit.Lexical
		}
	}
	return best
}

// TermEqual reports whether two terms denote the same RDF term. Plain string
// literals compare equal to xsd:string typed literals.
func TermEqual(a, b rdf.Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch at := a.(type) {
	case rdf.IRI:
		bt, ok := b.(rdf.IRI)
		return ok && at.Value == bt.Value
	case rdf.BlankNode:
		bt, ok := b.(rdf.BlankNode)
		return ok && at.ID == bt.ID
	case rdf.Literal:
		bt, ok := b.(rdf.Literal)
		if !ok {
			return false
		}
		return at.Lexical == bt.Lexical &&
			at.Lang == bt.Lang &&
			normalizeDatatype(at) == normalizeDatatype(bt)
	default:
		return a.String() == b.String()
	}
}

func normalizeDatatype(l rdf.Literal) string {
	if l.Datatype.Value == XSDString {
		return ""
	}
	return l.Datatype.Value
}

func termKey(t rdf.Term) string {
	if lit, ok := t.(rdf.Literal); ok && lit.Datatype.Value == XSDString {
		lit.Datatype = rdf.IRI{}
		return lit.String()
	}
	return t.String()
}

func termKeyOrEmpty(t rdf.Term) string {
	if t == nil {
		return ""
	}
	return termKey(t)
}

// LocalName returns the fragment after the last '#' or '/' of an IRI.
func LocalName(iri string) string {
	if i := strings.LastIndexAny(iri, "#/"); i >= 0 && i+1 < len(iri) {
		return iri[i+1:]
	}
	return iri
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
