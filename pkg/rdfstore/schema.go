// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package rdfstore

import (
	rdf "github.com/geoknoesis/rdf-go/rdf"
)

// ClassInfo describes a class found in the store.
type ClassInfo struct {
	IRI     string
	Label   string
	Comment string
}

// PropertyInfo describes a property found in the store.
type PropertyInfo struct {
	IRI    string
	Label  string
	Domain string
	Range  string
}

// InstanceInfo describes an instance of a class.
type InstanceInfo struct {
	IRI   string
	Label string
}

// Stats holds statement and term counts for the store.
type Stats struct {
	Statements int
	Classes    int
	Properties int
	Subjects   int
	Objects    int
}

// Classes returns every class in the store, sorted by IRI. A resource counts
// as a class when it is declared as owl:Class or rdfs:Class, or when it
// appears as the object of an rdf:type statement.
func (s *Store) Classes() []ClassInfo {
	iris := s.classIRIs()
	out := make([]ClassInfo, 0, len(iris))
	for _, iri := range iris {
		out = append(out, ClassInfo{
			IRI:     iri,
			Label:   s.Label(iri),
			Comment: s.Comment(iri),
		})
	}
	return out
}

func (s *Store) classIRIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, class := range []string{OWLClass, RDFSClass} {
		for _, t := range s.matchLocked(nil, RDFType, rdf.IRI{Value: class}) {
			if iri, ok := t.S.(rdf.IRI); ok {
				set[iri.Value] = struct{}{}
			}
		}
	}
	for _, t := range s.matchLocked(nil, RDFType, nil) {
		if iri, ok := t.O.(rdf.IRI); ok {
			set[iri.Value] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Properties returns every property in the store, sorted by IRI. A resource
// counts as a property when declared rdf:Property, owl:ObjectProperty, or
// owl:DatatypeProperty, or when it is used as a predicate.
func (s *Store) Properties() []PropertyInfo {
	iris := s.propertyIRIs()
	out := make([]PropertyInfo, 0, len(iris))
	for _, iri := range iris {
		out = append(out, PropertyInfo{
			IRI:    iri,
			Label:  s.Label(iri),
			Domain: s.firstIRI(iri, RDFSDomain),
			Range:  s.firstIRI(iri, RDFSRange),
		})
	}
	return out
}

func (s *Store) propertyIRIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, class := range []string{RDFProperty, OWLObjectProperty, OWLDatatypeProperty} {
		for _, t := range s.matchLocked(nil, RDFType, rdf.IRI{Value: class}) {
			if iri, ok := t.S.(rdf.IRI); ok {
				set[iri.Value] = struct{}{}
			}
		}
	}
	for p := range s.byPred {
		set[p] = struct{}{}
	}
	return sortedKeys(set)
}

// firstIRI returns the lexicographically smallest IRI object of
// (iri, predicate, ?), or "".
func (s *Store) firstIRI(iri, predicate string) string {
	best := ""
	for _, t := range s.Match(rdf.IRI{Value: iri}, predicate, nil) {
		o, ok := t.O.(rdf.IRI)
		if !ok {
			continue
		}
		if best == "" || o.Value < best {
			best = o.Value
		}
	}
	return best
}

// Instances returns the instances of classIRI, sorted by IRI, capped at limit
// (0 means no cap).
func (s *Store) Instances(classIRI string, limit int) []InstanceInfo {
	s.mu.RLock()
	set := make(map[string]struct{})
	for _, t := range s.matchLocked(nil, RDFType, rdf.IRI{Value: classIRI}) {
		if iri, ok := t.S.(rdf.IRI); ok {
			set[iri.Value] = struct{}{}
		}
	}
	s.mu.RUnlock()

	iris := sortedKeys(set)
	if limit > 0 && len(iris) > limit {
		iris = iris[:limit]
	}
	out := make([]InstanceInfo, 0, len(iris))
	for _, iri := range iris {
		out = append(out, InstanceInfo{IRI: iri, Label: s.Label(iri)})
	}
	return out
}

// Statistics computes statement, class, property, subject, and object counts.
func (s *Store) Statistics() Stats {
	classes := len(s.classIRIs())
	properties := len(s.propertyIRIs())

	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := make(map[string]struct{})
	objects := make(map[string]struct{})
	for _, t := range s.triples {
		subjects[termKey(t.S)] = struct{}{}
		objects[termKey(t.O)] = struct{}{}
	}

	return Stats{
		Statements: len(s.triples),
		Classes:    classes,
		Properties: properties,
		Subjects:   len(subjects),
		Objects:    len(objects),
	}
}
