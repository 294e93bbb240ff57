// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package sparql

import (
	"context"
	"fmt"
	"sort"
	"strings"

	rdf "github.com/geoknoesis/rdf-go/rdf"
)

// Graph is the source of triples an evaluation runs against. Any of the three
// positions may be a wildcard: nil subject, empty predicate, nil object.
type Graph interface {
	Match(subject rdf.Term, predicate string, object rdf.Term) []rdf.Triple
}

// Binding maps variable names to the terms they are bound to in one solution.
type Binding map[string]rdf.Term

// SelectResult holds SELECT solutions in projection order.
type SelectResult struct {
	Vars []string
	Rows []Binding
}

// Select evaluates a SELECT query against g.
func (q *Query) Select(ctx context.Context, g Graph) (*SelectResult, error) {
	if q.Form != FormSelect {
		return nil, fmt.Errorf("not a SELECT query")
	}
	solutions, err := evalBGP(ctx, g, q.Where, 0)
	if err != nil {
		return nil, err
	}

	vars := q.SelectVars
	if len(vars) == 0 {
		vars = patternVars(q.Where)
	}

	rows := make([]Binding, 0, len(solutions))
	for _, sol := range solutions {
		row := make(Binding, len(vars))
		for _, v := range vars {
			if term, ok := sol[v]; ok {
				row[v] = term
			}
		}
		rows = append(rows, row)
	}

	if q.Distinct {
		rows = dedupeRows(rows, vars)
	}
	if len(q.OrderBy) > 0 {
		sortRows(rows, q.OrderBy)
	}
	rows = slice(rows, q.Offset, q.Limit)
	return &SelectResult{Vars: vars, Rows: rows}, nil
}

// Ask evaluates an ASK query, stopping at the first solution.
func (q *Query) Ask(ctx context.Context, g Graph) (bool, error) {
	if q.Form != FormAsk {
		return false, fmt.Errorf("not an ASK query")
	}
	solutions, err := evalBGP(ctx, g, q.Where, 1)
	if err != nil {
		return false, err
	}
	return len(solutions) > 0, nil
}

// Construct evaluates a CONSTRUCT query. Template triples with an unbound
// variable or an ill-typed position are skipped, duplicates are elided.
func (q *Query) Construct(ctx context.Context, g Graph) ([]rdf.Triple, error) {
	if q.Form != FormConstruct {
		return nil, fmt.Errorf("not a CONSTRUCT query")
	}
	solutions, err := evalBGP(ctx, g, q.Where, 0)
	if err != nil {
		return nil, err
	}

	var out []rdf.Triple
	seen := map[string]struct{}{}
	for _, sol := range solutions {
		for _, tp := range q.Template {
			t, ok := instantiate(tp, sol)
			if !ok {
				continue
			}
			key := termString(t.S) + "\x00" + t.P.Value + "\x00" + termString(t.O)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t)
		}
		if q.Limit >= 0 && len(out) >= q.Limit {
			out = out[:q.Limit]
			break
		}
	}
	return out, nil
}

// DescribeTriples evaluates a DESCRIBE query: every outgoing triple of each
// target resource, where variable targets are resolved through the WHERE
// clause first.
func (q *Query) DescribeTriples(ctx context.Context, g Graph) ([]rdf.Triple, error) {
	if q.Form != FormDescribe {
		return nil, fmt.Errorf("not a DESCRIBE query")
	}

	var targets []rdf.Term
	seen := map[string]struct{}{}
	add := func(t rdf.Term) {
		key := termString(t)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		targets = append(targets, t)
	}

	var solutions []Binding
	for _, d := range q.Describe {
		if !d.IsVar() {
			add(d.Term)
			continue
		}
		if solutions == nil {
			if len(q.Where) == 0 {
				return nil, fmt.Errorf("DESCRIBE ?%s requires a WHERE clause", d.Var)
			}
			var err error
			solutions, err = evalBGP(ctx, g, q.Where, 0)
			if err != nil {
				return nil, err
			}
		}
		for _, sol := range solutions {
			if term, ok := sol[d.Var]; ok {
				add(term)
			}
		}
	}

	var out []rdf.Triple
	dup := map[string]struct{}{}
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, t := range g.Match(target, "", nil) {
			key := termString(t.S) + "\x00" + t.P.Value + "\x00" + termString(t.O)
			if _, d := dup[key]; d {
				continue
			}
			dup[key] = struct{}{}
			out = append(out, t)
		}
	}
	return out, nil
}

// evalBGP computes solutions for a basic graph pattern by backtracking over
// the patterns in order. maxSolutions of 0 means unbounded.
func evalBGP(ctx context.Context, g Graph, patterns []TriplePattern, maxSolutions int) ([]Binding, error) {
	if len(patterns) == 0 {
		return []Binding{{}}, nil
	}
	var solutions []Binding
	err := matchFrom(ctx, g, patterns, Binding{}, maxSolutions, &solutions)
	if err != nil {
		return nil, err
	}
	return solutions, nil
}

func matchFrom(ctx context.Context, g Graph, patterns []TriplePattern, bound Binding, maxSolutions int, out *[]Binding) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(patterns) == 0 {
		sol := make(Binding, len(bound))
		for k, v := range bound {
			sol[k] = v
		}
		*out = append(*out, sol)
		return nil
	}

	tp := patterns[0]
	s := resolve(tp.S, bound)
	o := resolve(tp.O, bound)
	pred := ""
	if term := resolve(tp.P, bound); term != nil {
		iri, ok := term.(rdf.IRI)
		if !ok {
			return nil // non-IRI predicate binding can never match
		}
		pred = iri.Value
	}

	for _, t := range g.Match(s, pred, o) {
		undo := make([]string, 0, 3)
		ok := true
		for _, bind := range []struct {
			pt   PatternTerm
			term rdf.Term
		}{{tp.S, t.S}, {tp.P, t.P}, {tp.O, t.O}} {
			if !bind.pt.IsVar() {
				continue
			}
			if prev, exists := bound[bind.pt.Var]; exists {
				if !sameTerm(prev, bind.term) {
					ok = false
					break
				}
				continue
			}
			bound[bind.pt.Var] = bind.term
			undo = append(undo, bind.pt.Var)
		}
		if ok {
			if err := matchFrom(ctx, g, patterns[1:], bound, maxSolutions, out); err != nil {
				return err
			}
		}
		for _, v := range undo {
			delete(bound, v)
		}
		if maxSolutions > 0 && len(*out) >= maxSolutions {
			return nil
		}
	}
	return nil
}

// resolve returns the concrete term for a pattern position, or nil when it is
// an unbound variable.
func resolve(pt PatternTerm, bound Binding) rdf.Term {
	if !pt.IsVar() {
		return pt.Term
	}
	if term, ok := bound[pt.Var]; ok {
		return term
	}
	return nil
}

func instantiate(tp TriplePattern, sol Binding) (rdf.Triple, bool) {
	s := resolve(tp.S, sol)
	p := resolve(tp.P, sol)
	o := resolve(tp.O, sol)
	if s == nil || p == nil || o == nil {
		return rdf.Triple{}, false
	}
	if _, lit := s.(rdf.Literal); lit {
		return rdf.Triple{}, false
	}
	pIRI, ok := p.(rdf.IRI)
	if !ok {
		return rdf.Triple{}, false
	}
	return rdf.Triple{S: s, P: pIRI, O: o}, true
}

func patternVars(patterns []TriplePattern) []string {
	var vars []string
	seen := map[string]struct{}{}
	add := func(pt PatternTerm) {
		if !pt.IsVar() {
			return
		}
		if _, dup := seen[pt.Var]; dup {
			return
		}
		seen[pt.Var] = struct{}{}
		vars = append(vars, pt.Var)
	}
	for _, tp := range patterns {
		add(tp.S)
		add(tp.P)
		add(tp.O)
	}
	return vars
}

func dedupeRows(rows []Binding, vars []string) []Binding {
	seen := map[string]struct{}{}
	out := rows[:0]
	for _, row := range rows {
		parts := make([]string, len(vars))
		for i, v := range vars {
			if term, ok := row[v]; ok {
				parts[i] = termString(term)
			}
		}
		key := strings.Join(parts, "\x00")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

func sortRows(rows []Binding, keys []OrderKey) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			a := sortKey(rows[i], k.Var)
			b := sortKey(rows[j], k.Var)
			if a == b {
				continue
			}
			if k.Desc {
				return a > b
			}
			return a < b
		}
		return false
	})
}

// sortKey orders unbound before bound, then by the term's lexical form.
func sortKey(row Binding, v string) string {
	term, ok := row[v]
	if !ok {
		return ""
	}
	return "\x01" + termString(term)
}

func slice(rows []Binding, offset, limit int) []Binding {
	if offset > 0 {
		if offset >= len(rows) {
			return rows[:0]
		}
		rows = rows[offset:]
	}
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func sameTerm(a, b rdf.Term) bool {
	return termString(a) == termString(b)
}

func termString(t rdf.Term) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%d|%s", t.Kind(), t.String())
}
