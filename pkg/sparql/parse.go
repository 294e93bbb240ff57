// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package sparql

import (
	"fmt"
	"strings"

	rdf "github.com/geoknoesis/rdf-go/rdf"
)

// PatternTerm is one position of a triple pattern: either a variable or a
// concrete RDF term.
type PatternTerm struct {
	Var  string // non-empty for variables
	Term rdf.Term
}

// IsVar reports whether the pattern term is a variable.
func (p PatternTerm) IsVar() bool { return p.Var != "" }

// TriplePattern is a subject/predicate/object pattern.
type TriplePattern struct {
	S, P, O PatternTerm
}

// OrderKey is one ORDER BY sort key.
type OrderKey struct {
	Var  string
	Desc bool
}

// Query is a parsed SPARQL query in the supported subset.
type Query struct {
	Form     Form
	Prefixes map[string]string
	Base     string

	Distinct   bool
	SelectVars []string // empty means *

	Where    []TriplePattern
	Template []TriplePattern // CONSTRUCT template
	Describe []PatternTerm   // DESCRIBE targets (IRIs or variables)

	OrderBy []OrderKey
	Limit   int // -1 when absent
	Offset  int
}

// Parse parses a SPARQL query string into the supported subset. Constructs
// outside the subset produce an error naming the offending keyword.
func Parse(query string) (*Query, error) {
	toks, err := tokenize(query)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, q: &Query{
		Prefixes: map[string]string{},
		Limit:    -1,
	}}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.q, nil
}

type parser struct {
	toks []token
	pos  int
	q    *Query
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) expectPunct(text string) error {
	t, ok := p.next()
	if !ok || t.kind != tokPunct || t.text != text {
		return fmt.Errorf("expected %q near %s", text, tokenDesc(t, ok))
	}
	return nil
}

func tokenDesc(t token, ok bool) string {
	if !ok {
		return "end of query"
	}
	return fmt.Sprintf("%q", t.text)
}

func (p *parser) parse() error {
	if err := p.parsePrologue(); err != nil {
		return err
	}

	t, ok := p.next()
	if !ok {
		return fmt.Errorf("empty query")
	}
	if t.kind != tokKeyword {
		return fmt.Errorf("expected query form, found %q", t.text)
	}
	switch strings.ToUpper(t.text) {
	case "SELECT":
		p.q.Form = FormSelect
		return p.parseSelect()
	case "ASK":
		p.q.Form = FormAsk
		return p.parseAsk()
	case "CONSTRUCT":
		p.q.Form = FormConstruct
		return p.parseConstruct()
	case "DESCRIBE":
		p.q.Form = FormDescribe
		return p.parseDescribe()
	default:
		return fmt.Errorf("unrecognized query form %q", t.text)
	}
}

func (p *parser) parsePrologue() error {
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokKeyword {
			return nil
		}
		switch strings.ToUpper(t.text) {
		case "PREFIX":
			p.pos++
			name, ok := p.next()
			if !ok || name.kind != tokPName || !strings.HasSuffix(name.text, ":") {
				return fmt.Errorf("malformed PREFIX declaration near %s", tokenDesc(name, ok))
			}
			iri, ok := p.next()
			if !ok || iri.kind != tokIRI {
				return fmt.Errorf("PREFIX %s must be followed by an IRI", name.text)
			}
			p.q.Prefixes[strings.TrimSuffix(name.text, ":")] = iri.text
		case "BASE":
			p.pos++
			iri, ok := p.next()
			if !ok || iri.kind != tokIRI {
				return fmt.Errorf("BASE must be followed by an IRI")
			}
			p.q.Base = iri.text
		default:
			return nil
		}
	}
}

func (p *parser) parseSelect() error {
	if t, ok := p.peek(); ok && t.kind == tokKeyword {
		switch strings.ToUpper(t.text) {
		case "DISTINCT":
			p.q.Distinct = true
			p.pos++
		case "REDUCED":
			p.pos++
		}
	}

	// Projection: * or a list of variables. Expressions are out of scope.
	t, ok := p.peek()
	if !ok {
		return fmt.Errorf("incomplete SELECT query")
	}
	if t.kind == tokPunct && t.text == "*" {
		p.pos++
	} else {
		for {
			t, ok = p.peek()
			if !ok || t.kind != tokVar {
				break
			}
			p.q.SelectVars = append(p.q.SelectVars, t.text)
			p.pos++
		}
		if len(p.q.SelectVars) == 0 {
			if ok && t.kind == tokPunct && t.text == "(" {
				return fmt.Errorf("unsupported SPARQL construct: expressions in SELECT")
			}
			return fmt.Errorf("SELECT requires * or at least one variable")
		}
	}

	p.skipKeyword("WHERE")
	patterns, err := p.parseGroup()
	if err != nil {
		return err
	}
	p.q.Where = patterns
	return p.parseModifiers()
}

func (p *parser) parseAsk() error {
	p.skipKeyword("WHERE")
	patterns, err := p.parseGroup()
	if err != nil {
		return err
	}
	p.q.Where = patterns
	return p.expectEnd()
}

func (p *parser) parseConstruct() error {
	template, err := p.parseGroup()
	if err != nil {
		return err
	}
	p.q.Template = template

	if !p.skipKeyword("WHERE") {
		return fmt.Errorf("CONSTRUCT requires a WHERE clause")
	}
	patterns, err := p.parseGroup()
	if err != nil {
		return err
	}
	p.q.Where = patterns
	return p.parseModifiers()
}

func (p *parser) parseDescribe() error {
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		if t.kind == tokVar {
			p.q.Describe = append(p.q.Describe, PatternTerm{Var: t.text})
			p.pos++
			continue
		}
		if t.kind == tokIRI || t.kind == tokPName {
			term, err := p.resolveTerm(t)
			if err != nil {
				return err
			}
			p.q.Describe = append(p.q.Describe, PatternTerm{Term: term})
			p.pos++
			continue
		}
		break
	}
	if len(p.q.Describe) == 0 {
		return fmt.Errorf("DESCRIBE requires at least one IRI or variable")
	}

	if p.skipKeyword("WHERE") {
		patterns, err := p.parseGroup()
		if err != nil {
			return err
		}
		p.q.Where = patterns
	} else if t, ok := p.peek(); ok && t.kind == tokPunct && t.text == "{" {
		patterns, err := p.parseGroup()
		if err != nil {
			return err
		}
		p.q.Where = patterns
	}
	return p.parseModifiers()
}

// skipKeyword consumes the keyword if present and reports whether it did.
func (p *parser) skipKeyword(kw string) bool {
	t, ok := p.peek()
	if ok && t.kind == tokKeyword && strings.EqualFold(t.text, kw) {
		p.pos++
		return true
	}
	return false
}

// unsupportedInGroup lists graph-pattern keywords outside the subset.
var unsupportedInGroup = map[string]bool{
	"OPTIONAL": true, "FILTER": true, "UNION": true, "GRAPH": true,
	"SERVICE": true, "MINUS": true, "BIND": true, "VALUES": true,
	"SELECT": true, "EXISTS": true, "NOT": true,
}

func (p *parser) parseGroup() ([]TriplePattern, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	var patterns []TriplePattern
	for {
		t, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated graph pattern")
		}
		if t.kind == tokPunct && t.text == "}" {
			p.pos++
			return patterns, nil
		}
		if t.kind == tokPunct && t.text == "{" {
			return nil, fmt.Errorf("unsupported SPARQL construct: nested group")
		}
		if t.kind == tokKeyword && unsupportedInGroup[strings.ToUpper(t.text)] {
			return nil, fmt.Errorf("unsupported SPARQL construct: %s", strings.ToUpper(t.text))
		}

		block, err := p.parseTriplesSameSubject()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, block...)

		// Optional statement separator.
		if t, ok := p.peek(); ok && t.kind == tokPunct && t.text == "." {
			p.pos++
		}
	}
}

// parseTriplesSameSubject parses "subject pred obj (, obj)* (; pred obj ...)*".
func (p *parser) parseTriplesSameSubject() ([]TriplePattern, error) {
	subject, err := p.parsePatternTerm("subject")
	if err != nil {
		return nil, err
	}

	var out []TriplePattern
	for {
		predicate, err := p.parsePatternTerm("predicate")
		if err != nil {
			return nil, err
		}
		if !predicate.IsVar() {
			if _, ok := predicate.Term.(rdf.IRI); !ok {
				return nil, fmt.Errorf("predicate must be an IRI or variable")
			}
		}

		for {
			object, err := p.parsePatternTerm("object")
			if err != nil {
				return nil, err
			}
			out = append(out, TriplePattern{S: subject, P: predicate, O: object})

			t, ok := p.peek()
			if ok && t.kind == tokPunct && t.text == "," {
				p.pos++
				continue
			}
			break
		}

		t, ok := p.peek()
		if ok && t.kind == tokPunct && t.text == ";" {
			p.pos++
			// A trailing ';' before '.' or '}' is legal Turtle-style syntax.
			if nt, ok2 := p.peek(); ok2 && nt.kind == tokPunct && (nt.text == "." || nt.text == "}") {
				break
			}
			continue
		}
		break
	}
	return out, nil
}

func (p *parser) parsePatternTerm(position string) (PatternTerm, error) {
	t, ok := p.next()
	if !ok {
		return PatternTerm{}, fmt.Errorf("expected %s, found end of query", position)
	}
	switch t.kind {
	case tokVar:
		return PatternTerm{Var: t.text}, nil
	case tokIRI, tokPName:
		term, err := p.resolveTerm(t)
		if err != nil {
			return PatternTerm{}, err
		}
		return PatternTerm{Term: term}, nil
	case tokLiteral:
		lit, err := p.resolveLiteral(t)
		if err != nil {
			return PatternTerm{}, err
		}
		return PatternTerm{Term: lit}, nil
	case tokKeyword:
		switch {
		case t.text == "a":
			return PatternTerm{Term: rdf.IRI{Value: rdfTypeIRI}}, nil
		case strings.EqualFold(t.text, "true"):
			return PatternTerm{Term: rdf.Literal{Lexical: "true", Datatype: rdf.IRI{Value: xsdBoolean}}}, nil
		case strings.EqualFold(t.text, "false"):
			return PatternTerm{Term: rdf.Literal{Lexical: "false", Datatype: rdf.IRI{Value: xsdBoolean}}}, nil
		case unsupportedInGroup[strings.ToUpper(t.text)]:
			return PatternTerm{}, fmt.Errorf("unsupported SPARQL construct: %s", strings.ToUpper(t.text))
		}
		return PatternTerm{}, fmt.Errorf("unexpected %q at %s position", t.text, position)
	case tokPunct:
		if t.text == "[" || t.text == "(" {
			return PatternTerm{}, fmt.Errorf("unsupported SPARQL construct: blank node or collection syntax")
		}
		return PatternTerm{}, fmt.Errorf("unexpected %q at %s position", t.text, position)
	default:
		return PatternTerm{}, fmt.Errorf("unexpected token %q", t.text)
	}
}

// resolveTerm turns an IRI or prefixed-name token into an IRI term.
func (p *parser) resolveTerm(t token) (rdf.Term, error) {
	if t.kind == tokIRI {
		return rdf.IRI{Value: t.text}, nil
	}
	iri, err := p.expandPName(t.text)
	if err != nil {
		return nil, err
	}
	return rdf.IRI{Value: iri}, nil
}

// resolveLiteral expands a literal token's datatype, if it was written as a
// prefixed name.
func (p *parser) resolveLiteral(t token) (rdf.Literal, error) {
	lit := t.lit
	if t.text != "" { // raw datatype: either an expanded IRI or a pname
		if strings.HasPrefix(t.text, "<") {
			lit.Datatype = rdf.IRI{Value: strings.Trim(t.text, "<>")}
		} else {
			iri, err := p.expandPName(t.text)
			if err != nil {
				return rdf.Literal{}, err
			}
			lit.Datatype = rdf.IRI{Value: iri}
		}
	}
	return lit, nil
}

func (p *parser) expandPName(pname string) (string, error) {
	colon := strings.Index(pname, ":")
	if colon < 0 {
		return "", fmt.Errorf("malformed prefixed name %q", pname)
	}
	prefix, local := pname[:colon], pname[colon+1:]
	ns, ok := p.q.Prefixes[prefix]
	if !ok {
		return "", fmt.Errorf("undeclared prefix %q in %q", prefix, pname)
	}
	return ns + local, nil
}

func (p *parser) parseModifiers() error {
	for {
		t, ok := p.peek()
		if !ok {
			return nil
		}
		if t.kind != tokKeyword {
			return fmt.Errorf("unexpected %q after graph pattern", t.text)
		}
		switch strings.ToUpper(t.text) {
		case "ORDER":
			p.pos++
			if !p.skipKeyword("BY") {
				return fmt.Errorf("ORDER must be followed by BY")
			}
			if err := p.parseOrderKeys(); err != nil {
				return err
			}
		case "LIMIT":
			p.pos++
			n, err := p.parseNonNegativeInt("LIMIT")
			if err != nil {
				return err
			}
			p.q.Limit = n
		case "OFFSET":
			p.pos++
			n, err := p.parseNonNegativeInt("OFFSET")
			if err != nil {
				return err
			}
			p.q.Offset = n
		case "GROUP", "HAVING":
			return fmt.Errorf("unsupported SPARQL construct: %s", strings.ToUpper(t.text))
		default:
			return fmt.Errorf("unexpected %q after graph pattern", t.text)
		}
	}
}

func (p *parser) parseOrderKeys() error {
	found := false
	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		desc := false
		if t.kind == tokKeyword && (strings.EqualFold(t.text, "ASC") || strings.EqualFold(t.text, "DESC")) {
			desc = strings.EqualFold(t.text, "DESC")
			p.pos++
			if err := p.expectPunct("("); err != nil {
				return err
			}
			v, ok := p.next()
			if !ok || v.kind != tokVar {
				return fmt.Errorf("ORDER BY %s(...) requires a variable", strings.ToUpper(t.text))
			}
			if err := p.expectPunct(")"); err != nil {
				return err
			}
			p.q.OrderBy = append(p.q.OrderBy, OrderKey{Var: v.text, Desc: desc})
			found = true
			continue
		}
		if t.kind == tokVar {
			p.pos++
			p.q.OrderBy = append(p.q.OrderBy, OrderKey{Var: t.text})
			found = true
			continue
		}
		break
	}
	if !found {
		return fmt.Errorf("ORDER BY requires at least one variable")
	}
	return nil
}

func (p *parser) parseNonNegativeInt(clause string) (int, error) {
	t, ok := p.next()
	if !ok || t.kind != tokLiteral || t.lit.Datatype.Value != xsdInteger {
		return 0, fmt.Errorf("%s requires a non-negative integer", clause)
	}
	n := 0
	for _, c := range t.lit.Lexical {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%s requires a non-negative integer", clause)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func (p *parser) expectEnd() error {
	if t, ok := p.peek(); ok {
		return fmt.Errorf("unexpected %q after query", t.text)
	}
	return nil
}
