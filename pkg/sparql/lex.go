// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package sparql

import (
	"fmt"
	"strings"

	rdf "github.com/geoknoesis/rdf-go/rdf"
)

const (
	rdfTypeIRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
)

type tokKind int

const (
	tokIRI     tokKind = iota // <...>, text holds the IRI value
	tokPName                  // prefixed name, text holds "prefix:local"
	tokVar                    // ?x or $x, text holds the bare name
	tokLiteral                // string/numeric literal; text holds a raw datatype, if any
	tokKeyword                // bare word: SELECT, WHERE, a, true, ...
	tokPunct                  // { } . ; , ( ) [ ] *
)

type token struct {
	kind tokKind
	text string
	lit  rdf.Literal
}

func tokenize(input string) ([]token, error) {
	var toks []token
	i, n := 0, len(input)

	for i < n {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '#':
			for i < n && input[i] != '\n' {
				i++
			}
		case c == '<':
			// '<' opens an IRI unless the span to the next '>' cannot
			// be one, in which case it is a comparison operator.
			end := strings.IndexByte(input[i:], '>')
			if end < 0 || strings.ContainsAny(input[i+1:i+end], " \t\n\r\"'<") {
				toks = append(toks, token{kind: tokPunct, text: "<"})
				i++
				continue
			}
			toks = append(toks, token{kind: tokIRI, text: input[i+1 : i+end]})
			i += end + 1
		case c == '?' || c == '$':
			j := i + 1
			for j < n && isNameChar(input[j]) {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("empty variable name at offset %d", i)
			}
			toks = append(toks, token{kind: tokVar, text: input[i+1 : j]})
			i = j
		case c == '"' || c == '\'':
			tok, next, err := lexString(input, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		case c >= '0' && c <= '9', (c == '+' || c == '-') && i+1 < n && input[i+1] >= '0' && input[i+1] <= '9':
			tok, next := lexNumber(input, i)
			toks = append(toks, tok)
			i = next
		case strings.IndexByte("{}.;,()[]*>=!&|/^+-", c) >= 0:
			toks = append(toks, token{kind: tokPunct, text: string(c)})
			i++
		case c == ':' || isNameStart(c):
			tok, next, err := lexWord(input, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
		}
	}
	return toks, nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

// lexWord reads a bare word or a prefixed name. A word followed by ':' is a
// prefixed name; the prefix may be empty ("ex:", ":name", ":").
func lexWord(input string, i int) (token, int, error) {
	n := len(input)
	j := i
	for j < n && isNameChar(input[j]) {
		j++
	}
	if j < n && input[j] == ':' {
		k := j + 1
		for k < n && (isNameChar(input[k]) || input[k] == '-') {
			k++
		}
		return token{kind: tokPName, text: input[i:k]}, k, nil
	}
	if j == i {
		return token{}, i, fmt.Errorf("unexpected character %q at offset %d", input[i], i)
	}
	return token{kind: tokKeyword, text: input[i:j]}, j, nil
}

func lexString(input string, i int) (token, int, error) {
	quote := input[i]
	n := len(input)
	var b strings.Builder
	j := i + 1
	for {
		if j >= n {
			return token{}, i, fmt.Errorf("unterminated string at offset %d", i)
		}
		c := input[j]
		if c == quote {
			j++
			break
		}
		if c == '\\' {
			if j+1 >= n {
				return token{}, i, fmt.Errorf("unterminated escape at offset %d", j)
			}
			switch input[j+1] {
			case 't':
				b.WriteByte('\t')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case '"', '\'', '\\':
				b.WriteByte(input[j+1])
			default:
				return token{}, i, fmt.Errorf("unsupported escape \\%c at offset %d", input[j+1], j)
			}
			j += 2
			continue
		}
		b.WriteByte(c)
		j++
	}

	tok := token{kind: tokLiteral, lit: rdf.Literal{Lexical: b.String()}}

	// Optional language tag or datatype annotation.
	if j < n && input[j] == '@' {
		k := j + 1
		for k < n && (isNameStart(input[k]) || (input[k] >= '0' && input[k] <= '9') || input[k] == '-') {
			k++
		}
		if k == j+1 {
			return token{}, i, fmt.Errorf("empty language tag at offset %d", j)
		}
		tok.lit.Lang = input[j+1 : k]
		return tok, k, nil
	}
	if j+1 < n && input[j] == '^' && input[j+1] == '^' {
		k := j + 2
		if k < n && input[k] == '<' {
			end := strings.IndexByte(input[k:], '>')
			if end < 0 {
				return token{}, i, fmt.Errorf("unterminated datatype IRI at offset %d", k)
			}
			tok.text = input[k : k+end+1] // keep angle brackets, resolved later
			return tok, k + end + 1, nil
		}
		// Prefixed-name datatype, resolved against the prologue later.
		m := k
		for m < n && (isNameChar(input[m]) || input[m] == ':' || input[m] == '-') {
			m++
		}
		if m == k || !strings.Contains(input[k:m], ":") {
			return token{}, i, fmt.Errorf("malformed datatype at offset %d", k)
		}
		tok.text = input[k:m]
		return tok, m, nil
	}
	return tok, j, nil
}

func lexNumber(input string, i int) (token, int) {
	n := len(input)
	j := i
	if input[j] == '+' || input[j] == '-' {
		j++
	}
	for j < n && input[j] >= '0' && input[j] <= '9' {
		j++
	}
	datatype := xsdInteger
	if j < n && input[j] == '.' && j+1 < n && input[j+1] >= '0' && input[j+1] <= '9' {
		j++
		for j < n && input[j] >= '0' && input[j] <= '9' {
			j++
		}
		datatype = xsdDecimal
	}
	lex := strings.TrimPrefix(input[i:j], "+")
	return token{kind: tokLiteral, lit: rdf.Literal{Lexical: lex, Datatype: rdf.IRI{Value: datatype}}}, j
}
