// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package sparql

import (
	"fmt"
	"regexp"
	"strings"
)

// Form is the SPARQL query form.
type Form string

const (
	FormSelect    Form = "select"
	FormConstruct Form = "construct"
	FormDescribe  Form = "describe"
	FormAsk       Form = "ask"
)

// DetectForm returns the query form of a SPARQL query, skipping the
// PREFIX/BASE prologue and comments.
func DetectForm(query string) (Form, error) {
	toks, err := tokenize(query)
	if err != nil {
		return "", err
	}

	i := 0
	for i < len(toks) {
		kw := strings.ToUpper(toks[i].text)
		if toks[i].kind == tokKeyword && (kw == "PREFIX" || kw == "BASE") {
			// PREFIX name: <iri> is three tokens, BASE <iri> is two.
			if kw == "PREFIX" {
				i += 3
			} else {
				i += 2
			}
			continue
		}
		break
	}
	if i >= len(toks) {
		return "", fmt.Errorf("empty query")
	}
	switch strings.ToUpper(toks[i].text) {
	case "SELECT":
		return FormSelect, nil
	case "CONSTRUCT":
		return FormConstruct, nil
	case "DESCRIBE":
		return FormDescribe, nil
	case "ASK":
		return FormAsk, nil
	default:
		return "", fmt.Errorf("unrecognized query form near %q", toks[i].text)
	}
}

var limitPattern = regexp.MustCompile(`(?i)\bLIMIT\s+\d+`)

// HasLimit reports whether the query text contains a LIMIT clause.
func HasLimit(query string) bool {
	return limitPattern.MatchString(query)
}

// EnsureLimit appends a LIMIT clause when the query has none. Queries that
// already carry a LIMIT are returned unchanged.
func EnsureLimit(query string, limit int) string {
	if limit <= 0 || HasLimit(query) {
		return query
	}
	return strings.TrimRight(query, " \t\r\n") + fmt.Sprintf("\nLIMIT %d", limit)
}

// ClampLimit bounds a requested limit to [1, max], substituting def when the
// request is zero or negative. Requests above max clamp to max.
func ClampLimit(requested, def, max int) int {
	limit := requested
	if limit <= 0 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
