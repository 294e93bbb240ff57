// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package sparql provides query-form detection, result-limit injection, and a
// small evaluator used by the local backend.
//
// The evaluator deliberately covers only a conservative core of SPARQL:
// PREFIX/BASE prologues, SELECT (with DISTINCT, ORDER BY, LIMIT, OFFSET),
// ASK, CONSTRUCT, and DESCRIBE over basic graph patterns with ';' and ','
// abbreviations. Anything beyond that (OPTIONAL, UNION, FILTER, expressions,
// named graphs, property paths) is rejected with an error rather than
// silently misevaluated. Full SPARQL against large datasets belongs to the
// remote backend, which delegates to a real triple-store server.
package sparql
