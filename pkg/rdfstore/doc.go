// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package rdfstore provides an in-memory indexed triple store built on the
// rdf-go term model. It backs the local backend: data is loaded once from a
// file in any supported serialization format, held in process memory, and
// queried through pattern matching and schema scans. Reads may run
// concurrently; loads take an exclusive lock.
package rdfstore
