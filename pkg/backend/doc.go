// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

// Package backend provides the storage backends for the RDF adapter.
//
// Two implementations exist behind the Backend interface: Local, an embedded
// in-memory triple store loaded from a file, and Remote, an HTTP client for an
// RDF4J-protocol server. Both expose the same query and schema-discovery
// operations; callers pick one at startup from configuration and never branch
// on the concrete type afterwards.
package backend
