// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package rdfstore

// Well-known vocabulary IRIs used by schema scans.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"

	RDFType     = RDFNamespace + "type"
	RDFProperty = RDFNamespace + "Property"

	RDFSClass   = RDFSNamespace + "Class"
	RDFSLabel   = RDFSNamespace + "label"
	RDFSComment = RDFSNamespace + "comment"
	RDFSDomain  = RDFSNamespace + "domain"
	RDFSRange   = RDFSNamespace + "range"

	OWLClass            = OWLNamespace + "Class"
	OWLObjectProperty   = OWLNamespace + "ObjectProperty"
	OWLDatatypeProperty = OWLNamespace + "DatatypeProperty"

	XSDString = XSDNamespace + "string"
)

// defaultNamespaces are bound on every store before any data is loaded.
func defaultNamespaces() map[string]string {
	return map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"owl":  OWLNamespace,
		"xsd":  XSDNamespace,
	}
}
