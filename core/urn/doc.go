// Package urn implements parsing, normalization, and comparison of CTS
// (Canonical Text Services) URNs.
//
// A CTS URN addresses a text or a passage within a text hierarchy:
//
//	urn:cts:<namespace>:<textgroup>[.<work>[.<version>[.<exemplar>]]][:<passage>]
//
// Examples:
//
//	urn:cts:greekLit:tlg0012                          (textgroup)
//	urn:cts:greekLit:tlg0012.tlg001                   (work)
//	urn:cts:greekLit:tlg0012.tlg001.perseus-grc2      (version)
//	urn:cts:greekLit:tlg0012.tlg001.perseus-grc2:1.1  (passage)
//	urn:cts:greekLit:tlg0012.tlg001:1.1-1.10          (passage range)
//	urn:cts:greekLit:tlg0012.tlg001:1.1@μῆνιν[1]      (subreference)
//
// URN values are never mutated after parsing; Normalize returns a new value.
package urn
