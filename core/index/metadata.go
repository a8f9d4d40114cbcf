// Package index builds search-index documents from resolved entities.
// The indexing management command consumes these documents to feed the
// search index.
package index

import (
	"github.com/google/uuid"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
	"github.com/scaife-viewer/ctsresolver/core/resolver"
	"github.com/scaife-viewer/ctsresolver/core/urn"
)

// CloudIndexConfiguration is the infrastructure-specific configuration tag
// attached to documents destined for the cloud indexer.
const CloudIndexConfiguration = "cts-cloud-v1"

// Builder produces index documents for resolved entities.
type Builder struct {
	// CloudIndexer selects deployment-specific metadata fields. It affects
	// only the document shape, never resolution.
	CloudIndexer bool
}

// Document builds the flat index document for an entity.
func (b *Builder) Document(e *resolver.Entity) (map[string]interface{}, error) {
	if e == nil {
		return nil, apperrors.NewParse("entity", "", "nil entity")
	}
	u, err := urn.Parse(e.URN)
	if err != nil {
		return nil, apperrors.Wrapf(err, "entity urn %q", e.URN)
	}

	doc := map[string]interface{}{
		"id":         uuid.NewString(),
		"urn":        e.URN,
		"kind":       e.Kind,
		"depth":      e.Depth,
		"is_passage": e.IsPassage,
	}
	if e.TextContent != "" {
		doc["text"] = e.TextContent
	}
	if lcp := lowestCitablePart(u); lcp != "" {
		doc["lowest_citable_part"] = lcp
	}
	for k, v := range e.Metadata {
		doc["meta_"+k] = v
	}

	if b.CloudIndexer {
		doc["index_configuration"] = CloudIndexConfiguration
		doc["deployment"] = "cloud"
	}
	return doc, nil
}

// lowestCitablePart returns the last citation part of a passage URN
// (e.g., "10" for "...:1.10"), or "" for catalog-level URNs.
func lowestCitablePart(u *urn.URN) string {
	if u.Passage == nil {
		return ""
	}
	ref := &u.Passage.Start
	if u.Passage.End != nil {
		ref = u.Passage.End
	}
	return ref.Parts[len(ref.Parts)-1]
}
