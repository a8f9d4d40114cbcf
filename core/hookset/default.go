package hookset

import (
	"context"
	"strings"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
	"github.com/scaife-viewer/ctsresolver/core/index"
	"github.com/scaife-viewer/ctsresolver/core/inventory"
	"github.com/scaife-viewer/ctsresolver/core/resolver"
	"github.com/scaife-viewer/ctsresolver/core/urn"
)

// DefaultPath is the dotted path of the baseline hookset implementation.
const DefaultPath = "ctsresolver.hooks.DefaultHookset"

func init() {
	Register(DefaultPath, func(deps Deps) (resolver.Hookset, error) {
		if deps.Corpus == nil {
			return nil, apperrors.NewParse("deps", "", "default hookset requires a corpus")
		}
		return &DefaultHookset{
			corpus:  deps.Corpus,
			builder: index.Builder{CloudIndexer: deps.CloudIndexer},
		}, nil
	})
}

// DefaultHookset resolves URNs against an inventory corpus.
type DefaultHookset struct {
	corpus  *inventory.Corpus
	builder index.Builder
}

// ResolvePassage maps a normalized URN to an entity backed by the corpus.
func (h *DefaultHookset) ResolvePassage(ctx context.Context, u *urn.URN) (*resolver.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Corpus keys never carry a trailing colon, whatever the caller's
	// normalization policy.
	canonical := urn.Normalize(u, urn.DefaultPolicy())
	key := canonical.String()

	if node, ok := h.corpus.Lookup(key); ok {
		return entityFromNode(u, node), nil
	}

	if canonical.IsPassage() {
		parts, err := h.collectParts(canonical)
		if err != nil {
			return nil, err
		}
		return passageEntity(u, parts), nil
	}

	return nil, apperrors.NewNotFound("entity", key)
}

// collectParts gathers the corpus text parts covered by a passage URN:
// the exact part, all parts under a higher-rank reference, or the parts
// of a range.
func (h *DefaultHookset) collectParts(u *urn.URN) ([]*inventory.Node, error) {
	versionURN := u.VersionURN().String()
	startRef := strings.Join(u.Passage.Start.Parts, ".")

	if u.Passage.End != nil {
		endRef := strings.Join(u.Passage.End.Parts, ".")
		return h.corpus.Range(versionURN, startRef, endRef)
	}

	// A reference above the leaf rank covers all parts beneath it.
	var parts []*inventory.Node
	prefix := startRef + "."
	for _, p := range h.corpus.TextParts(versionURN) {
		if p.Ref == startRef || strings.HasPrefix(p.Ref, prefix) {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil, apperrors.NewNotFound("passage", u.String())
	}
	return parts, nil
}

// entityFromNode builds an entity for a node found by direct lookup.
func entityFromNode(u *urn.URN, node *inventory.Node) *resolver.Entity {
	return &resolver.Entity{
		URN:         u.String(),
		Kind:        node.Kind,
		Depth:       u.Depth(),
		IsPassage:   node.Kind == inventory.KindTextPart,
		TextContent: node.TextContent,
		Metadata:    node.Metadata,
	}
}

// passageEntity builds an entity spanning multiple text parts.
func passageEntity(u *urn.URN, parts []*inventory.Node) *resolver.Entity {
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		texts = append(texts, p.TextContent)
	}
	return &resolver.Entity{
		URN:         u.String(),
		Kind:        inventory.KindTextPart,
		Depth:       u.Depth(),
		IsPassage:   true,
		TextContent: strings.Join(texts, "\n"),
	}
}

// BuildIndexMetadata produces the search-index document for an entity.
func (h *DefaultHookset) BuildIndexMetadata(e *resolver.Entity) (map[string]interface{}, error) {
	return h.builder.Document(e)
}
