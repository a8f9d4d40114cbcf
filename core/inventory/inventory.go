// Package inventory maintains the text inventory backing URN resolution:
// a hierarchy of textgroup/work/version nodes with ordered passage text
// parts under each version.
package inventory

import (
	"sort"
	"strings"
	"sync"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
	"github.com/scaife-viewer/ctsresolver/core/urn"
)

// Node is one entry in the text inventory tree.
type Node struct {
	// URN is the canonical URN string for this node.
	URN string `json:"urn"`

	// Kind is the hierarchy kind ("textgroup", "work", "version",
	// "exemplar") or "textpart" for citation nodes.
	Kind string `json:"kind"`

	// Ref is the passage reference relative to the version (e.g., "1.1").
	// Empty for catalog nodes.
	Ref string `json:"ref,omitempty"`

	// Rank is the citation depth of a text part (1 for "1", 2 for "1.1").
	Rank int `json:"rank,omitempty"`

	// Idx is the 0-based document order of a text part within its version.
	Idx int `json:"idx,omitempty"`

	// TextContent is the passage text for leaf text parts.
	TextContent string `json:"text_content,omitempty"`

	// Metadata holds catalog metadata (label, language, group name, ...).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// KindTextPart is the node kind for citation text parts.
const KindTextPart = "textpart"

// Corpus is an in-memory text inventory. Safe for concurrent readers and
// writers.
type Corpus struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	// parts holds text parts per version URN in document order.
	parts map[string][]*Node
}

// New creates an empty corpus.
func New() *Corpus {
	return &Corpus{
		nodes: make(map[string]*Node),
		parts: make(map[string][]*Node),
	}
}

// AddCatalogNode registers a textgroup/work/version/exemplar node, creating
// any missing ancestors. The node's URN must be a valid work-level CTS URN.
func (c *Corpus) AddCatalogNode(rawURN string, metadata map[string]string) (*Node, error) {
	u, err := urn.Parse(rawURN)
	if err != nil {
		return nil, err
	}
	if u.IsPassage() || u.TrailingColon {
		return nil, apperrors.NewParse("catalog", "", "catalog node URN must not carry a passage reference: "+rawURN)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureAncestors(u)

	key := u.String()
	node, ok := c.nodes[key]
	if !ok {
		node = &Node{URN: key, Kind: string(u.Kind())}
		c.nodes[key] = node
	}
	if metadata != nil {
		if node.Metadata == nil {
			node.Metadata = make(map[string]string, len(metadata))
		}
		for k, v := range metadata {
			node.Metadata[k] = v
		}
	}
	return node, nil
}

// ensureAncestors creates missing textgroup and work nodes above u.
// Caller must hold the write lock.
func (c *Corpus) ensureAncestors(u *urn.URN) {
	for _, kind := range []urn.Kind{urn.KindTextGroup, urn.KindWork, urn.KindVersion} {
		if urn.Depths[kind] >= u.Depth() {
			return
		}
		ancestor := u.UpTo(kind)
		key := ancestor.String()
		if _, ok := c.nodes[key]; !ok {
			c.nodes[key] = &Node{URN: key, Kind: string(kind)}
		}
	}
}

// AddTextPart appends a passage text part to a version. Parts must be added
// in document order; the version node is created if missing.
func (c *Corpus) AddTextPart(versionURN, ref, text string) (*Node, error) {
	if _, err := c.AddCatalogNode(versionURN, nil); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := versionURN + ":" + ref
	node := &Node{
		URN:         key,
		Kind:        KindTextPart,
		Ref:         ref,
		Rank:        strings.Count(ref, ".") + 1,
		Idx:         len(c.parts[versionURN]),
		TextContent: text,
	}
	c.nodes[key] = node
	c.parts[versionURN] = append(c.parts[versionURN], node)
	return node, nil
}

// Lookup returns the node with the given canonical URN string.
func (c *Corpus) Lookup(urnStr string) (*Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.nodes[urnStr]
	return n, ok
}

// TextParts returns the text parts of a version in document order.
func (c *Corpus) TextParts(versionURN string) []*Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Node, len(c.parts[versionURN]))
	copy(out, c.parts[versionURN])
	return out
}

// Range returns the text parts of a version from startRef through endRef
// inclusive, in document order.
func (c *Corpus) Range(versionURN, startRef, endRef string) ([]*Node, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	start, ok := c.nodes[versionURN+":"+startRef]
	if !ok {
		return nil, apperrors.NewNotFound("passage", versionURN+":"+startRef)
	}
	end, ok := c.nodes[versionURN+":"+endRef]
	if !ok {
		return nil, apperrors.NewNotFound("passage", versionURN+":"+endRef)
	}
	if end.Idx < start.Idx {
		return nil, apperrors.NewParse("range", "", "end reference precedes start reference")
	}

	parts := c.parts[versionURN]
	out := make([]*Node, 0, end.Idx-start.Idx+1)
	for _, p := range parts {
		if p.Idx >= start.Idx && p.Idx <= end.Idx {
			out = append(out, p)
		}
	}
	return out, nil
}

// Versions returns the version nodes under a work URN, ordered by URN.
func (c *Corpus) Versions(workURN string) []*Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*Node
	prefix := workURN + "."
	for key, n := range c.nodes {
		if n.Kind == string(urn.KindVersion) && strings.HasPrefix(key, prefix) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URN < out[j].URN })
	return out
}

// Len returns the total number of nodes in the corpus.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// VersionURNs returns all version URNs present in the corpus, sorted.
func (c *Corpus) VersionURNs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	for key, n := range c.nodes {
		if n.Kind == string(urn.KindVersion) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
