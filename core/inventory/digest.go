package inventory

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
)

// VersionDigest computes the blake3 digest of a version's text content,
// hashing each part's reference and text in document order. The digest
// changes whenever the corpus content for that version changes, which is
// what downstream indexers use to decide whether to re-index.
func (c *Corpus) VersionDigest(versionURN string) (string, error) {
	parts := c.TextParts(versionURN)
	if len(parts) == 0 {
		if _, ok := c.Lookup(versionURN); !ok {
			return "", apperrors.NewNotFound("version", versionURN)
		}
	}

	h := blake3.New()
	for _, p := range parts {
		// Writes to blake3 never fail.
		h.Write([]byte(p.Ref))
		h.Write([]byte{0})
		h.Write([]byte(p.TextContent))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// AllDigests computes content digests for every version in the corpus.
func (c *Corpus) AllDigests() (map[string]string, error) {
	out := make(map[string]string)
	for _, versionURN := range c.VersionURNs() {
		digest, err := c.VersionDigest(versionURN)
		if err != nil {
			return nil, err
		}
		out[versionURN] = digest
	}
	return out, nil
}
