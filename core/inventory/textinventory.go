package inventory

import (
	"io"
	"os"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
	"github.com/scaife-viewer/ctsresolver/internal/logging"
)

// Compiled XPath expressions for TextInventory documents. local-name()
// keeps them independent of the CTS/TI namespace prefix in use.
var (
	textgroupExpr = xpath.MustCompile(`//*[local-name()='textgroup']`)
	workExpr      = xpath.MustCompile(`./*[local-name()='work']`)
	versionExpr   = xpath.MustCompile(`./*[local-name()='edition' or local-name()='translation' or local-name()='exemplar']`)
)

// LoadTextInventoryFile loads a CTS TextInventory XML file into the corpus.
// Files ending in ".xz" are decompressed transparently.
func (c *Corpus) LoadTextInventoryFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewIO("open", path, err)
	}
	defer f.Close()

	r, err := maybeDecompress(path, f)
	if err != nil {
		return err
	}
	return c.LoadTextInventory(r, path)
}

// LoadTextInventory parses TextInventory XML from a reader, registering
// textgroup, work, and version catalog nodes. Records with unusable URNs
// are logged and skipped.
func (c *Corpus) LoadTextInventory(r io.Reader, path string) error {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return apperrors.NewParse("TextInventory", path, err.Error())
	}

	loaded, skipped := 0, 0
	for _, tg := range xmlquery.QuerySelectorAll(doc, textgroupExpr) {
		tgURN := tg.SelectAttr("urn")
		meta := map[string]string{}
		if name := childText(tg, "groupname"); name != "" {
			meta["groupName"] = name
		}
		if _, err := c.AddCatalogNode(tgURN, meta); err != nil {
			logging.InventoryRecordSkipped(path, "textgroup", tgURN, err)
			skipped++
			continue
		}
		loaded++

		for _, work := range xmlquery.QuerySelectorAll(tg, workExpr) {
			workURN := work.SelectAttr("urn")
			meta := map[string]string{}
			if title := childText(work, "title"); title != "" {
				meta["workTitle"] = title
			}
			if lang := work.SelectAttr("xml:lang"); lang != "" {
				meta["lang"] = lang
			}
			if _, err := c.AddCatalogNode(workURN, meta); err != nil {
				logging.InventoryRecordSkipped(path, "work", workURN, err)
				skipped++
				continue
			}
			loaded++

			for _, version := range xmlquery.QuerySelectorAll(work, versionExpr) {
				versionURN := version.SelectAttr("urn")
				meta := map[string]string{"versionKind": version.Data}
				if label := childText(version, "label"); label != "" {
					meta["versionLabel"] = label
				}
				if _, err := c.AddCatalogNode(versionURN, meta); err != nil {
					logging.InventoryRecordSkipped(path, "version", versionURN, err)
					skipped++
					continue
				}
				loaded++
			}
		}
	}

	logging.CorpusLoaded(path, loaded, skipped)
	return nil
}

// childText returns the trimmed text content of the first child element
// with the given local name.
func childText(n *xmlquery.Node, localName string) string {
	child := xmlquery.FindOne(n, `./*[local-name()='`+localName+`']`)
	if child == nil {
		return ""
	}
	return child.InnerText()
}
