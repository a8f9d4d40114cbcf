package inventory

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
	"github.com/scaife-viewer/ctsresolver/core/urn"
	"github.com/scaife-viewer/ctsresolver/internal/logging"
)

// ctscatalog column order per the CEX specification.
var catalogColumns = []string{
	"urn", "citationScheme", "groupName", "workTitle",
	"versionLabel", "exemplarLabel", "online", "lang",
}

// LoadCEXFile loads the #!ctscatalog and #!ctsdata blocks of a CEX file
// into the corpus. Files ending in ".xz" are decompressed transparently.
func (c *Corpus) LoadCEXFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewIO("open", path, err)
	}
	defer f.Close()

	r, err := maybeDecompress(path, f)
	if err != nil {
		return err
	}
	return c.LoadCEX(r, path)
}

// maybeDecompress wraps the reader in an xz decompressor for ".xz" paths.
func maybeDecompress(path string, r io.Reader) (io.Reader, error) {
	if filepath.Ext(path) != ".xz" {
		return r, nil
	}
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, apperrors.NewIO("decompress", path, err)
	}
	return xr, nil
}

// LoadCEX parses CEX content from a reader. Lines that cannot be resolved
// are logged and skipped rather than failing the load, matching how corpus
// ingestion treats bad data in CEX files.
func (c *Corpus) LoadCEX(r io.Reader, path string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	block := ""
	header := false
	loaded, skipped := 0, 0

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "#!"):
			block = strings.TrimPrefix(line, "#!")
			header = block == "ctscatalog"
			continue
		case line == "" || strings.HasPrefix(line, "//"):
			continue
		}

		switch block {
		case "ctscatalog":
			if header {
				// First non-comment line of the block is the column header.
				header = false
				continue
			}
			if err := c.loadCatalogLine(line); err != nil {
				logging.CEXLineSkipped(path, line, err)
				skipped++
				continue
			}
			loaded++
		case "ctsdata":
			if err := c.loadDataLine(line); err != nil {
				logging.CEXLineSkipped(path, line, err)
				skipped++
				continue
			}
			loaded++
		}
	}
	if err := scanner.Err(); err != nil {
		return apperrors.NewIO("read", path, err)
	}

	logging.CorpusLoaded(path, loaded, skipped)
	return nil
}

// loadCatalogLine parses one pipe-delimited #!ctscatalog record.
func (c *Corpus) loadCatalogLine(line string) error {
	fields := strings.Split(line, "|")
	if len(fields) < 1 || fields[0] == "" {
		return apperrors.NewParse("CEX", "", "catalog record missing urn column")
	}

	metadata := make(map[string]string)
	for i, col := range catalogColumns[1:] {
		if i+1 < len(fields) && fields[i+1] != "" {
			metadata[col] = fields[i+1]
		}
	}

	_, err := c.AddCatalogNode(fields[0], metadata)
	return err
}

// loadDataLine parses one "<urn>#<text>" #!ctsdata record.
func (c *Corpus) loadDataLine(line string) error {
	urnStr, text, ok := strings.Cut(line, "#")
	if !ok {
		return apperrors.NewParse("CEX", "", "data record missing # separator")
	}

	versionURN, ref, err := urn.ExtractVersionAndRef(urnStr)
	if err != nil {
		return err
	}
	if ref == "" {
		return apperrors.NewParse("CEX", "", "data record urn has no passage reference: "+urnStr)
	}

	_, err = c.AddTextPart(versionURN, ref, strings.TrimSpace(text))
	return err
}
