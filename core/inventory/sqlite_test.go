package inventory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
)

func TestSaveAndLoadCorpus(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("OpenDB error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	src := buildCorpus(t)
	if err := src.Save(ctx, db); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(ctx, db)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if loaded.Len() != src.Len() {
		t.Errorf("loaded Len = %d, want %d", loaded.Len(), src.Len())
	}

	n, ok := loaded.Lookup(versionURN)
	if !ok {
		t.Fatal("version node missing after load")
	}
	if n.Metadata["lang"] != "grc" {
		t.Errorf("metadata lang = %q, want grc", n.Metadata["lang"])
	}

	parts := loaded.TextParts(versionURN)
	if len(parts) != 3 {
		t.Fatalf("TextParts = %d, want 3", len(parts))
	}
	if parts[1].Ref != "1.2" || parts[1].TextContent != "line one two" {
		t.Errorf("parts[1] = %+v", parts[1])
	}

	// Digests survive the round trip.
	d1, err := src.VersionDigest(versionURN)
	if err != nil {
		t.Fatalf("VersionDigest error: %v", err)
	}
	d2, err := loaded.VersionDigest(versionURN)
	if err != nil {
		t.Fatalf("VersionDigest error: %v", err)
	}
	if d1 != d2 {
		t.Error("digest changed across save/load")
	}
}

func TestSaveReplacesExistingContent(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("OpenDB error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := buildCorpus(t).Save(ctx, db); err != nil {
		t.Fatalf("first Save error: %v", err)
	}

	small := New()
	if _, err := small.AddCatalogNode(versionURN, nil); err != nil {
		t.Fatalf("AddCatalogNode error: %v", err)
	}
	if err := small.Save(ctx, db); err != nil {
		t.Fatalf("second Save error: %v", err)
	}

	loaded, err := Load(ctx, db)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := len(loaded.TextParts(versionURN)); got != 0 {
		t.Errorf("TextParts after replace = %d, want 0", got)
	}
}

func TestLookupDB(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("OpenDB error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := buildCorpus(t).Save(ctx, db); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	n, err := LookupDB(ctx, db, versionURN+":1.1")
	if err != nil {
		t.Fatalf("LookupDB error: %v", err)
	}
	if n.TextContent != "line one one" {
		t.Errorf("TextContent = %q", n.TextContent)
	}

	_, err = LookupDB(ctx, db, versionURN+":9.9")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("LookupDB missing = %v, want ErrNotFound", err)
	}
}
