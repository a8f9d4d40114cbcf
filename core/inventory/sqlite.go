package inventory

import (
	"context"
	"database/sql"
	"encoding/json"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
	"github.com/scaife-viewer/ctsresolver/core/sqlite"
)

const nodesSchema = `
CREATE TABLE IF NOT EXISTS nodes (
	urn          TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	ref          TEXT NOT NULL DEFAULT '',
	rank         INTEGER NOT NULL DEFAULT 0,
	idx          INTEGER NOT NULL DEFAULT 0,
	version_urn  TEXT NOT NULL DEFAULT '',
	text_content TEXT NOT NULL DEFAULT '',
	metadata     TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_nodes_version ON nodes(version_urn, idx);
`

// OpenDB opens (and initializes) a corpus database at path.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, apperrors.NewIO("open", path, err)
	}
	if _, err := db.Exec(nodesSchema); err != nil {
		db.Close()
		return nil, apperrors.NewIO("initialize", path, err)
	}
	return db, nil
}

// Save persists the corpus to the database, replacing existing content.
func (c *Corpus) Save(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, "begin corpus save")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return apperrors.Wrap(err, "clear nodes")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (urn, kind, ref, rank, idx, version_urn, text_content, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return apperrors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	c.mu.RLock()
	defer c.mu.RUnlock()

	// Catalog nodes first, then text parts per version in document order.
	for _, n := range c.nodes {
		if n.Kind == KindTextPart {
			continue
		}
		if err := insertNode(ctx, stmt, n, ""); err != nil {
			return err
		}
	}
	for versionURN, parts := range c.parts {
		for _, n := range parts {
			if err := insertNode(ctx, stmt, n, versionURN); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func insertNode(ctx context.Context, stmt *sql.Stmt, n *Node, versionURN string) error {
	metadata := "{}"
	if len(n.Metadata) > 0 {
		data, err := json.Marshal(n.Metadata)
		if err != nil {
			return apperrors.Wrapf(err, "marshal metadata for %s", n.URN)
		}
		metadata = string(data)
	}
	_, err := stmt.ExecContext(ctx, n.URN, n.Kind, n.Ref, n.Rank, n.Idx, versionURN, n.TextContent, metadata)
	return apperrors.Wrapf(err, "insert node %s", n.URN)
}

// Load reads an entire corpus from the database.
func Load(ctx context.Context, db *sql.DB) (*Corpus, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT urn, kind, ref, rank, idx, version_urn, text_content, metadata
		FROM nodes ORDER BY version_urn, idx`)
	if err != nil {
		return nil, apperrors.Wrap(err, "query nodes")
	}
	defer rows.Close()

	c := New()
	for rows.Next() {
		var n Node
		var versionURN, metadata string
		if err := rows.Scan(&n.URN, &n.Kind, &n.Ref, &n.Rank, &n.Idx, &versionURN, &n.TextContent, &metadata); err != nil {
			return nil, apperrors.Wrap(err, "scan node")
		}
		if metadata != "" && metadata != "{}" {
			if err := json.Unmarshal([]byte(metadata), &n.Metadata); err != nil {
				return nil, apperrors.NewParse("JSON", "", "node metadata for "+n.URN+": "+err.Error())
			}
		}

		c.mu.Lock()
		node := n
		c.nodes[node.URN] = &node
		if node.Kind == KindTextPart {
			c.parts[versionURN] = append(c.parts[versionURN], &node)
		}
		c.mu.Unlock()
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "read nodes")
	}
	return c, nil
}

// LookupDB fetches a single node by URN directly from the database without
// loading the full corpus.
func LookupDB(ctx context.Context, db *sql.DB, urnStr string) (*Node, error) {
	var n Node
	var metadata string
	err := db.QueryRowContext(ctx, `
		SELECT urn, kind, ref, rank, idx, text_content, metadata
		FROM nodes WHERE urn = ?`, urnStr).
		Scan(&n.URN, &n.Kind, &n.Ref, &n.Rank, &n.Idx, &n.TextContent, &metadata)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("node", urnStr)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "lookup node")
	}
	if metadata != "" && metadata != "{}" {
		if err := json.Unmarshal([]byte(metadata), &n.Metadata); err != nil {
			return nil, apperrors.NewParse("JSON", "", "node metadata for "+n.URN+": "+err.Error())
		}
	}
	return &n, nil
}
