// Package index keeps a SQLite database of the headlines of many org files,
// so IDs can be resolved and titles searched without reparsing every file.
package index

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gerunddev/orgtree/internal/outline"
	"github.com/gerunddev/orgtree/internal/parser"
)

// ErrNotFound is returned when no headline carries the requested ID.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS files (
    path TEXT PRIMARY KEY,
    mtime INTEGER NOT NULL,
    hash TEXT NOT NULL,
    indexed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS nodes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    file TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
    line INTEGER NOT NULL,
    level INTEGER NOT NULL,
    headline TEXT NOT NULL,
    title TEXT NOT NULL,
    title_fold TEXT NOT NULL,
    org_id TEXT,
    todo TEXT,
    tags TEXT
);

CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file, line);
CREATE INDEX IF NOT EXISTS idx_nodes_org_id ON nodes(org_id);
`

// schemaVersion is stored in PRAGMA user_version. An index written with any
// other version is dropped and rebuilt.
const schemaVersion = 2

// Index is an open headline database.
type Index struct {
	db *sql.DB
}

// Hit is one indexed headline. A document level ID is stored with level 0,
// line 0 and the #+title as its title.
type Hit struct {
	Path     string
	Line     int
	Level    int
	Headline string
	Title    string
	OrgID    string
	Todo     string
	Tags     []string
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize index schema: %w", err)
	}
	return &Index{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version != schemaVersion {
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS nodes; DROP TABLE IF EXISTS files;`); err != nil {
			return err
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion))
	return err
}

// Close closes the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// computeHash computes the SHA256 hash of a file.
func computeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// NeedsUpdate reports whether path changed since it was last indexed.
// The modification time is compared first; the content hash decides only
// when the times differ.
func (ix *Index) NeedsUpdate(ctx context.Context, path string) (bool, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	var mtime int64
	var hash string
	err = ix.db.QueryRowContext(ctx, `SELECT mtime, hash FROM files WHERE path = ?`, path).Scan(&mtime, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("query %s: %w", path, err)
	}

	if info.ModTime().UnixNano() == mtime {
		return false, nil
	}
	current, err := computeHash(path)
	if err != nil {
		return false, err
	}
	return current != hash, nil
}

// Update replaces everything indexed for path with the headlines of root.
// keywords are the TODO states recognised in headlines; nil uses the parser
// defaults.
func (ix *Index) Update(ctx context.Context, path string, root *parser.Root, keywords []string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := computeHash(path)
	if err != nil {
		return err
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE file = ?`, path); err != nil {
		return fmt.Errorf("clear %s: %w", path, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO files (path, mtime, hash, indexed_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET mtime = excluded.mtime, hash = excluded.hash, indexed_at = excluded.indexed_at`,
		path, info.ModTime().UnixNano(), hash, time.Now().UTC()); err != nil {
		return fmt.Errorf("record %s: %w", path, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (file, line, level, headline, title, title_fold, org_id, todo, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	if id, ok := root.Property("ID"); ok {
		title, _ := root.Property("title")
		if _, err := stmt.ExecContext(ctx, path, 0, 0, "", title, strings.ToLower(title), nullable(id), nil, nil); err != nil {
			return fmt.Errorf("insert document id: %w", err)
		}
	}
	for _, e := range outline.Flatten(root, keywords) {
		id, _ := e.Node.Property("ID")
		if _, err := stmt.ExecContext(ctx, path, e.Line, e.Level, e.Headline, e.Title, strings.ToLower(e.Title),
			nullable(id), nullable(e.Keyword), nullable(joinTags(e.Tags))); err != nil {
			return fmt.Errorf("insert %s:%d: %w", path, e.Line, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Remove forgets path.
func (ix *Index) Remove(ctx context.Context, path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := ix.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Prune removes files that no longer exist on disk and returns how many
// were removed.
func (ix *Index) Prune(ctx context.Context) (int, error) {
	paths, err := ix.Files(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			continue
		}
		if err := ix.Remove(ctx, p); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Files lists the indexed paths in order.
func (ix *Index) Files(ctx context.Context) ([]string, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT path FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// LookupID finds the headline, or document, carrying the org ID id.
func (ix *Index) LookupID(ctx context.Context, id string) (Hit, error) {
	hits, err := ix.query(ctx, `WHERE org_id = ? ORDER BY file, line LIMIT 1`, id)
	if err != nil {
		return Hit{}, err
	}
	if len(hits) == 0 {
		return Hit{}, fmt.Errorf("id %s: %w", id, ErrNotFound)
	}
	return hits[0], nil
}

// Search returns up to limit headlines whose title contains term, ignoring
// case. Both sides are folded with strings.ToLower since SQLite's lower()
// only folds ASCII. A limit of zero or less returns every match.
func (ix *Index) Search(ctx context.Context, term string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = -1
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return ix.query(ctx, `WHERE level > 0 AND title_fold LIKE ? ESCAPE '\' ORDER BY file, line LIMIT ?`, pattern, limit)
}

// IDMap maps every indexed org ID to the base name of its file without the
// extension, the form wiki links use.
func (ix *Index) IDMap(ctx context.Context) (map[string]string, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT org_id, file FROM nodes WHERE org_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]string)
	for rows.Next() {
		var id, file string
		if err := rows.Scan(&id, &file); err != nil {
			return nil, err
		}
		base := filepath.Base(file)
		ids[id] = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ids, rows.Err()
}

// Count returns the number of indexed files and headlines.
func (ix *Index) Count(ctx context.Context) (files, nodes int, err error) {
	err = ix.db.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM files), (SELECT COUNT(*) FROM nodes WHERE level > 0)`).Scan(&files, &nodes)
	if err != nil {
		return 0, 0, fmt.Errorf("count: %w", err)
	}
	return files, nodes, nil
}

func (ix *Index) query(ctx context.Context, where string, args ...any) ([]Hit, error) {
	rows, err := ix.db.QueryContext(ctx, `
		SELECT file, line, level, headline, title, org_id, todo, tags FROM nodes `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var id, todo, tags sql.NullString
		if err := rows.Scan(&h.Path, &h.Line, &h.Level, &h.Headline, &h.Title, &id, &todo, &tags); err != nil {
			return nil, err
		}
		h.OrgID, h.Todo = id.String, todo.String
		h.Tags = splitTags(tags.String)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return ":" + strings.Join(tags, ":") + ":"
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ":") {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
