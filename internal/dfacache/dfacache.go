// Package dfacache persists compiled DFAs - their AT&T source, max_len, and
// precomputed counting table - in a modernc.org/sqlite database keyed by
// internal/dfa.DFA.Digest(), so a long-running fterankd process doesn't pay
// buildTable's O(N·|Σ|·max_len) big-integer cost on every request for a DFA
// it has already compiled.
//
// The storage shape follows server/dao/sqlite's blob-in-sqlite pattern: a
// rezi-encoded payload, base64-wrapped, in a single TEXT column.
package dfacache

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dekarrin/fterank/internal/dfa"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// ErrNotFound is returned by Get when no cache row exists for the requested
// digest.
var ErrNotFound = errors.New("no cached DFA for that digest")

// record is the rezi-encoded payload stored per cache row. Only exported
// fields round-trip through rezi, the same constraint server/dao/sqlite
// works under for game.State.
type record struct {
	AttText string
	MaxLen  uint
	Table   [][]string
}

// Cache is a sqlite-backed store of compiled DFAs, keyed by digest. The zero
// value is not usable; construct one with Open.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) a sqlite database at file and ensures
// its schema exists.
func Open(file string) (*Cache, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}
	c := &Cache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS dfas (
		id TEXT NOT NULL PRIMARY KEY,
		digest TEXT NOT NULL UNIQUE,
		payload TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	if _, err := c.db.Exec(stmt); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Put stores d under its own Digest(), overwriting any existing row for
// that digest. It is the caller's responsibility to call Put only after d
// has been fully built (New, not a partially-initialized value).
func (c *Cache) Put(ctx context.Context, d *dfa.DFA) error {
	rec := record{
		AttText: d.ATTText(),
		MaxLen:  d.MaxLen(),
		Table:   d.ExportTable(),
	}
	payload := base64.StdEncoding.EncodeToString(rezi.EncBinary(rec))

	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("dfacache: generating row id: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO dfas (id, digest, payload, created) VALUES (?, ?, ?, strftime('%s','now'))
		 ON CONFLICT(digest) DO UPDATE SET payload=excluded.payload, created=excluded.created`,
		id.String(), d.Digest(), payload,
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Get retrieves and reconstructs the DFA previously stored under digest,
// rebuilding it with dfa.NewFromTable so buildTable is not re-run. It
// returns ErrNotFound if no row matches.
func (c *Cache) Get(ctx context.Context, digest string) (*dfa.DFA, error) {
	var payload string
	row := c.db.QueryRowContext(ctx, `SELECT payload FROM dfas WHERE digest = ?`, digest)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapDBError(err)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("dfacache: stored payload for digest %s is not valid base64: %w", digest, err)
	}

	var rec record
	n, err := rezi.DecBinary(data, &rec)
	if err != nil {
		return nil, fmt.Errorf("dfacache: REZI decode for digest %s: %w", digest, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("dfacache: REZI decode for digest %s consumed %d/%d bytes", digest, n, len(data))
	}

	d, err := dfa.NewFromTable(rec.AttText, rec.MaxLen, rec.Table)
	if err != nil {
		return nil, fmt.Errorf("dfacache: rebuilding DFA for digest %s: %w", digest, err)
	}
	return d, nil
}

// Close closes the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return err
}
