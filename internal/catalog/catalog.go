// Package catalog records the index of an archive and the volume header of
// every entry in an SQLite database.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sci "github.com/32bitkid/scires"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS archives (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	map        TEXT NOT NULL UNIQUE,
	generation TEXT NOT NULL,
	entries    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS resources (
	archive_id INTEGER NOT NULL REFERENCES archives(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	type       INTEGER NOT NULL,
	number     INTEGER NOT NULL,
	volume     INTEGER NOT NULL,
	offset     INTEGER NOT NULL,
	method     INTEGER,
	packed     INTEGER,
	unpacked   INTEGER,
	error      TEXT,
	PRIMARY KEY (archive_id, name)
);
`

// Catalog is an open catalogue database.
type Catalog struct {
	db   *sql.DB
	path string
}

// Stats summarises one Record call.
type Stats struct {
	Entries int
	Failed  int
}

func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("testing database connection: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Catalog{db: db, path: path}, nil
}

func (c *Catalog) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("closing database connection: %w", err)
	}
	return nil
}

// Record replaces the catalogue of the archive opened from mapPath. Entries
// whose header cannot be read are stored with the error and counted as
// failed; they do not stop the others.
func (c *Catalog) Record(ctx context.Context, mapPath string, a sci.Archive) (Stats, error) {
	var stats Stats

	names, err := a.Names("*")
	if err != nil {
		return stats, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM resources WHERE archive_id IN (SELECT id FROM archives WHERE map = ?)`, mapPath); err != nil {
		return stats, fmt.Errorf("clearing resources: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM archives WHERE map = ?`, mapPath); err != nil {
		return stats, fmt.Errorf("clearing archive: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO archives (map, generation, entries) VALUES (?, ?, ?)`,
		mapPath, a.Generation().String(), len(names))
	if err != nil {
		return stats, fmt.Errorf("inserting archive: %w", err)
	}
	archiveID, err := res.LastInsertId()
	if err != nil {
		return stats, fmt.Errorf("reading archive id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO resources
		(archive_id, name, type, number, volume, offset, method, packed, unpacked, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return stats, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range names {
		loc, _ := a.Lookup(name)

		var method, packed, unpacked, failure any
		if h, err := a.Stat(name); err != nil {
			slog.Debug("catalog: header unreadable", "name", name, "error", err)
			failure = err.Error()
			stats.Failed++
		} else {
			method, packed, unpacked = int(h.Method), h.CompressedSize, h.DecompressedSize
		}

		if _, err := stmt.ExecContext(ctx,
			archiveID, name, int(loc.Type), int(loc.Number), int(loc.Volume), int64(loc.Offset),
			method, packed, unpacked, failure,
		); err != nil {
			return stats, fmt.Errorf("inserting %s: %w", name, err)
		}
		stats.Entries++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing catalog: %w", err)
	}
	return stats, nil
}

// Methods counts the catalogued resources per compression method.
func (c *Catalog) Methods(ctx context.Context) (map[int]int, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT method, COUNT(*) FROM resources WHERE method IS NOT NULL GROUP BY method`)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var method, n int
		if err := rows.Scan(&method, &n); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		counts[method] = n
	}
	return counts, rows.Err()
}
