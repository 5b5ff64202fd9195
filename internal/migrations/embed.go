// Package migrations holds the SQLite schema and applies it.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var files embed.FS

// Apply runs every sql/NNN_*.sql file newer than the database's
// user_version, in order, and returns how many ran. Each file runs in its
// own transaction together with the version bump.
func Apply(db *sql.DB) (int, error) {
	var current int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&current); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, e := range entries {
		prefix, _, _ := strings.Cut(e.Name(), "_")
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return applied, fmt.Errorf("migration %s: bad version prefix", e.Name())
		}
		if version <= current {
			continue
		}
		body, err := files.ReadFile("sql/" + e.Name())
		if err != nil {
			return applied, err
		}
		if err := run(db, version, string(body)); err != nil {
			return applied, fmt.Errorf("migration %s: %w", e.Name(), err)
		}
		applied++
	}
	return applied, nil
}

func run(db *sql.DB, version int, body string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(body); err != nil {
		return err
	}
	// PRAGMA does not take bind parameters.
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, version)); err != nil {
		return err
	}
	return tx.Commit()
}
