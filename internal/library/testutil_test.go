// internal/library/testutil_test.go
package library

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/musicd/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err, "open db")
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Apply(db)
	require.NoError(t, err, "apply schema")
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func addTestItem(t *testing.T, store *Store, path, artist, album, title string) *Item {
	t.Helper()
	i := &Item{
		Path:        path,
		Title:       title,
		Artist:      artist,
		AlbumArtist: artist,
		Album:       album,
		Format:      "MP3",
	}
	require.NoError(t, store.AddItem(i))
	return i
}
