package library

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

const itemColumns = `id, path, album_id, title, artist, albumartist, album, genre, composer,
	year, track, tracktotal, disc, disctotal, format, comp, mtime, added`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	i := &Item{}
	var path []byte
	err := row.Scan(&i.ID, &path, &i.AlbumID, &i.Title, &i.Artist, &i.AlbumArtist, &i.Album,
		&i.Genre, &i.Composer, &i.Year, &i.Track, &i.TrackTotal, &i.Disc, &i.DiscTotal,
		&i.Format, &i.Comp, &i.MTime, &i.Added)
	if err != nil {
		return nil, err
	}
	i.Path = string(path)
	return i, nil
}

func addItem(q querier, i *Item) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO items (path, album_id, title, artist, albumartist, album, genre, composer,
			year, track, tracktotal, disc, disctotal, format, comp, mtime, added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		[]byte(i.Path), i.AlbumID, i.Title, i.Artist, i.AlbumArtist, i.Album, i.Genre, i.Composer,
		i.Year, i.Track, i.TrackTotal, i.Disc, i.DiscTotal, i.Format, i.Comp, i.MTime, now,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	i.ID = id
	i.Added = now
	for k, v := range i.Attributes {
		if err := setAttribute(q, "item_attributes", id, k, v); err != nil {
			return err
		}
	}
	return nil
}

// AddItem inserts a new item and its flexible attributes.
// Sets ID and Added on the struct.
func (s *Store) AddItem(i *Item) error { return addItem(s.db, i) }

// AddItem inserts a new item within a transaction.
func (t *Tx) AddItem(i *Item) error { return addItem(t.tx, i) }

func getItem(q querier, id int64) (*Item, error) {
	i, err := scanItem(q.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, mapSQLiteError(err))
	}
	attrs, err := loadAttributes(q, "item_attributes", &id)
	if err != nil {
		return nil, err
	}
	i.Attributes = attrs[id]
	return i, nil
}

// GetItem retrieves an item by ID.
// Returns ErrNotFound if the item does not exist.
func (s *Store) GetItem(id int64) (*Item, error) { return getItem(s.db, id) }

// GetItem retrieves an item by ID within a transaction.
func (t *Tx) GetItem(id int64) (*Item, error) { return getItem(t.tx, id) }

func findItemByPath(q querier, path string) (*Item, error) {
	i, err := scanItem(q.QueryRow(`SELECT `+itemColumns+` FROM items WHERE path = ?`, []byte(path)))
	if err != nil {
		return nil, fmt.Errorf("find item by path: %w", mapSQLiteError(err))
	}
	return i, nil
}

// FindItemByPath returns the item stored at path.
// Returns ErrNotFound if no item has that path.
func (s *Store) FindItemByPath(path string) (*Item, error) { return findItemByPath(s.db, path) }

// FindItemByPath returns the item stored at path within a transaction.
func (t *Tx) FindItemByPath(path string) (*Item, error) { return findItemByPath(t.tx, path) }

func updateItem(q querier, i *Item) error {
	result, err := q.Exec(`
		UPDATE items SET path = ?, album_id = ?, title = ?, artist = ?, albumartist = ?, album = ?,
			genre = ?, composer = ?, year = ?, track = ?, tracktotal = ?, disc = ?, disctotal = ?,
			format = ?, comp = ?, mtime = ?
		WHERE id = ?`,
		[]byte(i.Path), i.AlbumID, i.Title, i.Artist, i.AlbumArtist, i.Album, i.Genre, i.Composer,
		i.Year, i.Track, i.TrackTotal, i.Disc, i.DiscTotal, i.Format, i.Comp, i.MTime, i.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", i.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update item %d: %w", i.ID, ErrNotFound)
	}
	for k, v := range i.Attributes {
		if err := setAttribute(q, "item_attributes", i.ID, k, v); err != nil {
			return err
		}
	}
	return nil
}

// UpdateItem updates an existing item. Attributes present on the struct are upserted;
// attributes absent from it are left alone.
// Returns ErrNotFound if the item does not exist.
func (s *Store) UpdateItem(i *Item) error { return updateItem(s.db, i) }

// UpdateItem updates an existing item within a transaction.
func (t *Tx) UpdateItem(i *Item) error { return updateItem(t.tx, i) }

func deleteItem(q querier, id int64) error {
	if _, err := q.Exec("DELETE FROM item_attributes WHERE entity_id = ?", id); err != nil {
		return fmt.Errorf("delete item %d attributes: %w", id, mapSQLiteError(err))
	}
	if _, err := q.Exec("DELETE FROM items WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteItem removes an item by ID.
// This operation is idempotent - no error is returned if the item does not exist.
func (s *Store) DeleteItem(id int64) error { return deleteItem(s.db, id) }

// DeleteItem removes an item by ID within a transaction.
func (t *Tx) DeleteItem(id int64) error { return deleteItem(t.tx, id) }

// IterItems streams items matching query to fn in ID order. Iteration stops at the
// first error returned by fn, which is returned unchanged.
func (s *Store) IterItems(query string, fn func(*Item) error) error {
	return iterItems(s.db, query, "", nil, fn)
}

// Items returns all items matching query.
func (s *Store) Items(query string) ([]*Item, error) {
	var items []*Item
	err := s.IterItems(query, func(i *Item) error {
		items = append(items, i)
		return nil
	})
	return items, err
}

func iterItems(q querier, query, where string, args []any, fn func(*Item) error) error {
	pred, err := ParseQuery(query)
	if err != nil {
		return err
	}

	// Attributes are loaded before the item cursor opens so only one statement is
	// active at a time.
	attrs, err := loadAttributes(q, "item_attributes", nil)
	if err != nil {
		return err
	}

	rows, err := q.Query(`SELECT `+itemColumns+` FROM items `+where+` ORDER BY id`, args...)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		item.Attributes = attrs[item.ID]
		if !pred.Match(item.Fields()) {
			continue
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate items: %w", err)
	}
	return nil
}

func findDuplicateItem(q querier, artist, title string) (*Item, error) {
	i, err := scanItem(q.QueryRow(`SELECT `+itemColumns+` FROM items
		WHERE artist = ? AND title = ? AND album_id IS NULL ORDER BY id LIMIT 1`, artist, title))
	if err != nil {
		return nil, fmt.Errorf("find singleton: %w", mapSQLiteError(err))
	}
	return i, nil
}

// FindSingleton returns the first singleton item with the given artist and title.
// Returns ErrNotFound if there is none.
func (s *Store) FindSingleton(artist, title string) (*Item, error) {
	return findDuplicateItem(s.db, artist, title)
}

// FindSingleton returns the first matching singleton within a transaction.
func (t *Tx) FindSingleton(artist, title string) (*Item, error) {
	return findDuplicateItem(t.tx, artist, title)
}
