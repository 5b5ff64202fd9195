package library

import (
	"fmt"
	"time"
)

const albumColumns = `id, albumartist, album, genre, year, comp, artpath, added`

func scanAlbum(row rowScanner) (*Album, error) {
	a := &Album{}
	var artPath []byte
	if err := row.Scan(&a.ID, &a.AlbumArtist, &a.Album, &a.Genre, &a.Year, &a.Comp, &artPath, &a.Added); err != nil {
		return nil, err
	}
	a.ArtPath = string(artPath)
	return a, nil
}

func addAlbum(q querier, a *Album) error {
	now := time.Now()
	var artPath []byte
	if a.ArtPath != "" {
		artPath = []byte(a.ArtPath)
	}
	result, err := q.Exec(`
		INSERT INTO albums (albumartist, album, genre, year, comp, artpath, added)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.AlbumArtist, a.Album, a.Genre, a.Year, a.Comp, artPath, now,
	)
	if err != nil {
		return fmt.Errorf("insert album: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.ID = id
	a.Added = now
	for k, v := range a.Attributes {
		if err := setAttribute(q, "album_attributes", id, k, v); err != nil {
			return err
		}
	}
	return nil
}

// AddAlbum inserts a new album. Sets ID and Added on the struct.
func (s *Store) AddAlbum(a *Album) error { return addAlbum(s.db, a) }

// AddAlbum inserts a new album within a transaction.
func (t *Tx) AddAlbum(a *Album) error { return addAlbum(t.tx, a) }

func getAlbum(q querier, id int64) (*Album, error) {
	a, err := scanAlbum(q.QueryRow(`SELECT `+albumColumns+` FROM albums WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get album %d: %w", id, mapSQLiteError(err))
	}
	attrs, err := loadAttributes(q, "album_attributes", &id)
	if err != nil {
		return nil, err
	}
	a.Attributes = attrs[id]
	return a, nil
}

// GetAlbum retrieves an album by ID.
// Returns ErrNotFound if the album does not exist.
func (s *Store) GetAlbum(id int64) (*Album, error) { return getAlbum(s.db, id) }

// GetAlbum retrieves an album by ID within a transaction.
func (t *Tx) GetAlbum(id int64) (*Album, error) { return getAlbum(t.tx, id) }

func findAlbum(q querier, albumArtist, album string) (*Album, error) {
	a, err := scanAlbum(q.QueryRow(`SELECT `+albumColumns+` FROM albums
		WHERE albumartist = ? AND album = ? ORDER BY id LIMIT 1`, albumArtist, album))
	if err != nil {
		return nil, fmt.Errorf("find album: %w", mapSQLiteError(err))
	}
	return a, nil
}

// FindAlbum returns the first album with the given album artist and title.
// Returns ErrNotFound if there is none.
func (s *Store) FindAlbum(albumArtist, album string) (*Album, error) {
	return findAlbum(s.db, albumArtist, album)
}

// FindAlbum returns the first matching album within a transaction.
func (t *Tx) FindAlbum(albumArtist, album string) (*Album, error) {
	return findAlbum(t.tx, albumArtist, album)
}

func deleteAlbum(q querier, id int64) error {
	if _, err := q.Exec("UPDATE items SET album_id = NULL WHERE album_id = ?", id); err != nil {
		return fmt.Errorf("detach album %d items: %w", id, mapSQLiteError(err))
	}
	if _, err := q.Exec("DELETE FROM album_attributes WHERE entity_id = ?", id); err != nil {
		return fmt.Errorf("delete album %d attributes: %w", id, mapSQLiteError(err))
	}
	if _, err := q.Exec("DELETE FROM albums WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete album %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteAlbum removes an album. Its items are kept as singletons.
// This operation is idempotent.
func (s *Store) DeleteAlbum(id int64) error { return deleteAlbum(s.db, id) }

// DeleteAlbum removes an album within a transaction.
func (t *Tx) DeleteAlbum(id int64) error { return deleteAlbum(t.tx, id) }

func itemsForAlbum(q querier, albumID int64) ([]*Item, error) {
	var items []*Item
	err := iterItems(q, "", "WHERE album_id = ?", []any{albumID}, func(i *Item) error {
		items = append(items, i)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ItemsForAlbum returns the album's items in ID order.
func (s *Store) ItemsForAlbum(albumID int64) ([]*Item, error) { return itemsForAlbum(s.db, albumID) }

// ItemsForAlbum returns the album's items within a transaction.
func (t *Tx) ItemsForAlbum(albumID int64) ([]*Item, error) { return itemsForAlbum(t.tx, albumID) }

// IterAlbums streams albums matching query to fn in ID order.
func (s *Store) IterAlbums(query string, fn func(*Album) error) error {
	pred, err := ParseQuery(query)
	if err != nil {
		return err
	}
	attrs, err := loadAttributes(s.db, "album_attributes", nil)
	if err != nil {
		return err
	}

	rows, err := s.db.Query(`SELECT ` + albumColumns + ` FROM albums ORDER BY id`)
	if err != nil {
		return fmt.Errorf("list albums: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return fmt.Errorf("scan album: %w", err)
		}
		a.Attributes = attrs[a.ID]
		if !pred.Match(a.Fields()) {
			continue
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate albums: %w", err)
	}
	return nil
}

// Albums returns all albums matching query.
func (s *Store) Albums(query string) ([]*Album, error) {
	var albums []*Album
	err := s.IterAlbums(query, func(a *Album) error {
		albums = append(albums, a)
		return nil
	})
	return albums, err
}
