package library

import (
	"fmt"
)

func setAttribute(q querier, table string, entityID int64, key string, value any) error {
	_, err := q.Exec(`INSERT INTO `+table+` (entity_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(entity_id, key) DO UPDATE SET value = excluded.value`,
		entityID, key, value,
	)
	if err != nil {
		return fmt.Errorf("set attribute %s on %d: %w", key, entityID, mapSQLiteError(err))
	}
	return nil
}

// loadAttributes returns flexible attributes keyed by entity ID. A nil entityID loads
// attributes for every entity in the table.
func loadAttributes(q querier, table string, entityID *int64) (map[int64]map[string]any, error) {
	query := `SELECT entity_id, key, value FROM ` + table
	var args []any
	if entityID != nil {
		query += ` WHERE entity_id = ?`
		args = append(args, *entityID)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64]map[string]any)
	for rows.Next() {
		var (
			id    int64
			key   string
			value any
		)
		if err := rows.Scan(&id, &key, &value); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		if out[id] == nil {
			out[id] = make(map[string]any)
		}
		out[id][key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attributes: %w", err)
	}
	return out, nil
}

// SetItemAttribute upserts a flexible attribute on an item.
func (s *Store) SetItemAttribute(itemID int64, key string, value any) error {
	return setAttribute(s.db, "item_attributes", itemID, key, value)
}

// SetItemAttribute upserts a flexible attribute on an item within a transaction.
func (t *Tx) SetItemAttribute(itemID int64, key string, value any) error {
	return setAttribute(t.tx, "item_attributes", itemID, key, value)
}

// SetAlbumAttribute upserts a flexible attribute on an album.
func (s *Store) SetAlbumAttribute(albumID int64, key string, value any) error {
	return setAttribute(s.db, "album_attributes", albumID, key, value)
}

// SetAlbumAttribute upserts a flexible attribute on an album within a transaction.
func (t *Tx) SetAlbumAttribute(albumID int64, key string, value any) error {
	return setAttribute(t.tx, "album_attributes", albumID, key, value)
}
