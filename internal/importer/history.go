// internal/importer/history.go
package importer

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// History actions record what happened to an imported directory.
const (
	ActionImported = "imported"
	ActionSkipped  = "skipped"
	ActionFailed   = "failed"
)

// HistoryEntry is one directory seen by an import session.
type HistoryEntry struct {
	ID        int64
	Path      string // raw filesystem path
	Action    string
	Items     int
	SessionID string
	CreatedAt time.Time
}

// HistoryFilter specifies criteria for listing history.
type HistoryFilter struct {
	SessionID *string
	Action    *string
	Limit     int
}

// HistoryStore persists import history. Incremental imports consult it to skip
// directories that were already handled.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a history store.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Add inserts a new history entry.
func (s *HistoryStore) Add(h *HistoryEntry) error {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO import_history (path, action, items, session_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		[]byte(h.Path), h.Action, h.Items, h.SessionID, now,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	h.ID = id
	h.CreatedAt = now
	return nil
}

// Seen reports whether path was recorded by an earlier session.
func (s *HistoryStore) Seen(path string) (bool, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM import_history WHERE path = ? LIMIT 1`, []byte(path)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query history: %w", err)
	}
	return true, nil
}

// List returns history entries matching the filter.
// Results are ordered by most recent first.
func (s *HistoryStore) List(f HistoryFilter) ([]*HistoryEntry, error) {
	var conditions []string
	var args []any

	if f.SessionID != nil {
		conditions = append(conditions, "session_id = ?")
		args = append(args, *f.SessionID)
	}
	if f.Action != nil {
		conditions = append(conditions, "action = ?")
		args = append(args, *f.Action)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, path, action, items, session_id, created_at
		FROM import_history ` + whereClause + ` ORDER BY id DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*HistoryEntry
	for rows.Next() {
		h := &HistoryEntry{}
		var path []byte
		if err := rows.Scan(&h.ID, &path, &h.Action, &h.Items, &h.SessionID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		h.Path = string(path)
		results = append(results, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return results, nil
}
