// internal/importer/history_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStore_Add(t *testing.T) {
	db := setupTestDB(t)
	store := NewHistoryStore(db)

	h := &HistoryEntry{
		Path:      "/incoming/Abbey Road",
		Action:    ActionImported,
		Items:     17,
		SessionID: "s1",
	}

	require.NoError(t, store.Add(h))

	assert.NotZero(t, h.ID, "ID should be set after Add")
	assert.False(t, h.CreatedAt.IsZero(), "CreatedAt should be set")
}

func TestHistoryStore_Seen(t *testing.T) {
	db := setupTestDB(t)
	store := NewHistoryStore(db)

	seen, err := store.Seen("/incoming/A")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Add(&HistoryEntry{Path: "/incoming/A", Action: ActionSkipped}))

	seen, err = store.Seen("/incoming/A")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.Seen("/incoming/B")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestHistoryStore_NonUTF8Path(t *testing.T) {
	db := setupTestDB(t)
	store := NewHistoryStore(db)

	raw := "/incoming/caf\xe9"
	require.NoError(t, store.Add(&HistoryEntry{Path: raw, Action: ActionImported}))

	seen, err := store.Seen(raw)
	require.NoError(t, err)
	assert.True(t, seen)

	entries, err := store.List(HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, raw, entries[0].Path)
}

func TestHistoryStore_List(t *testing.T) {
	db := setupTestDB(t)
	store := NewHistoryStore(db)

	actions := []string{ActionImported, ActionSkipped, ActionImported}
	for i, action := range actions {
		session := "s1"
		if i == 2 {
			session = "s2"
		}
		h := &HistoryEntry{Path: "/incoming/" + action, Action: action, SessionID: session}
		require.NoError(t, store.Add(h))
	}

	// List all
	entries, err := store.List(HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// List by session
	session := "s1"
	entries, err = store.List(HistoryFilter{SessionID: &session})
	require.NoError(t, err, "List by session")
	assert.Len(t, entries, 2)

	// List by action
	action := ActionImported
	entries, err = store.List(HistoryFilter{Action: &action})
	require.NoError(t, err, "List by action")
	assert.Len(t, entries, 2, "expected 2 imported entries")

	// List with limit
	entries, err = store.List(HistoryFilter{Limit: 2})
	require.NoError(t, err, "List with limit")
	assert.Len(t, entries, 2, "expected 2 entries with limit")
}

func TestHistoryStore_List_OrderByRecent(t *testing.T) {
	db := setupTestDB(t)
	store := NewHistoryStore(db)

	for _, p := range []string{"/a", "/b", "/c"} {
		require.NoError(t, store.Add(&HistoryEntry{Path: p, Action: ActionImported}))
	}

	entries, err := store.List(HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "/c", entries[0].Path)
	assert.Equal(t, "/b", entries[1].Path)
	assert.Equal(t, "/a", entries[2].Path)
}
