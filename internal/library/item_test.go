package library

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddItem(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	i := &Item{
		Path:        "/music/Abbey Road/01 Come Together.mp3",
		Title:       "Come Together",
		Artist:      "The Beatles",
		AlbumArtist: "The Beatles",
		Album:       "Abbey Road",
		Year:        1969,
		Track:       1,
		TrackTotal:  17,
		Format:      "MP3",
	}
	require.NoError(t, store.AddItem(i))

	assert.NotZero(t, i.ID, "ID should be set after AddItem")
	assert.False(t, i.Added.IsZero(), "Added should be set")
}

func TestStore_GetItem(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	original := &Item{
		Path:        "/music/a.flac",
		Title:       "Song",
		Artist:      "Artist",
		AlbumArtist: "Artist",
		Album:       "Album",
		Year:        2001,
		Disc:        1,
		DiscTotal:   2,
		Comp:        true,
		Format:      "FLAC",
		Attributes:  map[string]any{"mood": "happy"},
	}
	require.NoError(t, store.AddItem(original))

	got, err := store.GetItem(original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Path, got.Path)
	assert.Equal(t, "Song", got.Title)
	assert.Equal(t, 2001, got.Year)
	assert.Equal(t, 2, got.DiscTotal)
	assert.True(t, got.Comp)
	assert.Nil(t, got.AlbumID)
	assert.Equal(t, "happy", got.Attributes["mood"])
}

func TestStore_GetItem_NotFound(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	_, err := store.GetItem(999999)
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestStore_AddItem_DuplicatePath(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	addTestItem(t, store, "/music/dup.mp3", "A", "B", "C")

	err := store.AddItem(&Item{Path: "/music/dup.mp3", Title: "Other"})
	assert.True(t, errors.Is(err, ErrDuplicate), "expected ErrDuplicate, got %v", err)
}

func TestStore_Item_NonUTF8Path(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	raw := "/music/caf\xe9.mp3"
	i := addTestItem(t, store, raw, "A", "B", "C")

	got, err := store.GetItem(i.ID)
	require.NoError(t, err)
	assert.Equal(t, raw, got.Path, "raw path bytes should round-trip")

	found, err := store.FindItemByPath(raw)
	require.NoError(t, err)
	assert.Equal(t, i.ID, found.ID)
}

func TestStore_UpdateItem(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	i := addTestItem(t, store, "/music/u.mp3", "A", "B", "Old")
	i.Title = "New"
	i.Attributes = map[string]any{"rating": "5"}
	require.NoError(t, store.UpdateItem(i))

	got, err := store.GetItem(i.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "5", got.Attributes["rating"])
}

func TestStore_UpdateItem_NotFound(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	err := store.UpdateItem(&Item{ID: 42, Path: "/nowhere.mp3"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_DeleteItem(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	i := addTestItem(t, store, "/music/d.mp3", "A", "B", "C")
	require.NoError(t, store.SetItemAttribute(i.ID, "k", "v"))
	require.NoError(t, store.DeleteItem(i.ID))

	_, err := store.GetItem(i.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	// Idempotent
	assert.NoError(t, store.DeleteItem(i.ID))
}

func TestStore_SetItemAttribute_Binary(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	i := addTestItem(t, store, "/music/b.mp3", "A", "B", "C")
	require.NoError(t, store.SetItemAttribute(i.ID, "fingerprint", []byte{0x00, 0xff, 0x10}))
	require.NoError(t, store.SetItemAttribute(i.ID, "fingerprint", []byte{0x01}))

	got, err := store.GetItem(i.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, got.Attributes["fingerprint"])
}

func TestStore_Items_Query(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	addTestItem(t, store, "/music/1.mp3", "The Beatles", "Abbey Road", "Something")
	addTestItem(t, store, "/music/2.mp3", "The Beatles", "Help!", "Yesterday")
	addTestItem(t, store, "/music/3.mp3", "Radiohead", "OK Computer", "Airbag")

	all, err := store.Items("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	beatles, err := store.Items("artist:beatles")
	require.NoError(t, err)
	assert.Len(t, beatles, 2)

	yesterday, err := store.Items("beatles yesterday")
	require.NoError(t, err)
	require.Len(t, yesterday, 1)
	assert.Equal(t, "Yesterday", yesterday[0].Title)

	_, err = store.Items(`"unterminated`)
	assert.True(t, errors.Is(err, ErrInvalidQuery))
}

func TestStore_IterItems_StopsOnError(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	addTestItem(t, store, "/music/1.mp3", "A", "B", "1")
	addTestItem(t, store, "/music/2.mp3", "A", "B", "2")

	stop := errors.New("stop")
	seen := 0
	err := store.IterItems("", func(*Item) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestStore_FindSingleton(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	i := addTestItem(t, store, "/music/s.mp3", "Artist", "", "Single")

	got, err := store.FindSingleton("Artist", "Single")
	require.NoError(t, err)
	assert.Equal(t, i.ID, got.ID)

	_, err = store.FindSingleton("Artist", "Other")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Counts(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	addTestItem(t, store, "/music/1.mp3", "A", "B", "1")
	require.NoError(t, store.AddAlbum(&Album{AlbumArtist: "A", Album: "B"}))

	items, albums, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, items)
	assert.Equal(t, 1, albums)
}

func TestItem_Fields(t *testing.T) {
	i := &Item{
		ID:         7,
		Path:       "/m/x.mp3",
		AlbumID:    ptr(int64(3)),
		Title:      "T",
		Attributes: map[string]any{"title": "shadowed", "mood": "calm"},
	}
	f := i.Fields()
	assert.Equal(t, int64(7), f["id"])
	assert.Equal(t, []byte("/m/x.mp3"), f["path"])
	assert.Equal(t, int64(3), f["album_id"])
	assert.Equal(t, "T", f["title"], "fixed fields win over attributes")
	assert.Equal(t, "calm", f["mood"])
}
