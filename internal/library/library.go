// Package library manages the music catalogue (items, albums and their flexible attributes).
package library

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Item is a single audio track in the library.
type Item struct {
	ID          int64
	Path        string // raw filesystem path, may not be valid UTF-8
	AlbumID     *int64 // nil for singletons
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	Composer    string
	Year        int
	Track       int
	TrackTotal  int
	Disc        int
	DiscTotal   int
	Format      string
	Comp        bool
	MTime       int64
	Added       time.Time

	// Attributes holds flexible fields. Values are string or []byte.
	Attributes map[string]any
}

// Album groups items that were imported together.
type Album struct {
	ID          int64
	AlbumArtist string
	Album       string
	Genre       string
	Year        int
	Comp        bool
	ArtPath     string // raw filesystem path, empty if no art
	Added       time.Time

	Attributes map[string]any
}

// Fields returns the item as a flat field map, fixed fields first then flexible
// attributes. Fixed fields win on key collisions.
func (i *Item) Fields() map[string]any {
	out := make(map[string]any, 18+len(i.Attributes))
	for k, v := range i.Attributes {
		out[k] = v
	}
	var albumID any
	if i.AlbumID != nil {
		albumID = *i.AlbumID
	}
	out["id"] = i.ID
	out["path"] = []byte(i.Path)
	out["album_id"] = albumID
	out["title"] = i.Title
	out["artist"] = i.Artist
	out["albumartist"] = i.AlbumArtist
	out["album"] = i.Album
	out["genre"] = i.Genre
	out["composer"] = i.Composer
	out["year"] = i.Year
	out["track"] = i.Track
	out["tracktotal"] = i.TrackTotal
	out["disc"] = i.Disc
	out["disctotal"] = i.DiscTotal
	out["format"] = i.Format
	out["comp"] = i.Comp
	out["mtime"] = i.MTime
	out["added"] = i.Added.Unix()
	return out
}

// Fields returns the album as a flat field map.
func (a *Album) Fields() map[string]any {
	out := make(map[string]any, 8+len(a.Attributes))
	for k, v := range a.Attributes {
		out[k] = v
	}
	out["id"] = a.ID
	out["albumartist"] = a.AlbumArtist
	out["album"] = a.Album
	out["genre"] = a.Genre
	out["year"] = a.Year
	out["comp"] = a.Comp
	out["artpath"] = []byte(a.ArtPath)
	out["added"] = a.Added.Unix()
	return out
}

// fixedItemFields are item columns that can be addressed from a query or --set.
var fixedItemFields = map[string]bool{
	"id": true, "path": true, "album_id": true, "title": true, "artist": true,
	"albumartist": true, "album": true, "genre": true, "composer": true, "year": true,
	"track": true, "tracktotal": true, "disc": true, "disctotal": true, "format": true,
	"comp": true, "mtime": true, "added": true,
}

// IsFixedItemField reports whether name is a column of the items table.
func IsFixedItemField(name string) bool {
	return fixedItemFields[name]
}

// Set assigns a field from its string form. Fixed fields are parsed to their
// column type; any other name becomes a flexible attribute.
func (i *Item) Set(field, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("field %s: %q is not a number", field, value)
		}
		return n, nil
	}

	var err error
	switch field {
	case "id", "path", "album_id", "mtime", "added":
		return fmt.Errorf("field %s is read-only", field)
	case "title":
		i.Title = value
	case "artist":
		i.Artist = value
	case "albumartist":
		i.AlbumArtist = value
	case "album":
		i.Album = value
	case "genre":
		i.Genre = value
	case "composer":
		i.Composer = value
	case "format":
		i.Format = value
	case "year":
		i.Year, err = atoi()
	case "track":
		i.Track, err = atoi()
	case "tracktotal":
		i.TrackTotal, err = atoi()
	case "disc":
		i.Disc, err = atoi()
	case "disctotal":
		i.DiscTotal, err = atoi()
	case "comp":
		i.Comp, err = strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			err = fmt.Errorf("field comp: %q is not a boolean", value)
		}
	default:
		if i.Attributes == nil {
			i.Attributes = make(map[string]any)
		}
		i.Attributes[field] = value
	}
	return err
}
