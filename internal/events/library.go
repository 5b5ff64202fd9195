// internal/events/library.go
package events

// ItemAdded is emitted when a track is added to the library.
type ItemAdded struct {
	BaseEvent
	ItemID  int64  `json:"item_id"`
	AlbumID *int64 `json:"album_id,omitempty"`
	Path    string `json:"path"`
	Artist  string `json:"artist"`
	Title   string `json:"title"`
}

// AlbumAdded is emitted when an album is created by an import.
type AlbumAdded struct {
	BaseEvent
	AlbumID     int64  `json:"album_id"`
	AlbumArtist string `json:"albumartist"`
	Album       string `json:"album"`
	Tracks      int    `json:"tracks"`
}

// ItemRemoved is emitted when a duplicate is replaced during import.
type ItemRemoved struct {
	BaseEvent
	ItemID int64  `json:"item_id"`
	Path   string `json:"path"`
}
