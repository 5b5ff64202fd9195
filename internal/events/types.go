// internal/events/types.go
package events

// Entity types
const (
	EntityImport = "import"
	EntityItem   = "item"
	EntityAlbum  = "album"
)

// Event type constants
const (
	EventImportStarted    = "import.started"
	EventImportTaskChosen = "import.task.chosen"
	EventImportCompleted  = "import.completed"
	EventImportFailed     = "import.failed"
	EventItemAdded        = "library.item.added"
	EventAlbumAdded       = "library.album.added"
	EventItemRemoved      = "library.item.removed"
)
