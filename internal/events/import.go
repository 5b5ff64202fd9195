// internal/events/import.go
package events

// Import events use EntityImport with entity ID 0; the session is identified by SessionID.

// ImportStarted is emitted when an import session begins.
type ImportStarted struct {
	BaseEvent
	SessionID string   `json:"session_id"`
	Paths     []string `json:"paths"`
	Copy      bool     `json:"copy"`
	Move      bool     `json:"move"`
}

// ImportTaskChosen is emitted once per task after the engine decides what to do with it.
type ImportTaskChosen struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Choice    string `json:"choice"`
	Path      string `json:"path"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Items     int    `json:"items"`
}

// ImportCompleted is emitted when a session finishes without error.
type ImportCompleted struct {
	BaseEvent
	SessionID string         `json:"session_id"`
	Tasks     int            `json:"tasks"`
	Choices   map[string]int `json:"choices"`
	Added     int            `json:"added"`
}

// ImportFailed is emitted when a session aborts.
type ImportFailed struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// Total returns the number of tracks across all choices.
func (e *ImportCompleted) Total() int {
	n := 0
	for _, c := range e.Choices {
		n += c
	}
	return n
}
